package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"fashion_store_v1_202608/internal/api/dto"
	"fashion_store_v1_202608/internal/model"
	"fashion_store_v1_202608/internal/repository"
)

func newOrderTestEnv(t *testing.T) (*OrderService, *ProductService, *repository.StoreUnitOfWork) {
	db := setupStoreTestDB(t)

	// sqlite 单连接串行化，下单并发测试依赖数据库排队而不是报锁错误
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层 SQL DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	uow := repository.NewStoreUnitOfWork(db)
	return NewOrderService(uow, nil, zap.NewNop()), NewProductService(uow, zap.NewNop()), uow
}

// seedCatalog 写入两件商品：100 元的 T 恤（M=10, L=3）和 50 元的短裤（S=2）
func seedCatalog(t *testing.T, products *ProductService) (int64, int64) {
	ctx := context.Background()

	tshirt, err := products.Create(ctx, &dto.CreateProductReq{
		Name:         "纯棉T恤",
		MainCategory: model.CategoryMen,
		Price:        floatPtr(100),
		Sizes: []dto.SizeReq{
			{SizeValue: "M", Stock: intPtr(10)},
			{SizeValue: "L", Stock: intPtr(3)},
		},
	})
	if err != nil {
		t.Fatalf("写入测试商品失败: %v", err)
	}

	shorts, err := products.Create(ctx, &dto.CreateProductReq{
		Name:         "运动短裤",
		MainCategory: model.CategoryMen,
		Price:        floatPtr(50),
		Sizes:        []dto.SizeReq{{SizeValue: "S", Stock: intPtr(2)}},
	})
	if err != nil {
		t.Fatalf("写入测试商品失败: %v", err)
	}

	return tshirt, shorts
}

func validOrderReq(items ...dto.OrderItemReq) *dto.PlaceOrderReq {
	return &dto.PlaceOrderReq{
		CustomerName:    "张伟",
		CustomerPhone:   "13800138000",
		CustomerAddress: "上海市徐汇区漕溪北路 100 号",
		Items:           items,
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	orders, products, uow := newOrderTestEnv(t)
	ctx := context.Background()

	tshirt, _ := seedCatalog(t, products)

	order, err := orders.PlaceOrder(ctx, 1, validOrderReq(
		dto.OrderItemReq{ProductID: tshirt, SizeValue: "M", Quantity: 2},
	))
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	if order.Status != model.OrderStatusProcessing {
		t.Errorf("订单状态 = %s, 期望 processing", order.Status)
	}
	if order.GetTotal() != 200 {
		t.Errorf("订单总额 = %v, 期望 200", order.GetTotal())
	}
	if len(order.Items) != 1 {
		t.Fatalf("订单项数量 = %d, 期望 1", len(order.Items))
	}
	if order.Items[0].ProductName != "纯棉T恤" {
		t.Errorf("商品名快照 = %s, 期望 纯棉T恤", order.Items[0].ProductName)
	}

	stock, _ := uow.Sizes.GetStock(ctx, tshirt, "M")
	if stock != 8 {
		t.Errorf("下单后库存 = %d, 期望 8", stock)
	}
}

func TestOrderService_PlaceOrder_SnapshotSurvivesPriceChange(t *testing.T) {
	orders, products, _ := newOrderTestEnv(t)
	ctx := context.Background()

	tshirt, _ := seedCatalog(t, products)

	order, err := orders.PlaceOrder(ctx, 1, validOrderReq(
		dto.OrderItemReq{ProductID: tshirt, SizeValue: "M", Quantity: 1},
	))
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	// 改价不影响已落库订单的快照
	err = products.Update(ctx, tshirt, &dto.UpdateProductReq{
		Price: dto.Optional[float64]{Set: true, Valid: true, Value: 999},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := orders.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Items[0].GetPrice() != 100 {
		t.Errorf("快照单价 = %v, 期望 100", got.Items[0].GetPrice())
	}
	if got.GetTotal() != 100 {
		t.Errorf("订单总额 = %v, 期望 100", got.GetTotal())
	}
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	orders, products, uow := newOrderTestEnv(t)
	ctx := context.Background()

	tshirt, _ := seedCatalog(t, products)

	_, err := orders.PlaceOrder(ctx, 1, validOrderReq(
		dto.OrderItemReq{ProductID: tshirt, SizeValue: "L", Quantity: 5},
	))

	var serr *StockError
	if !errors.As(err, &serr) {
		t.Fatalf("PlaceOrder() error = %v, 期望 StockError", err)
	}
	if serr.Requested != 5 || serr.Available != 3 {
		t.Errorf("StockError = 请求 %d / 可用 %d, 期望 5 / 3", serr.Requested, serr.Available)
	}

	// 失败下单不得改动库存
	stock, _ := uow.Sizes.GetStock(ctx, tshirt, "L")
	if stock != 3 {
		t.Errorf("库存 = %d, 期望保持 3", stock)
	}
}

func TestOrderService_PlaceOrder_MidOrderFailureRollsBack(t *testing.T) {
	orders, products, uow := newOrderTestEnv(t)
	ctx := context.Background()

	tshirt, shorts := seedCatalog(t, products)

	// 第一项够货，第二项超卖，整单必须回滚
	_, err := orders.PlaceOrder(ctx, 1, validOrderReq(
		dto.OrderItemReq{ProductID: tshirt, SizeValue: "M", Quantity: 2},
		dto.OrderItemReq{ProductID: shorts, SizeValue: "S", Quantity: 5},
	))
	var serr *StockError
	if !errors.As(err, &serr) {
		t.Fatalf("PlaceOrder() error = %v, 期望 StockError", err)
	}

	// 第一项已扣的库存必须恢复
	stock, _ := uow.Sizes.GetStock(ctx, tshirt, "M")
	if stock != 10 {
		t.Errorf("回滚后库存 = %d, 期望 10", stock)
	}

	// 不产生半成品订单
	all, err := orders.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("回滚后订单数量 = %d, 期望 0", len(all))
	}
}

func TestOrderService_PlaceOrder_ProductNotFound(t *testing.T) {
	orders, products, _ := newOrderTestEnv(t)
	ctx := context.Background()

	seedCatalog(t, products)

	_, err := orders.PlaceOrder(ctx, 1, validOrderReq(
		dto.OrderItemReq{ProductID: 9999, SizeValue: "M", Quantity: 1},
	))
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("PlaceOrder() error = %v, 期望 ErrProductNotFound", err)
	}
}

func TestOrderService_PlaceOrder_InactiveProduct(t *testing.T) {
	orders, products, _ := newOrderTestEnv(t)
	ctx := context.Background()

	tshirt, _ := seedCatalog(t, products)
	err := products.Update(ctx, tshirt, &dto.UpdateProductReq{
		IsActive: dto.Optional[string]{Set: true, Valid: true, Value: model.ProductStatusInactive},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// 下架商品不可下单
	_, err = orders.PlaceOrder(ctx, 1, validOrderReq(
		dto.OrderItemReq{ProductID: tshirt, SizeValue: "M", Quantity: 1},
	))
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("PlaceOrder() error = %v, 期望 ErrProductNotFound", err)
	}
}

func TestOrderService_PlaceOrder_SizeNotFound(t *testing.T) {
	orders, products, _ := newOrderTestEnv(t)
	ctx := context.Background()

	tshirt, _ := seedCatalog(t, products)

	_, err := orders.PlaceOrder(ctx, 1, validOrderReq(
		dto.OrderItemReq{ProductID: tshirt, SizeValue: "XXL", Quantity: 1},
	))
	if !errors.Is(err, ErrSizeNotFound) {
		t.Fatalf("PlaceOrder() error = %v, 期望 ErrSizeNotFound", err)
	}
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	orders, _, _ := newOrderTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.PlaceOrderReq)
	}{
		{"缺少收货人", func(r *dto.PlaceOrderReq) { r.CustomerName = "" }},
		{"缺少电话", func(r *dto.PlaceOrderReq) { r.CustomerPhone = "" }},
		{"缺少地址", func(r *dto.PlaceOrderReq) { r.CustomerAddress = "" }},
		{"空行项", func(r *dto.PlaceOrderReq) { r.Items = nil }},
		{"数量为零", func(r *dto.PlaceOrderReq) { r.Items[0].Quantity = 0 }},
		{"数量为负", func(r *dto.PlaceOrderReq) { r.Items[0].Quantity = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validOrderReq(dto.OrderItemReq{ProductID: 1, SizeValue: "M", Quantity: 1})
			tc.mutate(req)

			_, err := orders.PlaceOrder(ctx, 1, req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("PlaceOrder() error = %v, 期望 ValidationError", err)
			}
		})
	}
}

func TestOrderService_PlaceOrder_NoOversell(t *testing.T) {
	orders, products, uow := newOrderTestEnv(t)
	ctx := context.Background()

	tshirt, _ := seedCatalog(t, products)

	// L 码只有 3 件，10 个并发各抢 1 件，最多 3 单成交
	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = orders.PlaceOrder(ctx, int64(i+1), validOrderReq(
				dto.OrderItemReq{ProductID: tshirt, SizeValue: "L", Quantity: 1},
			))
		}(i)
	}
	wg.Wait()

	var success int
	for _, err := range errs {
		if err == nil {
			success++
			continue
		}
		var serr *StockError
		if !errors.As(err, &serr) {
			t.Fatalf("意外错误: %v", err)
		}
	}
	if success != 3 {
		t.Errorf("成交订单 = %d, 期望 3", success)
	}

	stock, _ := uow.Sizes.GetStock(ctx, tshirt, "L")
	if stock != 0 {
		t.Errorf("最终库存 = %d, 期望 0", stock)
	}
}

func TestOrderService_Lifecycle(t *testing.T) {
	orders, products, _ := newOrderTestEnv(t)
	ctx := context.Background()

	tshirt, _ := seedCatalog(t, products)
	order, err := orders.PlaceOrder(ctx, 1, validOrderReq(
		dto.OrderItemReq{ProductID: tshirt, SizeValue: "M", Quantity: 1},
	))
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	// processing 状态不允许直接完成
	var terr *TransitionError
	if err := orders.Complete(ctx, order.ID); !errors.As(err, &terr) {
		t.Fatalf("Complete() error = %v, 期望 TransitionError", err)
	}

	if err := orders.Accept(ctx, order.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	// 重复接单拒绝
	if err := orders.Accept(ctx, order.ID); !errors.As(err, &terr) {
		t.Fatalf("重复 Accept() error = %v, 期望 TransitionError", err)
	}

	if err := orders.Complete(ctx, order.ID); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	// completed 为终态
	if err := orders.Accept(ctx, order.ID); !errors.As(err, &terr) {
		t.Fatalf("终态 Accept() error = %v, 期望 TransitionError", err)
	}

	got, err := orders.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != model.OrderStatusCompleted {
		t.Errorf("订单状态 = %s, 期望 completed", got.Status)
	}
}

func TestOrderService_Accept_NotFound(t *testing.T) {
	orders, _, _ := newOrderTestEnv(t)
	ctx := context.Background()

	if err := orders.Accept(ctx, 9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("Accept() error = %v, 期望 ErrOrderNotFound", err)
	}
}

func TestOrderService_ListByUser(t *testing.T) {
	orders, products, _ := newOrderTestEnv(t)
	ctx := context.Background()

	tshirt, _ := seedCatalog(t, products)

	for _, userID := range []int64{1, 1, 2} {
		_, err := orders.PlaceOrder(ctx, userID, validOrderReq(
			dto.OrderItemReq{ProductID: tshirt, SizeValue: "M", Quantity: 1},
		))
		if err != nil {
			t.Fatalf("PlaceOrder() error = %v", err)
		}
	}

	mine, err := orders.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("用户 1 订单数量 = %d, 期望 2", len(mine))
	}

	all, err := orders.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("订单总数 = %d, 期望 3", len(all))
	}
	if len(all[0].Items) == 0 {
		t.Errorf("ListAll 应预载订单项")
	}
}
