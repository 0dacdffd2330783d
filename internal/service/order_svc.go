package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fashion_store_v1_202608/internal/api/dto"
	"fashion_store_v1_202608/internal/model"
	"fashion_store_v1_202608/internal/repository"
)

// ==================== OrderService ====================

// OrderService 订单服务：下单事务与生命周期流转。
// 库存校验与扣减依赖数据库行级条件更新，进程内不持有库存状态。
type OrderService struct {
	uow      *repository.StoreUnitOfWork
	notifier *NotifyService
	logger   *zap.Logger
}

// NewOrderService 创建订单服务
func NewOrderService(uow *repository.StoreUnitOfWork, notifier *NotifyService, logger *zap.Logger) *OrderService {
	return &OrderService{uow: uow, notifier: notifier, logger: logger}
}

// ==================== 下单 ====================

// PlaceOrder 下单：按提交顺序逐项快照商品名/单价并条件扣减库存，
// 任何一项失败（不存在或库存不足）整单回滚，不产生半成品订单，
// 也不丢失已扣库存。成功后订单以 processing 状态落库。
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, req *dto.PlaceOrderReq) (*model.Order, error) {
	if err := validatePlaceOrder(req); err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:          userID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Description:     req.Description,
		Status:          model.OrderStatusProcessing,
	}

	err := s.uow.Transaction(ctx, func(tx *repository.StoreUnitOfWork) error {
		items := make([]model.OrderItem, 0, len(req.Items))
		var total int64

		// 按提交顺序处理，首个失败项终止整个事务
		for _, it := range req.Items {
			product, err := tx.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("商品 %d: %w", it.ProductID, ErrProductNotFound)
				}
				return fmt.Errorf("查询商品 %d 失败: %w", it.ProductID, err)
			}
			// 下架商品对买家等同于不存在
			if !product.IsActive() {
				return fmt.Errorf("商品 %d: %w", it.ProductID, ErrProductNotFound)
			}

			if err := tx.Sizes.Decrement(ctx, it.ProductID, it.SizeValue, it.Quantity); err != nil {
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					return fmt.Errorf("商品 %d 尺码 %s: %w", it.ProductID, it.SizeValue, ErrSizeNotFound)
				case errors.Is(err, repository.ErrInsufficientStock):
					available, gerr := tx.Sizes.GetStock(ctx, it.ProductID, it.SizeValue)
					if gerr != nil {
						available = 0
					}
					return &StockError{
						ProductID: it.ProductID,
						SizeValue: it.SizeValue,
						Requested: it.Quantity,
						Available: available,
					}
				default:
					return fmt.Errorf("扣减库存失败: %w", err)
				}
			}

			line := product.PriceAmount * int64(it.Quantity)
			total += line
			items = append(items, model.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				SizeValue:   it.SizeValue,
				PriceAmount: product.PriceAmount,
				Quantity:    it.Quantity,
				LineAmount:  line,
			})
		}

		order.Items = items
		order.TotalAmount = total
		if err := tx.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("写入订单失败: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("下单失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("订单已创建",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", userID),
		zap.Int64("total_amount", order.TotalAmount),
		zap.Int("item_count", len(order.Items)))
	return order, nil
}

// ==================== 生命周期流转 ====================

// Accept 接单：processing → accepted
func (s *OrderService) Accept(ctx context.Context, orderID int64) error {
	if err := s.transition(ctx, orderID, model.OrderStatusProcessing, model.OrderStatusAccepted); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(orderID, model.OrderStatusAccepted)
	}
	return nil
}

// Complete 完成订单：accepted → completed
func (s *OrderService) Complete(ctx context.Context, orderID int64) error {
	if err := s.transition(ctx, orderID, model.OrderStatusAccepted, model.OrderStatusCompleted); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(orderID, model.OrderStatusCompleted)
	}
	return nil
}

// transition 条件状态推进。UPDATE 未命中时回查订单，
// 区分订单不存在与非法转移；非法转移不改动订单。
func (s *OrderService) transition(ctx context.Context, orderID int64, from, to string) error {
	rows, err := s.uow.Orders.UpdateStatusIf(ctx, orderID, from, to)
	if err != nil {
		s.logger.Error("订单状态更新失败", zap.Int64("order_id", orderID), zap.Error(err))
		return fmt.Errorf("更新订单状态失败: %w", err)
	}
	if rows > 0 {
		s.logger.Info("订单状态已推进",
			zap.Int64("order_id", orderID),
			zap.String("from", from),
			zap.String("to", to))
		return nil
	}

	order, err := s.uow.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("查询订单失败: %w", err)
	}
	return &TransitionError{OrderID: orderID, From: order.Status, To: to}
}

// ==================== 查询 ====================

// GetByID 订单详情（含订单项）
func (s *OrderService) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := s.uow.Orders.GetByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	return order, nil
}

// ListByUser 用户自己的订单，新单在前
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := s.uow.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询订单列表失败: %w", err)
	}
	return orders, nil
}

// ListAll 全部订单（管理端）
func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.uow.Orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询订单列表失败: %w", err)
	}
	return orders, nil
}

// ==================== 转换与校验 ====================

// ToOrderResp 模型转订单响应
func ToOrderResp(o *model.Order) dto.OrderResp {
	items := make([]dto.OrderItemResp, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResp{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SizeValue:   it.SizeValue,
			Quantity:    it.Quantity,
			UnitPrice:   it.GetPrice(),
			LineTotal:   it.GetLineTotal(),
		})
	}
	return dto.OrderResp{
		OrderID:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		Description:     o.Description,
		Status:          o.Status,
		Total:           o.GetTotal(),
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
}

// validatePlaceOrder 下单前置校验，全部在事务开启前完成
func validatePlaceOrder(req *dto.PlaceOrderReq) error {
	if req.CustomerName == "" {
		return newValidationError("customer_name", "不能为空")
	}
	if req.CustomerPhone == "" {
		return newValidationError("customer_phone", "不能为空")
	}
	if req.CustomerAddress == "" {
		return newValidationError("customer_address", "不能为空")
	}
	if len(req.Items) == 0 {
		return newValidationError("items", "至少需要一个行项")
	}
	for i, it := range req.Items {
		if it.ProductID <= 0 {
			return newValidationError(fmt.Sprintf("items[%d].product_id", i), "必须为正整数")
		}
		if it.SizeValue == "" {
			return newValidationError(fmt.Sprintf("items[%d].size_value", i), "不能为空")
		}
		if it.Quantity <= 0 {
			return newValidationError(fmt.Sprintf("items[%d].quantity", i), "必须为正整数")
		}
	}
	return nil
}
