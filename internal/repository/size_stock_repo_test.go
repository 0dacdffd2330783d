package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fashion_store_v1_202608/internal/model"
)

func setupSizeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.Product{}, &model.ProductSize{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *model.Product {
	p := &model.Product{
		Name:         name,
		MainCategory: model.CategoryMen,
		Status:       model.ProductStatusActive,
		PriceAmount:  9900,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("写入测试商品失败: %v", err)
	}
	return p
}

func TestProductSizeRepo_Decrement(t *testing.T) {
	db := setupSizeTestDB(t)
	repo := NewProductSizeRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "圆领卫衣")
	if err := db.Create(&model.ProductSize{ProductID: p.ID, SizeValue: "M", Stock: 5}).Error; err != nil {
		t.Fatalf("写入尺码失败: %v", err)
	}

	if err := repo.Decrement(ctx, p.ID, "M", 3); err != nil {
		t.Fatalf("Decrement() error = %v", err)
	}

	stock, err := repo.GetStock(ctx, p.ID, "M")
	if err != nil {
		t.Fatalf("GetStock() error = %v", err)
	}
	if stock != 2 {
		t.Errorf("扣减后库存 = %d, 期望 2", stock)
	}
}

func TestProductSizeRepo_Decrement_Insufficient(t *testing.T) {
	db := setupSizeTestDB(t)
	repo := NewProductSizeRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "圆领卫衣")
	if err := db.Create(&model.ProductSize{ProductID: p.ID, SizeValue: "M", Stock: 2}).Error; err != nil {
		t.Fatalf("写入尺码失败: %v", err)
	}

	err := repo.Decrement(ctx, p.ID, "M", 3)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Decrement() error = %v, 期望 ErrInsufficientStock", err)
	}

	// 扣减失败不得改动库存
	stock, _ := repo.GetStock(ctx, p.ID, "M")
	if stock != 2 {
		t.Errorf("库存 = %d, 期望保持 2", stock)
	}
}

func TestProductSizeRepo_Decrement_ExactStock(t *testing.T) {
	db := setupSizeTestDB(t)
	repo := NewProductSizeRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "圆领卫衣")
	if err := db.Create(&model.ProductSize{ProductID: p.ID, SizeValue: "L", Stock: 3}).Error; err != nil {
		t.Fatalf("写入尺码失败: %v", err)
	}

	// 刚好扣完允许，降到 0
	if err := repo.Decrement(ctx, p.ID, "L", 3); err != nil {
		t.Fatalf("Decrement() error = %v", err)
	}
	stock, _ := repo.GetStock(ctx, p.ID, "L")
	if stock != 0 {
		t.Errorf("库存 = %d, 期望 0", stock)
	}

	// 0 库存再扣减必须失败
	if err := repo.Decrement(ctx, p.ID, "L", 1); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("零库存扣减 error = %v, 期望 ErrInsufficientStock", err)
	}
}

func TestProductSizeRepo_Decrement_SizeNotFound(t *testing.T) {
	db := setupSizeTestDB(t)
	repo := NewProductSizeRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "圆领卫衣")

	err := repo.Decrement(ctx, p.ID, "XXL", 1)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Decrement() error = %v, 期望 ErrRecordNotFound", err)
	}
}

func TestProductSizeRepo_ReplaceAll(t *testing.T) {
	db := setupSizeTestDB(t)
	repo := NewProductSizeRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "连帽外套")
	old := []model.ProductSize{
		{SizeValue: "S", Stock: 10},
		{SizeValue: "M", Stock: 10},
	}
	if err := repo.ReplaceAll(ctx, p.ID, old); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	// 整体替换，旧集合不保留
	next := []model.ProductSize{
		{SizeValue: "L", Stock: 4},
		{SizeValue: "XL", Stock: 2},
	}
	if err := repo.ReplaceAll(ctx, p.ID, next); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	rows, err := repo.ListByProductID(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListByProductID() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("尺码数量 = %d, 期望 2", len(rows))
	}
	if rows[0].SizeValue != "L" || rows[1].SizeValue != "XL" {
		t.Errorf("尺码集合 = %v, 期望 [L XL]", []string{rows[0].SizeValue, rows[1].SizeValue})
	}
	if _, err := repo.GetStock(ctx, p.ID, "S"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("旧尺码 S 仍然存在")
	}
}

func TestProductSizeRepo_ReplaceAll_SkipAndDedupe(t *testing.T) {
	db := setupSizeTestDB(t)
	repo := NewProductSizeRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "连帽外套")
	rows := []model.ProductSize{
		{SizeValue: "", Stock: 5},   // 空尺码跳过
		{SizeValue: "M", Stock: 3},  // 保留首个
		{SizeValue: "M", Stock: 99}, // 重复尺码丢弃
	}
	if err := repo.ReplaceAll(ctx, p.ID, rows); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	got, err := repo.ListByProductID(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListByProductID() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("尺码数量 = %d, 期望 1", len(got))
	}
	if got[0].SizeValue != "M" || got[0].Stock != 3 {
		t.Errorf("尺码 = %s/%d, 期望 M/3", got[0].SizeValue, got[0].Stock)
	}
}

func TestProductSizeRepo_ListLowStock(t *testing.T) {
	db := setupSizeTestDB(t)
	repo := NewProductSizeRepository(db)
	ctx := context.Background()

	p1 := seedProduct(t, db, "连帽外套")
	p2 := seedProduct(t, db, "束脚长裤")
	seed := []model.ProductSize{
		{ProductID: p1.ID, SizeValue: "S", Stock: 0},
		{ProductID: p1.ID, SizeValue: "M", Stock: 8},
		{ProductID: p2.ID, SizeValue: "L", Stock: 2},
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("写入尺码失败: %v", err)
	}

	rows, err := repo.ListLowStock(ctx, 3)
	if err != nil {
		t.Fatalf("ListLowStock() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("低库存行数 = %d, 期望 2", len(rows))
	}
	// 按库存升序
	if rows[0].Stock != 0 || rows[0].ProductName != "连帽外套" {
		t.Errorf("首行 = %+v, 期望 连帽外套/S/0", rows[0])
	}
	if rows[1].Stock != 2 || rows[1].ProductName != "束脚长裤" {
		t.Errorf("次行 = %+v, 期望 束脚长裤/L/2", rows[1])
	}
}
