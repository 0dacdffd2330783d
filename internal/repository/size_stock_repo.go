package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"fashion_store_v1_202608/internal/model"
)

// ErrInsufficientStock 库存不足，条件扣减未命中任何行
var ErrInsufficientStock = errors.New("库存不足")

// ==================== 接口定义 ====================

// ProductSizeRepository 尺码库存仓储。库存扣减的唯一入口，
// 扣减必须与订单写入处于同一事务中。
type ProductSizeRepository interface {
	GetStock(ctx context.Context, productID int64, sizeValue string) (int, error)
	Decrement(ctx context.Context, productID int64, sizeValue string, quantity int) error
	ReplaceAll(ctx context.Context, productID int64, sizes []model.ProductSize) error
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductSize, error)
	DeleteByProductID(ctx context.Context, productID int64) error
	ListLowStock(ctx context.Context, threshold int) ([]LowStockRow, error)

	// 事务
	WithTx(tx *gorm.DB) ProductSizeRepository
}

// LowStockRow 低库存告警行
type LowStockRow struct {
	ProductID   int64
	ProductName string
	SizeValue   string
	Stock       int
}

// ==================== 仓储实现 ====================

type productSizeRepo struct {
	db *gorm.DB
}

// NewProductSizeRepository 创建尺码库存仓储
func NewProductSizeRepository(db *gorm.DB) ProductSizeRepository {
	return &productSizeRepo{db: db}
}

func (r *productSizeRepo) GetStock(ctx context.Context, productID int64, sizeValue string) (int, error) {
	var row model.ProductSize
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND size_value = ?", productID, sizeValue).
		First(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Stock, nil
}

// Decrement 条件扣减：单条 UPDATE 带 stock >= quantity 守卫，
// 并发下抢最后一件库存时只有一个事务能命中。
// 行不存在返回 gorm.ErrRecordNotFound，库存不足返回 ErrInsufficientStock。
func (r *productSizeRepo) Decrement(ctx context.Context, productID int64, sizeValue string, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductSize{}).
		Where("product_id = ? AND size_value = ? AND stock >= ?", productID, sizeValue, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// 未命中：区分行不存在与库存不足
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.ProductSize{}).
		Where("product_id = ? AND size_value = ?", productID, sizeValue).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrInsufficientStock
}

// ReplaceAll 整体替换商品的尺码集合：先删后插，不做增量合并。
// size_value 为空或 stock 缺失的行静默跳过，重复尺码保留首个。
func (r *productSizeRepo) ReplaceAll(ctx context.Context, productID int64, sizes []model.ProductSize) error {
	if err := r.DeleteByProductID(ctx, productID); err != nil {
		return err
	}

	rows := make([]model.ProductSize, 0, len(sizes))
	seen := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		if s.SizeValue == "" || seen[s.SizeValue] {
			continue
		}
		seen[s.SizeValue] = true
		rows = append(rows, model.ProductSize{
			ProductID: productID,
			SizeValue: s.SizeValue,
			Stock:     s.Stock,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *productSizeRepo) ListByProductID(ctx context.Context, productID int64) ([]model.ProductSize, error) {
	var rows []model.ProductSize
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("size_value ASC").
		Find(&rows).Error
	return rows, err
}

func (r *productSizeRepo) DeleteByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.ProductSize{}).Error
}

func (r *productSizeRepo) ListLowStock(ctx context.Context, threshold int) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).
		Model(&model.ProductSize{}).
		Select("product_sizes.product_id, products.name AS product_name, product_sizes.size_value, product_sizes.stock").
		Joins("JOIN products ON products.id = product_sizes.product_id").
		Where("product_sizes.stock <= ?", threshold).
		Order("product_sizes.stock ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *productSizeRepo) WithTx(tx *gorm.DB) ProductSizeRepository {
	return &productSizeRepo{db: tx}
}
