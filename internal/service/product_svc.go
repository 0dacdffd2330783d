package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fashion_store_v1_202608/internal/api/dto"
	"fashion_store_v1_202608/internal/model"
	"fashion_store_v1_202608/internal/repository"
)

// ==================== ProductService ====================

// ProductService 商品服务：商品 + 尺码集合的增删改查，
// 所有多行写入走工作单元事务。
type ProductService struct {
	uow    *repository.StoreUnitOfWork
	logger *zap.Logger
}

// NewProductService 创建商品服务
func NewProductService(uow *repository.StoreUnitOfWork, logger *zap.Logger) *ProductService {
	return &ProductService{uow: uow, logger: logger}
}

// ==================== 创建 ====================

// Create 创建商品及其尺码集合，单事务写入
func (s *ProductService) Create(ctx context.Context, req *dto.CreateProductReq) (int64, error) {
	if req.Name == "" {
		return 0, newValidationError("name", "不能为空")
	}
	if !model.IsValidCategory(req.MainCategory) {
		return 0, newValidationError("main_category", "只允许 men, women, child")
	}
	if req.Price == nil {
		return 0, newValidationError("price", "不能为空")
	}
	if *req.Price <= 0 {
		return 0, newValidationError("price", "必须为正数")
	}
	if len(req.Sizes) == 0 {
		return 0, newValidationError("sizes", "至少需要一个尺码")
	}
	sizeRows, err := buildSizeRows(req.Sizes)
	if err != nil {
		return 0, err
	}

	// 状态缺失或非法时回落为 active
	status := req.IsActive
	if !model.IsValidProductStatus(status) {
		status = model.ProductStatusActive
	}

	product := &model.Product{
		Name:         req.Name,
		AltNames:     req.AltNames,
		Description:  req.Description,
		MainCategory: req.MainCategory,
		PriceAmount:  toCents(*req.Price),
		Color:        req.Color,
		Country:      req.Country,
		Images:       pq.StringArray(req.Images),
		Status:       status,
	}

	err = s.uow.Transaction(ctx, func(tx *repository.StoreUnitOfWork) error {
		if err := tx.Products.Create(ctx, product); err != nil {
			return fmt.Errorf("写入商品失败: %w", err)
		}
		if err := tx.Sizes.ReplaceAll(ctx, product.ID, sizeRows); err != nil {
			return fmt.Errorf("写入尺码失败: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("创建商品失败", zap.String("name", req.Name), zap.Error(err))
		return 0, err
	}

	s.logger.Info("商品已创建", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	return product.ID, nil
}

// ==================== 查询 ====================

// ListActive 上架商品列表（浏览视图）
func (s *ProductService) ListActive(ctx context.Context) ([]dto.ProductResp, error) {
	products, err := s.uow.Products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询商品列表失败: %w", err)
	}

	list := make([]dto.ProductResp, 0, len(products))
	for i := range products {
		list = append(list, ToProductResp(&products[i]))
	}
	return list, nil
}

// GetByID 商品详情（含尺码）
func (s *ProductService) GetByID(ctx context.Context, id int64) (*dto.ProductResp, error) {
	product, err := s.uow.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("查询商品失败: %w", err)
	}
	resp := ToProductResp(product)
	return &resp, nil
}

// ==================== 更新 ====================

// Update 部分更新：只改提供的字段，未提供的保持不变，显式 null 清空。
// Sizes 一旦提供则整体替换。商品字段与尺码替换在同一事务中落库。
func (s *ProductService) Update(ctx context.Context, id int64, req *dto.UpdateProductReq) error {
	if !req.HasFieldChanges() && req.Sizes == nil {
		return ErrNoFieldsToUpdate
	}

	fields, err := buildUpdateFields(req)
	if err != nil {
		return err
	}

	var sizeRows []model.ProductSize
	if req.Sizes != nil {
		sizeRows, err = buildSizeRows(req.Sizes)
		if err != nil {
			return err
		}
	}

	err = s.uow.Transaction(ctx, func(tx *repository.StoreUnitOfWork) error {
		exists, err := tx.Products.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("查询商品失败: %w", err)
		}
		if !exists {
			return ErrProductNotFound
		}

		if len(fields) > 0 {
			if err := tx.Products.UpdateFields(ctx, id, fields); err != nil {
				return fmt.Errorf("更新商品字段失败: %w", err)
			}
		}
		if req.Sizes != nil {
			if err := tx.Sizes.ReplaceAll(ctx, id, sizeRows); err != nil {
				return fmt.Errorf("替换尺码集合失败: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			s.logger.Error("更新商品失败", zap.Int64("product_id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("商品已更新", zap.Int64("product_id", id))
	return nil
}

// ==================== 删除 ====================

// Delete 删除商品及其全部尺码行（组合关系，级联删除），单事务
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := s.uow.Transaction(ctx, func(tx *repository.StoreUnitOfWork) error {
		exists, err := tx.Products.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("查询商品失败: %w", err)
		}
		if !exists {
			return ErrProductNotFound
		}

		if err := tx.Sizes.DeleteByProductID(ctx, id); err != nil {
			return fmt.Errorf("删除尺码失败: %w", err)
		}

		rows, err := tx.Products.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("删除商品失败: %w", err)
		}
		// 与存在性检查之间被并发删除，按不存在处理并回滚尺码删除
		if rows == 0 {
			return ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			s.logger.Error("删除商品失败", zap.Int64("product_id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("商品已删除", zap.Int64("product_id", id))
	return nil
}

// ==================== 转换与辅助 ====================

// ToProductResp 模型转浏览视图
func ToProductResp(p *model.Product) dto.ProductResp {
	sizes := make([]dto.SizeResp, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		sizes = append(sizes, dto.SizeResp{SizeValue: s.SizeValue, Stock: s.Stock})
	}
	return dto.ProductResp{
		ProductID:    p.ID,
		Name:         p.Name,
		AltNames:     p.AltNames,
		Description:  p.Description,
		MainCategory: p.MainCategory,
		Price:        p.GetPrice(),
		Color:        p.Color,
		Country:      p.Country,
		Images:       []string(p.Images),
		IsActive:     p.Status,
		CreatedAt:    p.CreatedAt,
		Sizes:        sizes,
	}
}

// buildSizeRows 过滤尺码入参：size_value 为空或 stock 缺失的行跳过，
// 负库存直接报错（承诺 stock >= 0 的硬不变量）。
func buildSizeRows(sizes []dto.SizeReq) ([]model.ProductSize, error) {
	rows := make([]model.ProductSize, 0, len(sizes))
	for _, s := range sizes {
		if s.SizeValue == "" || s.Stock == nil {
			continue
		}
		if *s.Stock < 0 {
			return nil, newValidationError("sizes", fmt.Sprintf("尺码 %s 库存不能为负", s.SizeValue))
		}
		rows = append(rows, model.ProductSize{SizeValue: s.SizeValue, Stock: *s.Stock})
	}
	return rows, nil
}

// buildUpdateFields 把三态更新请求转成参数化的字段集合
func buildUpdateFields(req *dto.UpdateProductReq) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if req.Name.Set {
		if !req.Name.Valid || req.Name.Value == "" {
			return nil, newValidationError("name", "不能为空")
		}
		fields["name"] = req.Name.Value
	}
	if req.AltNames.Set {
		fields["alt_names"] = nullableString(req.AltNames)
	}
	if req.Description.Set {
		fields["description"] = nullableString(req.Description)
	}
	if req.MainCategory.Set {
		if !req.MainCategory.Valid || !model.IsValidCategory(req.MainCategory.Value) {
			return nil, newValidationError("main_category", "只允许 men, women, child")
		}
		fields["main_category"] = req.MainCategory.Value
	}
	if req.Price.Set {
		if !req.Price.Valid || req.Price.Value <= 0 {
			return nil, newValidationError("price", "必须为正数")
		}
		fields["price_amount"] = toCents(req.Price.Value)
	}
	if req.Color.Set {
		fields["color"] = nullableString(req.Color)
	}
	if req.Country.Set {
		fields["country"] = nullableString(req.Country)
	}
	if req.Images.Set {
		if req.Images.Valid {
			fields["images"] = pq.StringArray(req.Images.Value)
		} else {
			fields["images"] = nil
		}
	}
	if req.IsActive.Set {
		// 创建时非法状态回落为 active，更新时按原语义拒绝
		if !req.IsActive.Valid || !model.IsValidProductStatus(req.IsActive.Value) {
			return nil, newValidationError("isActive", "只允许 active, inactive")
		}
		fields["status"] = req.IsActive.Value
	}

	return fields, nil
}

func nullableString(o dto.Optional[string]) interface{} {
	if !o.Valid {
		return nil
	}
	return o.Value
}

// toCents 元转分
func toCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
