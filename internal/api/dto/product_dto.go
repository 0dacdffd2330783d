package dto

import "time"

// ==================== 请求 DTO ====================

// SizeReq 尺码库存行。Stock 用指针区分"缺失"与 0，
// size_value 为空或 stock 缺失的行在落库时被跳过。
type SizeReq struct {
	SizeValue string `json:"size_value"`
	Stock     *int   `json:"stock"`
}

// CreateProductReq 创建商品请求
type CreateProductReq struct {
	Name         string    `json:"name"`
	AltNames     string    `json:"altNames"`
	Description  string    `json:"description"`
	MainCategory string    `json:"main_category"`
	Price        *float64  `json:"price"` // 元，后端转分
	Color        string    `json:"color"`
	Country      string    `json:"country"`
	Images       []string  `json:"images"`
	IsActive     string    `json:"isActive"` // 非法值回落为 active
	Sizes        []SizeReq `json:"sizes"`
}

// UpdateProductReq 部分更新请求。
// 每个字段三态：未提供=不变，null=清空，有值=设置；
// Sizes 一旦提供则整体替换尺码集合，不支持增量合并。
type UpdateProductReq struct {
	Name         Optional[string]   `json:"name"`
	AltNames     Optional[string]   `json:"altNames"`
	Description  Optional[string]   `json:"description"`
	MainCategory Optional[string]   `json:"main_category"`
	Price        Optional[float64]  `json:"price"`
	Color        Optional[string]   `json:"color"`
	Country      Optional[string]   `json:"country"`
	Images       Optional[[]string] `json:"images"`
	IsActive     Optional[string]   `json:"isActive"`
	Sizes        []SizeReq          `json:"sizes"`
}

// HasFieldChanges 是否携带了任何商品字段修改
func (r *UpdateProductReq) HasFieldChanges() bool {
	return r.Name.Set || r.AltNames.Set || r.Description.Set ||
		r.MainCategory.Set || r.Price.Set || r.Color.Set ||
		r.Country.Set || r.Images.Set || r.IsActive.Set
}

// ==================== 响应 DTO ====================

// SizeResp 尺码库存响应
type SizeResp struct {
	SizeValue string `json:"size_value"`
	Stock     int    `json:"stock"`
}

// ProductResp 商品响应（浏览视图，尺码内嵌）
type ProductResp struct {
	ProductID    int64      `json:"product_id"`
	Name         string     `json:"name"`
	AltNames     string     `json:"altNames"`
	Description  string     `json:"description"`
	MainCategory string     `json:"main_category"`
	Price        float64    `json:"price"`
	Color        string     `json:"color"`
	Country      string     `json:"country"`
	Images       []string   `json:"images"`
	IsActive     string     `json:"isActive"`
	CreatedAt    time.Time  `json:"created_at"`
	Sizes        []SizeResp `json:"sizes"`
}

// CreateProductResp 创建商品响应
type CreateProductResp struct {
	ProductID int64 `json:"product_id"`
}
