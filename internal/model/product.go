package model

import (
	"time"

	"github.com/lib/pq"
)

// ==================== 商品常量 ====================

// ProductStatus 商品上下架状态
const (
	ProductStatusActive   = "active"   // 上架
	ProductStatusInactive = "inactive" // 下架
)

// MainCategory 主分类
const (
	CategoryMen   = "men"
	CategoryWomen = "women"
	CategoryChild = "child"
)

// IsValidCategory 校验主分类取值
func IsValidCategory(c string) bool {
	return c == CategoryMen || c == CategoryWomen || c == CategoryChild
}

// IsValidProductStatus 校验上下架状态取值
func IsValidProductStatus(s string) bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// ==================== Product 商品主表 ====================

// Product 商品
type Product struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	// 基本信息
	Name        string `gorm:"size:255;not null"`
	AltNames    string `gorm:"type:text"` // 别名，自由文本
	Description string `gorm:"type:text"`

	// 分类与状态
	MainCategory string `gorm:"size:20;index;not null"` // men, women, child
	Status       string `gorm:"size:20;index;default:active"`

	// 价格（分为单位存储）
	PriceAmount int64 `gorm:"not null"`

	// 属性
	Color   string `gorm:"size:100"`
	Country string `gorm:"size:100"`

	// 图片 URL 列表（Postgres text[]，保持顺序）
	Images pq.StringArray `gorm:"type:text[]"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联
	Sizes []ProductSize `gorm:"foreignKey:ProductID"`
}

func (*Product) TableName() string {
	return "products"
}

// GetPrice 获取价格（元）
func (p *Product) GetPrice() float64 {
	return float64(p.PriceAmount) / 100
}

// IsActive 是否上架
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// ==================== ProductSize 尺码库存表 ====================

// ProductSize 尺码库存行，(product_id, size_value) 是库存扣减的原子单位
type ProductSize struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	ProductID int64  `gorm:"not null;uniqueIndex:uk_product_size"`
	SizeValue string `gorm:"size:50;not null;uniqueIndex:uk_product_size"`
	Stock     int    `gorm:"not null;default:0"` // 始终 >= 0

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*ProductSize) TableName() string {
	return "product_sizes"
}
