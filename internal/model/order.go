package model

import (
	"time"
)

// ==================== 订单状态常量 ====================

// OrderStatus 订单生命周期状态，只能单向推进
const (
	OrderStatusProcessing = "processing" // 已下单（初始态）
	OrderStatusAccepted   = "accepted"   // 已接单
	OrderStatusCompleted  = "completed"  // 已完成（终态）
)

// ==================== Order 订单主表 ====================

// Order 订单。下单时库存已扣减，状态流转不再触碰库存。
type Order struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"index"`

	// 收件人信息
	CustomerName    string `gorm:"size:255;not null"`
	CustomerPhone   string `gorm:"size:50;not null"`
	CustomerAddress string `gorm:"type:text;not null"`

	// 备注（货到付款说明等）
	Description string `gorm:"type:text"`

	// 状态
	Status string `gorm:"size:32;index;default:processing"`

	// 金额（分为单位，= 订单项行金额之和）
	TotalAmount int64

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联
	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (*Order) TableName() string {
	return "orders"
}

// GetTotal 获取订单总额（元）
func (o *Order) GetTotal() float64 {
	return float64(o.TotalAmount) / 100
}

// CanAccept 检查是否可以接单
func (o *Order) CanAccept() bool {
	return o.Status == OrderStatusProcessing
}

// CanComplete 检查是否可以完成
func (o *Order) CanComplete() bool {
	return o.Status == OrderStatusAccepted
}

// ==================== OrderItem 订单项 ====================

// OrderItem 订单项。商品名与单价是下单时的快照，
// 商品后续修改不影响历史订单。
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	OrderID int64 `gorm:"index;not null"`

	// 商品引用（非外键所有权，商品可被独立修改或删除）
	ProductID int64 `gorm:"index"`

	// 下单时快照
	ProductName string `gorm:"size:255"`
	SizeValue   string `gorm:"size:50"`
	PriceAmount int64  // 单价（分）

	Quantity   int   `gorm:"not null"`
	LineAmount int64 // 行金额 = 单价 × 数量（分）

	CreatedAt time.Time
}

func (*OrderItem) TableName() string {
	return "order_items"
}

// GetPrice 获取单价（元）
func (i *OrderItem) GetPrice() float64 {
	return float64(i.PriceAmount) / 100
}

// GetLineTotal 获取行金额（元）
func (i *OrderItem) GetLineTotal() float64 {
	return float64(i.LineAmount) / 100
}
