package dto

import "time"

// ==================== 请求 DTO ====================

// OrderItemReq 下单行项
type OrderItemReq struct {
	ProductID int64  `json:"product_id"`
	SizeValue string `json:"size_value"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderReq 下单请求（货到付款）
type PlaceOrderReq struct {
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	CustomerAddress string         `json:"customer_address"`
	Description     string         `json:"description"`
	Items           []OrderItemReq `json:"items"`
}

// ==================== 响应 DTO ====================

// PlaceOrderResp 下单响应
type PlaceOrderResp struct {
	OrderID int64   `json:"order_id"`
	Total   float64 `json:"total"`
}

// OrderItemResp 订单项响应
type OrderItemResp struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	SizeValue   string  `json:"size_value"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// OrderResp 订单响应
type OrderResp struct {
	OrderID         int64           `json:"order_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Description     string          `json:"description"`
	Status          string          `json:"status"`
	Total           float64         `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItemResp `json:"items"`
}
