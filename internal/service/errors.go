package service

import (
	"errors"
	"fmt"
)

// ==================== 错误分类 ====================

// 哨兵错误
var (
	ErrProductNotFound  = errors.New("商品不存在")
	ErrSizeNotFound     = errors.New("尺码不存在")
	ErrOrderNotFound    = errors.New("订单不存在")
	ErrEmailTaken       = errors.New("邮箱已被注册")
	ErrInvalidLogin     = errors.New("邮箱或密码错误")
	ErrNoFieldsToUpdate = errors.New("没有提供任何需要更新的字段")
)

// ValidationError 入参校验失败，带字段定位，方便调用方修正请求
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// StockError 库存不足，指明出问题的行项
type StockError struct {
	ProductID int64
	SizeValue string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("商品 %d 尺码 %s 库存不足：需要 %d，剩余 %d",
		e.ProductID, e.SizeValue, e.Requested, e.Available)
}

// TransitionError 订单状态机不允许的转移
type TransitionError struct {
	OrderID int64
	From    string
	To      string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("订单 %d 状态为 %s，不能转移到 %s", e.OrderID, e.From, e.To)
}
