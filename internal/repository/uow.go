package repository

import (
	"context"

	"gorm.io/gorm"
)

// ==================== StoreUnitOfWork 工作单元 ====================

// StoreUnitOfWork 把商品、尺码库存、订单仓储捆绑在同一个连接上。
// Transaction 内的回调拿到的是绑定事务连接的新实例，
// 回调返回错误（或 panic）时整体回滚，否则提交，连接释放由 GORM 保证。
type StoreUnitOfWork struct {
	db *gorm.DB

	Products ProductRepository
	Sizes    ProductSizeRepository
	Orders   OrderRepository
}

// NewStoreUnitOfWork 创建工作单元
func NewStoreUnitOfWork(db *gorm.DB) *StoreUnitOfWork {
	return &StoreUnitOfWork{
		db:       db,
		Products: NewProductRepository(db),
		Sizes:    NewProductSizeRepository(db),
		Orders:   NewOrderRepository(db),
	}
}

// Transaction 在一个事务中执行 fn，所有仓储操作走同一事务连接
func (u *StoreUnitOfWork) Transaction(ctx context.Context, fn func(tx *StoreUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUow := &StoreUnitOfWork{
			db:       tx,
			Products: u.Products.WithTx(tx),
			Sizes:    u.Sizes.WithTx(tx),
			Orders:   u.Orders.WithTx(tx),
		}
		return fn(txUow)
	})
}
