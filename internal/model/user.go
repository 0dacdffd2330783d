package model

import (
	"time"
)

// ==================== 用户角色常量 ====================

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// ==================== User 用户表 ====================

// User 用户，只承担登录与角色判断
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:255;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:32;default:customer"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*User) TableName() string {
	return "users"
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
