package model

import (
	"time"
)

// AdminUser 后台运营账号，负责人工对账
type AdminUser struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
