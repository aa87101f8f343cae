package model

import (
	"time"
)

// PremiumUser 会员权益记录，以邮箱为键。
// 只会在支付核验通过时创建或续期，提交支付本身不产生任何权益。
type PremiumUser struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	Email            string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	WalletAddress    string     `gorm:"size:128" json:"wallet_address"`
	IsPremium        bool       `gorm:"default:false;index" json:"is_premium"`
	PremiumUntil     *time.Time `json:"premium_until,omitempty"`
	LastPaymentChain string     `gorm:"size:20" json:"last_payment_chain,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (PremiumUser) TableName() string {
	return "premium_users"
}

// Active 当前是否处于有效会员期
func (u *PremiumUser) Active(now time.Time) bool {
	return u.IsPremium && u.PremiumUntil != nil && u.PremiumUntil.After(now)
}
