package model

import (
	"time"
)

// 套餐与计费周期枚举
const (
	TierAccess = "access"
	TierPro    = "pro"

	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// 支持的链
const (
	ChainSolanaSPL = "solana-spl"
	ChainBase      = "base"
	ChainArbitrum  = "arbitrum"
)

// 支付记录状态：pending 为初始态，verified/rejected 为终态，不可逆转
const (
	PaymentStatusPending  = "pending"
	PaymentStatusVerified = "verified"
	PaymentStatusRejected = "rejected"
)

type Payment struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	UserEmail      string     `gorm:"size:100;not null;index" json:"user_email"`
	WalletAddress  string     `gorm:"size:128;not null" json:"wallet_address"`
	Chain          string     `gorm:"size:20;not null" json:"chain"`
	DepositAddress string     `gorm:"size:128;not null" json:"deposit_address"` // 提交时从地址表冗余，便于审计
	Amount         float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Tier           string     `gorm:"size:20;not null" json:"tier"`
	BillingCycle   string     `gorm:"size:20;not null" json:"billing_cycle"`
	TxHash         string     `gorm:"size:128" json:"tx_hash,omitempty"` // 用户自报，未经校验
	ProofURL       string     `gorm:"size:500" json:"proof_url,omitempty"`
	Status         string     `gorm:"size:20;default:pending;index" json:"status"`
	ReviewedBy     *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsValidTier 校验套餐取值
func IsValidTier(tier string) bool {
	return tier == TierAccess || tier == TierPro
}

// IsValidCycle 校验计费周期取值
func IsValidCycle(cycle string) bool {
	return cycle == CycleMonthly || cycle == CycleYearly
}

// IsValidChain 校验链取值
func IsValidChain(chain string) bool {
	return chain == ChainSolanaSPL || chain == ChainBase || chain == ChainArbitrum
}
