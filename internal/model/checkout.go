package model

import (
	"time"
)

// 支付向导状态机。状态只存在 Redis 会话里，关闭/超时即消失，
// 在 submit 成功之前不会向账本写入任何数据。
const (
	CheckoutStateTierSelect     = "tier_select"
	CheckoutStateChainSelect    = "chain_select"
	CheckoutStatePaymentDisplay = "payment_display"
	CheckoutStateContactConfirm = "contact_confirm"
	CheckoutStateCompleted      = "completed"
)

// CheckoutSession 支付向导会话（非 gorm 模型，JSON 序列化后存 Redis）
type CheckoutSession struct {
	ID             string    `json:"id"`
	State          string    `json:"state"`
	Tier           string    `json:"tier,omitempty"`
	BillingCycle   string    `json:"billing_cycle,omitempty"`
	Amount         float64   `json:"amount,omitempty"`
	Chain          string    `json:"chain,omitempty"`
	DepositAddress string    `json:"deposit_address,omitempty"`
	QRCode         string    `json:"qr_code,omitempty"` // data URI；二维码生成失败时为空，前端退化为纯文本地址
	Email          string    `json:"email,omitempty"`
	TxHash         string    `json:"tx_hash,omitempty"`
	PaymentID      int64     `json:"payment_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
