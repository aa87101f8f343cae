package dto

// TierPrice 单个套餐的展示价格（月付/年付同时给出，便于前端切换周期时即时刷新）
type TierPrice struct {
	Tier         string  `json:"tier"`
	DisplayName  string  `json:"display_name"`
	MonthlyPrice float64 `json:"monthly_price"`
	YearlyPrice  float64 `json:"yearly_price"`
}

// ChainInfo 可选链信息
type ChainInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Token       string `json:"token,omitempty"`
}

// StartCheckoutResponse 创建向导会话响应
type StartCheckoutResponse struct {
	SessionID string      `json:"session_id"`
	State     string      `json:"state"`
	ExpiresIn int         `json:"expires_in"` // 秒
	Pricing   []TierPrice `json:"pricing"`
	Chains    []ChainInfo `json:"chains"`
}

// SelectPlanRequest 选择套餐与计费周期
type SelectPlanRequest struct {
	Tier         string `json:"tier" binding:"required"`
	BillingCycle string `json:"billing_cycle" binding:"required"`
}

// SelectChainRequest 选择支付链
type SelectChainRequest struct {
	Chain string `json:"chain" binding:"required"`
}

// CheckoutSubmitRequest 确认联系方式并提交支付申报
type CheckoutSubmitRequest struct {
	Email         string `json:"email" binding:"required,email"`
	WalletAddress string `json:"wallet_address" binding:"required"`
	TxHash        string `json:"tx_hash,omitempty"`
}

// CheckoutSessionView 会话当前状态（返回给前端）
type CheckoutSessionView struct {
	SessionID      string  `json:"session_id"`
	State          string  `json:"state"`
	Tier           string  `json:"tier,omitempty"`
	BillingCycle   string  `json:"billing_cycle,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
	Chain          string  `json:"chain,omitempty"`
	DepositAddress string  `json:"deposit_address,omitempty"`
	QRCode         string  `json:"qr_code,omitempty"`
	Email          string  `json:"email,omitempty"`
	TxHash         string  `json:"tx_hash,omitempty"`
	PaymentID      int64   `json:"payment_id,omitempty"`
}
