package dto

// SubmitPaymentRequest 直接提交支付申报（不经过向导会话的原始接口）。
// amount 仅作为展示值回传校验，服务端始终按定价表重新核价。
type SubmitPaymentRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	WalletAddress string  `json:"wallet_address" binding:"required"`
	Chain         string  `json:"chain" binding:"required"`
	TxHash        string  `json:"tx_hash,omitempty"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Tier          string  `json:"tier" binding:"required"`
	BillingCycle  string  `json:"billing_cycle" binding:"required"`
}

// SubmitPaymentResponse 提交结果
type SubmitPaymentResponse struct {
	PaymentID int64  `json:"payment_id"`
	Status    string `json:"status"`
}

// PremiumStatusResponse 会员状态查询结果
type PremiumStatusResponse struct {
	Email        string `json:"email"`
	IsPremium    bool   `json:"is_premium"`
	PremiumUntil string `json:"premium_until,omitempty"`
}

// UploadProofResponse 转账凭证上传结果
type UploadProofResponse struct {
	PaymentID int64  `json:"payment_id"`
	ProofURL  string `json:"proof_url"`
}
