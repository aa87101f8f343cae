package dto

// AdminLoginRequest 管理员登录请求
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse 管理员登录响应
type AdminLoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// VerifyPaymentResponse 核验结果：翻转后的支付记录与激活的权益
type VerifyPaymentResponse struct {
	PaymentID    int64  `json:"payment_id"`
	Status       string `json:"status"`
	Email        string `json:"email"`
	PremiumUntil string `json:"premium_until"`
}

// RejectPaymentResponse 驳回结果
type RejectPaymentResponse struct {
	PaymentID int64  `json:"payment_id"`
	Status    string `json:"status"`
}
