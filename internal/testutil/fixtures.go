package testutil

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/internal/model"
)

// TestPayment 创建测试支付记录
func TestPayment(t *testing.T, db *gorm.DB, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		UserEmail:      fmt.Sprintf("test_%d@example.com", time.Now().UnixNano()),
		WalletAddress:  "0x1111111111111111111111111111111111111111",
		Chain:          model.ChainBase,
		DepositAddress: "0x2222222222222222222222222222222222222222",
		Amount:         30,
		Tier:           model.TierAccess,
		BillingCycle:   model.CycleMonthly,
		Status:         model.PaymentStatusPending,
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// WithEmail 设置申报邮箱
func WithEmail(email string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.UserEmail = email
	}
}

// WithStatus 设置支付状态
func WithStatus(status string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Status = status
	}
}

// WithTier 设置套餐与计费周期（金额按定价表同步调整）
func WithTier(tier, cycle string, amount float64) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Tier = tier
		p.BillingCycle = cycle
		p.Amount = amount
	}
}

// WithChain 设置支付链
func WithChain(chain string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Chain = chain
	}
}

// WithTxHash 设置交易哈希
func WithTxHash(txHash string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.TxHash = txHash
	}
}

// WithCreatedAt 设置创建时间（积压巡检测试用）
func WithCreatedAt(at time.Time) func(*model.Payment) {
	return func(p *model.Payment) {
		p.CreatedAt = at
	}
}

// TestPremiumUser 创建测试会员记录
func TestPremiumUser(t *testing.T, db *gorm.DB, email string, opts ...func(*model.PremiumUser)) *model.PremiumUser {
	t.Helper()

	user := &model.PremiumUser{
		Email:            email,
		WalletAddress:    "0x1111111111111111111111111111111111111111",
		IsPremium:        true,
		LastPaymentChain: model.ChainBase,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test premium user: %v", err)
	}

	return user
}

// WithPremiumUntil 设置会员到期时间
func WithPremiumUntil(until time.Time) func(*model.PremiumUser) {
	return func(u *model.PremiumUser) {
		u.PremiumUntil = &until
	}
}

// WithIsPremium 设置会员标记
func WithIsPremium(isPremium bool) func(*model.PremiumUser) {
	return func(u *model.PremiumUser) {
		u.IsPremium = isPremium
	}
}

// TestAdmin 创建测试运营账号（密码走真实 bcrypt，登录测试可用）
func TestAdmin(t *testing.T, db *gorm.DB, username, password string) *model.AdminUser {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	admin := &model.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
	}

	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	return admin
}
