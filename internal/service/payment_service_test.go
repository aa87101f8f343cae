package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/config"
	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/model/dto"
	"github.com/alphaowl/premium_go_server/internal/repository"
	"github.com/alphaowl/premium_go_server/internal/testutil"
)

func newTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpireHours: 24,
		},
		Chains: []config.ChainConfig{
			{Name: model.ChainSolanaSPL, DisplayName: "Solana (SPL)", DepositAddress: "So1anaDepositAddr11111111111111111111111111", Token: "USDC"},
			{Name: model.ChainBase, DisplayName: "Base", DepositAddress: "0xBa5eDepositAddress00000000000000000000001", Token: "USDC"},
			{Name: model.ChainArbitrum, DisplayName: "Arbitrum", DepositAddress: "0xA4b1DepositAddress00000000000000000000001", Token: "USDC"},
		},
		Checkout: config.CheckoutConfig{
			SessionTTLMinutes: 30,
			QRSize:            128,
		},
	}
}

func newPaymentService(db *gorm.DB) *PaymentService {
	cfg := newTestConfig()
	return NewPaymentService(
		repository.NewPaymentRepository(db),
		NewPricingService(cfg),
		NewChainRegistry(cfg),
		nil, // 不广播
		nil, // 凭证上传关闭
	)
}

func TestPaymentService_Submit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPaymentService(db)

	payment, err := svc.Submit(&dto.SubmitPaymentRequest{
		Email:         "Buyer@Example.com",
		WalletAddress: "0x1234",
		Chain:         model.ChainBase,
		TxHash:        "0xdeadbeef",
		Amount:        30,
		Tier:          model.TierAccess,
		BillingCycle:  model.CycleMonthly,
	})
	require.NoError(t, err)

	assert.NotZero(t, payment.ID)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Equal(t, "buyer@example.com", payment.UserEmail)
	assert.Equal(t, float64(30), payment.Amount)
	// 收款地址从链地址表冗余进记录，留作审计
	assert.Equal(t, "0xBa5eDepositAddress00000000000000000000001", payment.DepositAddress)
	assert.Nil(t, payment.ReviewedBy)
}

func TestPaymentService_Submit_PriceMismatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPaymentService(db)

	_, err := svc.Submit(&dto.SubmitPaymentRequest{
		Email:         "buyer@example.com",
		WalletAddress: "0x1234",
		Chain:         model.ChainBase,
		Amount:        25, // 过期价格
		Tier:          model.TierAccess,
		BillingCycle:  model.CycleMonthly,
	})
	assert.ErrorIs(t, err, ErrPriceMismatch)
}

func TestPaymentService_Submit_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPaymentService(db)

	base := dto.SubmitPaymentRequest{
		Email:         "buyer@example.com",
		WalletAddress: "0x1234",
		Chain:         model.ChainBase,
		Amount:        30,
		Tier:          model.TierAccess,
		BillingCycle:  model.CycleMonthly,
	}

	tests := []struct {
		name     string
		mutate   func(*dto.SubmitPaymentRequest)
		expected error
	}{
		{"bad email", func(r *dto.SubmitPaymentRequest) { r.Email = "not-an-email" }, ErrInvalidEmail},
		{"missing wallet", func(r *dto.SubmitPaymentRequest) { r.WalletAddress = "" }, ErrMissingWallet},
		{"unknown tier", func(r *dto.SubmitPaymentRequest) { r.Tier = "platinum" }, ErrInvalidTier},
		{"unknown cycle", func(r *dto.SubmitPaymentRequest) { r.BillingCycle = "weekly" }, ErrInvalidCycle},
		{"unknown chain", func(r *dto.SubmitPaymentRequest) { r.Chain = "dogecoin" }, ErrInvalidChain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := svc.Submit(&req)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestPaymentService_Submit_YearlyPro(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPaymentService(db)

	payment, err := svc.Submit(&dto.SubmitPaymentRequest{
		Email:         "pro@example.com",
		WalletAddress: "0x1234",
		Chain:         model.ChainArbitrum,
		Amount:        840,
		Tier:          model.TierPro,
		BillingCycle:  model.CycleYearly,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(840), payment.Amount)
	assert.Equal(t, model.CycleYearly, payment.BillingCycle)
}

func TestPaymentService_ListByStatus_InvalidFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPaymentService(db)

	_, _, err := svc.ListByStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPaymentService_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPaymentService(db)

	_, err := svc.GetByID(99999)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestPaymentService_AttachProof_StorageOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newPaymentService(db)
	payment := testutil.TestPayment(t, db)

	_, err := svc.AttachProof(payment.ID, []byte("png-bytes"), ".png")
	assert.ErrorIs(t, err, ErrProofStorageOff)
}
