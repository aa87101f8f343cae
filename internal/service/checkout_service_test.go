package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/model/dto"
	"github.com/alphaowl/premium_go_server/internal/repository"
	"github.com/alphaowl/premium_go_server/internal/testutil"
)

func newCheckoutService(t *testing.T, db *gorm.DB) *CheckoutService {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := newTestConfig()

	sessionRepo := repository.NewCheckoutSessionRepository(client, 30*time.Minute)
	pricing := NewPricingService(cfg)
	chains := NewChainRegistry(cfg)
	payments := NewPaymentService(repository.NewPaymentRepository(db), pricing, chains, nil, nil)

	return NewCheckoutService(sessionRepo, pricing, chains, payments, cfg)
}

func TestCheckoutService_FullWalk(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCheckoutService(t, db)
	ctx := context.Background()

	// 1. 创建会话：首屏带完整价格表和链列表
	start, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStateTierSelect, start.State)
	assert.Len(t, start.Pricing, 2)
	assert.Len(t, start.Chains, 3)
	assert.Equal(t, 1800, start.ExpiresIn)

	// 2. 选套餐：金额由服务端算出
	view, err := svc.SelectPlan(ctx, start.SessionID, &dto.SelectPlanRequest{
		Tier:         model.TierAccess,
		BillingCycle: model.CycleMonthly,
	})
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStateChainSelect, view.State)
	assert.Equal(t, float64(30), view.Amount)

	// 3. 选链：拿到收款地址和二维码
	view, err = svc.SelectChain(ctx, start.SessionID, &dto.SelectChainRequest{Chain: model.ChainBase})
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStatePaymentDisplay, view.State)
	assert.Equal(t, "0xBa5eDepositAddress00000000000000000000001", view.DepositAddress)
	assert.Contains(t, view.QRCode, "data:image/png;base64,")

	// 4. 确认已付款
	view, err = svc.ConfirmPaid(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStateContactConfirm, view.State)

	// 5. 提交：生成 pending 支付记录，会话完成
	view, err = svc.Submit(ctx, start.SessionID, &dto.CheckoutSubmitRequest{
		Email:         "wizard@example.com",
		WalletAddress: "0xabc",
		TxHash:        "0xfeed",
	})
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStateCompleted, view.State)
	assert.NotZero(t, view.PaymentID)

	payment, err := repository.NewPaymentRepository(db).GetByID(view.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	assert.Equal(t, "wizard@example.com", payment.UserEmail)
	assert.Equal(t, float64(30), payment.Amount)
	assert.Equal(t, model.ChainBase, payment.Chain)
}

func TestCheckoutService_ChangeChain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCheckoutService(t, db)
	ctx := context.Background()

	start, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.SelectPlan(ctx, start.SessionID, &dto.SelectPlanRequest{
		Tier:         model.TierPro,
		BillingCycle: model.CycleYearly,
	})
	require.NoError(t, err)

	_, err = svc.SelectChain(ctx, start.SessionID, &dto.SelectChainRequest{Chain: model.ChainSolanaSPL})
	require.NoError(t, err)

	// 换链：回到选链步骤，套餐和金额保留，链信息清空
	view, err := svc.ChangeChain(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStateChainSelect, view.State)
	assert.Equal(t, model.TierPro, view.Tier)
	assert.Equal(t, float64(840), view.Amount)
	assert.Empty(t, view.Chain)
	assert.Empty(t, view.DepositAddress)
	assert.Empty(t, view.QRCode)

	view, err = svc.SelectChain(ctx, start.SessionID, &dto.SelectChainRequest{Chain: model.ChainArbitrum})
	require.NoError(t, err)
	assert.Equal(t, model.ChainArbitrum, view.Chain)
}

func TestCheckoutService_IllegalTransitions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCheckoutService(t, db)
	ctx := context.Background()

	start, err := svc.Start(ctx)
	require.NoError(t, err)

	// 还没选套餐就选链
	_, err = svc.SelectChain(ctx, start.SessionID, &dto.SelectChainRequest{Chain: model.ChainBase})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// 还没选链就确认付款
	_, err = svc.ConfirmPaid(ctx, start.SessionID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// 还没确认付款就提交
	_, err = svc.Submit(ctx, start.SessionID, &dto.CheckoutSubmitRequest{
		Email:         "early@example.com",
		WalletAddress: "0xabc",
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.SelectPlan(ctx, start.SessionID, &dto.SelectPlanRequest{
		Tier:         model.TierAccess,
		BillingCycle: model.CycleMonthly,
	})
	require.NoError(t, err)

	// 已进入选链步骤，不能再改套餐
	_, err = svc.SelectPlan(ctx, start.SessionID, &dto.SelectPlanRequest{
		Tier:         model.TierPro,
		BillingCycle: model.CycleMonthly,
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckoutService_SubmitFailureKeepsSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCheckoutService(t, db)
	ctx := context.Background()

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.SelectPlan(ctx, start.SessionID, &dto.SelectPlanRequest{
		Tier:         model.TierAccess,
		BillingCycle: model.CycleMonthly,
	})
	require.NoError(t, err)
	_, err = svc.SelectChain(ctx, start.SessionID, &dto.SelectChainRequest{Chain: model.ChainBase})
	require.NoError(t, err)
	_, err = svc.ConfirmPaid(ctx, start.SessionID)
	require.NoError(t, err)

	// 邮箱不合法，提交失败
	_, err = svc.Submit(ctx, start.SessionID, &dto.CheckoutSubmitRequest{
		Email:         "not-an-email",
		WalletAddress: "0xabc",
		TxHash:        "0xfeed",
	})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	// 会话停在 contact_confirm，已填内容保留，可以直接重试
	view, err := svc.Get(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStateContactConfirm, view.State)
	assert.Equal(t, "not-an-email", view.Email)
	assert.Equal(t, "0xfeed", view.TxHash)

	// 账本里没有任何记录
	_, total, err := repository.NewPaymentRepository(db).ListByStatus("all")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCheckoutService_Abandon(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCheckoutService(t, db)
	ctx := context.Background()

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.SelectPlan(ctx, start.SessionID, &dto.SelectPlanRequest{
		Tier:         model.TierAccess,
		BillingCycle: model.CycleMonthly,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Abandon(ctx, start.SessionID))

	_, err = svc.Get(ctx, start.SessionID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	// 中途放弃不留任何痕迹
	_, total, err := repository.NewPaymentRepository(db).ListByStatus("all")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCheckoutService_UnknownChain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCheckoutService(t, db)
	ctx := context.Background()

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.SelectPlan(ctx, start.SessionID, &dto.SelectPlanRequest{
		Tier:         model.TierAccess,
		BillingCycle: model.CycleMonthly,
	})
	require.NoError(t, err)

	_, err = svc.SelectChain(ctx, start.SessionID, &dto.SelectChainRequest{Chain: "dogecoin"})
	assert.ErrorIs(t, err, ErrInvalidChain)

	// 失败不改变状态，换个合法的链继续走
	view, err := svc.Get(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStateChainSelect, view.State)
}
