package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/alphaowl/premium_go_server/config"
	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/model/dto"
	"github.com/alphaowl/premium_go_server/internal/pkg/qr"
	"github.com/alphaowl/premium_go_server/internal/repository"
)

var ErrInvalidTransition = errors.New("action not allowed in current checkout state")

// CheckoutService 支付向导状态机：
//
//	tier_select -> chain_select -> payment_display -> contact_confirm -> completed
//
// payment_display 可以退回 chain_select 换链（保留已选套餐）。
// 状态只存在 Redis 会话里，submit 成功之前账本不会有任何记录，
// 关闭向导或会话超时等同于放弃，没有副作用。
type CheckoutService struct {
	sessions *repository.CheckoutSessionRepository
	pricing  *PricingService
	chains   *ChainRegistry
	payments *PaymentService
	cfg      *config.Config
}

func NewCheckoutService(
	sessions *repository.CheckoutSessionRepository,
	pricing *PricingService,
	chains *ChainRegistry,
	payments *PaymentService,
	cfg *config.Config,
) *CheckoutService {
	return &CheckoutService{
		sessions: sessions,
		pricing:  pricing,
		chains:   chains,
		payments: payments,
		cfg:      cfg,
	}
}

// Start 创建新的向导会话，返回会话 ID 和完整价格表
func (s *CheckoutService) Start(ctx context.Context) (*dto.StartCheckoutResponse, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &model.CheckoutSession{
		ID:        id,
		State:     model.CheckoutStateTierSelect,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &dto.StartCheckoutResponse{
		SessionID: id,
		State:     session.State,
		ExpiresIn: int(s.sessions.TTL().Seconds()),
		Pricing:   s.pricing.Table(),
		Chains:    s.chains.List(),
	}, nil
}

// Get 查询会话当前状态
func (s *CheckoutService) Get(ctx context.Context, id string) (*dto.CheckoutSessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildSessionView(session), nil
}

// SelectPlan 选择套餐与计费周期，进入选链步骤
func (s *CheckoutService) SelectPlan(ctx context.Context, id string, req *dto.SelectPlanRequest) (*dto.CheckoutSessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.State != model.CheckoutStateTierSelect {
		return nil, ErrInvalidTransition
	}

	amount, err := s.pricing.Price(req.Tier, req.BillingCycle)
	if err != nil {
		return nil, err
	}

	session.Tier = req.Tier
	session.BillingCycle = req.BillingCycle
	session.Amount = amount
	session.State = model.CheckoutStateChainSelect
	session.UpdatedAt = time.Now()

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return buildSessionView(session), nil
}

// SelectChain 选择支付链，展示收款地址和二维码。
// 二维码生成失败时退化为纯文本地址，不阻塞流程。
func (s *CheckoutService) SelectChain(ctx context.Context, id string, req *dto.SelectChainRequest) (*dto.CheckoutSessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.State != model.CheckoutStateChainSelect {
		return nil, ErrInvalidTransition
	}

	address, err := s.chains.AddressFor(req.Chain)
	if err != nil {
		return nil, err
	}

	session.Chain = req.Chain
	session.DepositAddress = address
	session.QRCode = ""

	qrCode, err := qr.EncodeDataURI(address, s.cfg.Checkout.QRSize)
	if err != nil {
		log.Printf("Failed to encode QR for chain %s: %v", req.Chain, err)
	} else {
		session.QRCode = qrCode
	}

	session.State = model.CheckoutStatePaymentDisplay
	session.UpdatedAt = time.Now()

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return buildSessionView(session), nil
}

// ChangeChain 从付款页退回选链步骤，已选套餐保持不变
func (s *CheckoutService) ChangeChain(ctx context.Context, id string) (*dto.CheckoutSessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.State != model.CheckoutStatePaymentDisplay {
		return nil, ErrInvalidTransition
	}

	session.Chain = ""
	session.DepositAddress = ""
	session.QRCode = ""
	session.State = model.CheckoutStateChainSelect
	session.UpdatedAt = time.Now()

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return buildSessionView(session), nil
}

// ConfirmPaid 用户点击"我已付款"，进入联系方式确认步骤
func (s *CheckoutService) ConfirmPaid(ctx context.Context, id string) (*dto.CheckoutSessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.State != model.CheckoutStatePaymentDisplay {
		return nil, ErrInvalidTransition
	}

	session.State = model.CheckoutStateContactConfirm
	session.UpdatedAt = time.Now()

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return buildSessionView(session), nil
}

// Submit 提交支付申报。金额、套餐、链、收款地址全部取自会话里服务端算好的值。
// 提交失败时保留已填的邮箱和交易哈希，会话停在 contact_confirm 供用户重试；
// 成功后会话进入 completed，不可重复提交。
func (s *CheckoutService) Submit(ctx context.Context, id string, req *dto.CheckoutSubmitRequest) (*dto.CheckoutSessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.State != model.CheckoutStateContactConfirm {
		return nil, ErrInvalidTransition
	}

	// 先把用户输入落到会话里，提交失败也不丢数据
	session.Email = req.Email
	session.TxHash = req.TxHash
	session.UpdatedAt = time.Now()

	payment, err := s.payments.Submit(&dto.SubmitPaymentRequest{
		Email:         req.Email,
		WalletAddress: req.WalletAddress,
		Chain:         session.Chain,
		TxHash:        req.TxHash,
		Amount:        session.Amount,
		Tier:          session.Tier,
		BillingCycle:  session.BillingCycle,
	})
	if err != nil {
		if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
			log.Printf("Failed to save checkout session %s: %v", id, saveErr)
		}
		return nil, err
	}

	session.PaymentID = payment.ID
	session.State = model.CheckoutStateCompleted

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return buildSessionView(session), nil
}

// Abandon 放弃向导，删除会话。此前没有提交过的话不会留下任何数据。
func (s *CheckoutService) Abandon(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

func buildSessionView(session *model.CheckoutSession) *dto.CheckoutSessionView {
	return &dto.CheckoutSessionView{
		SessionID:      session.ID,
		State:          session.State,
		Tier:           session.Tier,
		BillingCycle:   session.BillingCycle,
		Amount:         session.Amount,
		Chain:          session.Chain,
		DepositAddress: session.DepositAddress,
		QRCode:         session.QRCode,
		Email:          session.Email,
		TxHash:         session.TxHash,
		PaymentID:      session.PaymentID,
	}
}

// generateSessionID 生成 32 位十六进制会话 ID
func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
