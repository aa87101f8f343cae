package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/model/dto"
	"github.com/alphaowl/premium_go_server/internal/pkg/oss"
	"github.com/alphaowl/premium_go_server/internal/pkg/pubsub"
	"github.com/alphaowl/premium_go_server/internal/repository"
)

var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrInvalidStatus     = errors.New("unknown payment status filter")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrPaymentNotPending = errors.New("payment is no longer pending")
	ErrProofStorageOff   = errors.New("proof upload is not enabled")
	ErrMissingWallet     = errors.New("wallet address is required")
)

// PaymentService 支付申报。只负责创建 pending 记录，
// 状态翻转和权益激活全部在 ReconcileService 里完成。
type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	pricing     *PricingService
	chains      *ChainRegistry
	publisher   *pubsub.Publisher
	ossClient   *oss.Client
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	pricing *PricingService,
	chains *ChainRegistry,
	publisher *pubsub.Publisher,
	ossClient *oss.Client,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		pricing:     pricing,
		chains:      chains,
		publisher:   publisher,
		ossClient:   ossClient,
	}
}

// Submit 提交支付申报，生成 pending 记录。
// 金额以服务端定价表为准做交叉校验，收款地址按链从地址表冗余进记录。
// 提交不会创建任何会员权益。
func (s *PaymentService) Submit(req *dto.SubmitPaymentRequest) (*model.Payment, error) {
	if !strings.Contains(req.Email, "@") {
		return nil, ErrInvalidEmail
	}
	if req.WalletAddress == "" {
		return nil, ErrMissingWallet
	}
	if !model.IsValidTier(req.Tier) {
		return nil, ErrInvalidTier
	}
	if !model.IsValidCycle(req.BillingCycle) {
		return nil, ErrInvalidCycle
	}
	if !model.IsValidChain(req.Chain) {
		return nil, ErrInvalidChain
	}

	// 服务端核价：客户端金额只是展示值，不一致直接拒绝
	if err := s.pricing.ValidateAmount(req.Tier, req.BillingCycle, req.Amount); err != nil {
		return nil, err
	}

	depositAddress, err := s.chains.AddressFor(req.Chain)
	if err != nil {
		return nil, err
	}

	amount, _ := s.pricing.Price(req.Tier, req.BillingCycle)

	payment := &model.Payment{
		UserEmail:      strings.TrimSpace(strings.ToLower(req.Email)),
		WalletAddress:  req.WalletAddress,
		Chain:          req.Chain,
		DepositAddress: depositAddress,
		Amount:         amount,
		Tier:           req.Tier,
		BillingCycle:   req.BillingCycle,
		TxHash:         req.TxHash,
		Status:         model.PaymentStatusPending,
	}

	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	// 广播给在线的对账页，失败不影响提交结果
	if s.publisher != nil {
		event := &pubsub.PaymentEventMessage{
			Event:     pubsub.EventSubmitted,
			PaymentID: payment.ID,
			UserEmail: payment.UserEmail,
			Chain:     payment.Chain,
			Amount:    payment.Amount,
			Status:    payment.Status,
		}
		if err := s.publisher.PublishPaymentEvent(context.Background(), event); err != nil {
			log.Printf("Failed to publish payment event: %v", err)
		}
	}

	return payment, nil
}

// ListByStatus 按状态查询支付记录（后台对账页）
func (s *PaymentService) ListByStatus(status string) ([]*model.Payment, int64, error) {
	switch status {
	case model.PaymentStatusPending, model.PaymentStatusVerified, model.PaymentStatusRejected, "all":
	default:
		return nil, 0, ErrInvalidStatus
	}

	return s.paymentRepo.ListByStatus(status)
}

// GetByID 查询单条支付记录
func (s *PaymentService) GetByID(id int64) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// AttachProof 上传转账凭证截图并挂到支付记录上。
// 只有 pending 状态允许补充凭证；OSS 未配置时该功能整体关闭。
func (s *PaymentService) AttachProof(paymentID int64, data []byte, ext string) (string, error) {
	if s.ossClient == nil {
		return "", ErrProofStorageOff
	}

	payment, err := s.GetByID(paymentID)
	if err != nil {
		return "", err
	}
	if payment.Status != model.PaymentStatusPending {
		return "", ErrPaymentNotPending
	}

	proofURL, err := s.ossClient.UploadProof(paymentID, data, ext)
	if err != nil {
		return "", err
	}

	if err := s.paymentRepo.UpdateProofURL(paymentID, proofURL); err != nil {
		return "", err
	}

	return proofURL, nil
}
