package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/model/dto"
	"github.com/alphaowl/premium_go_server/internal/pkg/pubsub"
	"github.com/alphaowl/premium_go_server/internal/pkg/queue"
	"github.com/alphaowl/premium_go_server/internal/repository"
)

var ErrAlreadyReviewed = errors.New("payment has already been reviewed")

// ReconcileService 人工对账。
// Verify 是唯一会产生会员权益的入口：状态翻转和权益落库在同一个事务里，
// 不会出现已核验却没有权益（或反过来）的中间态。
type ReconcileService struct {
	db        *gorm.DB
	notifyQ   *queue.Queue
	publisher *pubsub.Publisher
}

func NewReconcileService(db *gorm.DB, notifyQ *queue.Queue, publisher *pubsub.Publisher) *ReconcileService {
	return &ReconcileService{
		db:        db,
		notifyQ:   notifyQ,
		publisher: publisher,
	}
}

// Verify 核验一条 pending 支付：翻转状态并创建/续期会员权益。
// 状态翻转带乐观守卫，两个运营同时核验同一条记录时只有一个成功，
// 另一个拿到 ErrAlreadyReviewed，权益只会延长一次。
func (s *ReconcileService) Verify(paymentID, adminID int64) (*dto.VerifyPaymentResponse, error) {
	var payment *model.Payment
	var premiumUntil time.Time

	err := s.db.Transaction(func(tx *gorm.DB) error {
		paymentRepo := repository.NewPaymentRepository(tx)

		p, err := paymentRepo.GetByID(paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		now := time.Now()
		flipped, err := paymentRepo.MarkVerified(paymentID, adminID, now)
		if err != nil {
			return err
		}
		if !flipped {
			return ErrAlreadyReviewed
		}

		premiumRepo := repository.NewPremiumUserRepository(tx)
		existing, err := premiumRepo.GetByEmail(p.UserEmail)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		premiumUntil = ComputePremiumUntil(existing, p.BillingCycle, now)

		if existing == nil {
			user := &model.PremiumUser{
				Email:            p.UserEmail,
				WalletAddress:    p.WalletAddress,
				IsPremium:        true,
				PremiumUntil:     &premiumUntil,
				LastPaymentChain: p.Chain,
			}
			if err := premiumRepo.Create(user); err != nil {
				return err
			}
		} else {
			existing.WalletAddress = p.WalletAddress
			existing.IsPremium = true
			existing.PremiumUntil = &premiumUntil
			existing.LastPaymentChain = p.Chain
			if err := premiumRepo.Update(existing); err != nil {
				return err
			}
		}

		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAndBroadcast(payment, queue.EventPaymentVerified, pubsub.EventVerified, model.PaymentStatusVerified)

	return &dto.VerifyPaymentResponse{
		PaymentID:    paymentID,
		Status:       model.PaymentStatusVerified,
		Email:        payment.UserEmail,
		PremiumUntil: premiumUntil.Format(time.RFC3339),
	}, nil
}

// Reject 驳回一条 pending 支付，不产生任何权益
func (s *ReconcileService) Reject(paymentID, adminID int64) (*dto.RejectPaymentResponse, error) {
	var payment *model.Payment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		paymentRepo := repository.NewPaymentRepository(tx)

		p, err := paymentRepo.GetByID(paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		flipped, err := paymentRepo.MarkRejected(paymentID, adminID, time.Now())
		if err != nil {
			return err
		}
		if !flipped {
			return ErrAlreadyReviewed
		}

		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAndBroadcast(payment, queue.EventPaymentRejected, pubsub.EventRejected, model.PaymentStatusRejected)

	return &dto.RejectPaymentResponse{
		PaymentID: paymentID,
		Status:    model.PaymentStatusRejected,
	}, nil
}

// notifyAndBroadcast 事务提交后的通知动作，失败只记日志不回滚
func (s *ReconcileService) notifyAndBroadcast(payment *model.Payment, notifyEvent, pubsubEvent, status string) {
	ctx := context.Background()

	if s.notifyQ != nil {
		msg := &queue.NotifyMessage{PaymentID: payment.ID, Event: notifyEvent}
		if err := s.notifyQ.Push(ctx, msg); err != nil {
			log.Printf("Failed to enqueue notification for payment %d: %v", payment.ID, err)
		}
	}

	if s.publisher != nil {
		event := &pubsub.PaymentEventMessage{
			Event:     pubsubEvent,
			PaymentID: payment.ID,
			UserEmail: payment.UserEmail,
			Chain:     payment.Chain,
			Amount:    payment.Amount,
			Status:    status,
		}
		if err := s.publisher.PublishPaymentEvent(ctx, event); err != nil {
			log.Printf("Failed to publish payment event: %v", err)
		}
	}
}
