package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alphaowl/premium_go_server/internal/pkg/email"
	"github.com/alphaowl/premium_go_server/internal/pkg/queue"
	"github.com/alphaowl/premium_go_server/internal/repository"
)

// Processor 通知任务处理器。
// 核验/驳回之后的用户邮件在这里异步发出，发送失败不影响已提交的核验结果。
type Processor struct {
	paymentRepo  *repository.PaymentRepository
	premiumRepo  *repository.PremiumUserRepository
	emailService *email.Service
}

func NewProcessor(
	paymentRepo *repository.PaymentRepository,
	premiumRepo *repository.PremiumUserRepository,
	emailService *email.Service,
) *Processor {
	return &Processor{
		paymentRepo:  paymentRepo,
		premiumRepo:  premiumRepo,
		emailService: emailService,
	}
}

// Process 处理一条通知任务
func (p *Processor) Process(ctx context.Context, msg *queue.NotifyMessage) error {
	payment, err := p.paymentRepo.GetByID(msg.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment %d: %w", msg.PaymentID, err)
	}

	if p.emailService == nil {
		log.Printf("Email not configured, skipping notification for payment %d", payment.ID)
		return nil
	}

	switch msg.Event {
	case queue.EventPaymentVerified:
		premiumUntil := ""
		user, err := p.premiumRepo.GetByEmail(payment.UserEmail)
		if err == nil && user.PremiumUntil != nil {
			premiumUntil = user.PremiumUntil.Format(time.RFC1123)
		}
		return p.emailService.SendPaymentVerified(payment.UserEmail, payment.Tier, payment.BillingCycle, premiumUntil)

	case queue.EventPaymentRejected:
		return p.emailService.SendPaymentRejected(payment.UserEmail)

	default:
		log.Printf("Unknown notification event %q for payment %d, dropping", msg.Event, payment.ID)
		return nil
	}
}
