package cron

import (
	"log"
	"time"

	"github.com/alphaowl/premium_go_server/internal/repository"
	"github.com/alphaowl/premium_go_server/internal/service"
)

// Service 后台定时任务：
//   - 每日 UTC 零点摘掉已过期会员的 is_premium 标记
//   - 每小时统计积压过久的 pending 支付，提醒运营跟进
type Service struct {
	premiumService *service.PremiumService
	paymentRepo    *repository.PaymentRepository
	staleAfter     time.Duration
	stopChan       chan struct{}
}

func NewService(
	premiumService *service.PremiumService,
	paymentRepo *repository.PaymentRepository,
	staleAfterHours int,
) *Service {
	if staleAfterHours <= 0 {
		staleAfterHours = 48
	}
	return &Service{
		premiumService: premiumService,
		paymentRepo:    paymentRepo,
		staleAfter:     time.Duration(staleAfterHours) * time.Hour,
		stopChan:       make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailyDemotion()
	go s.runStalePendingCheck()
	log.Println("Cron service started (premium demotion + stale pending check)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runDailyDemotion 每日会员降级任务
func (s *Service) runDailyDemotion() {
	now := time.Now().UTC()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	timer := time.NewTimer(nextMidnight.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.demoteExpired()
			timer.Reset(24 * time.Hour)
		}
	}
}

// demoteExpired 摘掉已过期记录的会员标记
func (s *Service) demoteExpired() {
	log.Println("Starting expired premium demotion...")
	count, err := s.premiumService.DemoteExpired()
	if err != nil {
		log.Printf("Failed to demote expired premium users: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Demoted %d expired premium users", count)
	}
}

// runStalePendingCheck 每小时检查一次积压的 pending 支付
func (s *Service) runStalePendingCheck() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.reportStalePending()
		}
	}
}

// reportStalePending 统计超过阈值仍未处理的支付申报
func (s *Service) reportStalePending() {
	stale, err := s.paymentRepo.ListStalePending(time.Now().Add(-s.staleAfter))
	if err != nil {
		log.Printf("Stale pending check: failed to query: %v", err)
		return
	}
	if len(stale) > 0 {
		log.Printf("Stale pending check: %d payments waiting longer than %s", len(stale), s.staleAfter)
	}
}

// RunNow 立即执行一次会员降级（用于测试或手动触发）
func (s *Service) RunNow() (int64, error) {
	log.Println("Manual premium demotion triggered...")
	return s.premiumService.DemoteExpired()
}
