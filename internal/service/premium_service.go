package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/model/dto"
	"github.com/alphaowl/premium_go_server/internal/repository"
)

type PremiumService struct {
	premiumRepo *repository.PremiumUserRepository
}

func NewPremiumService(premiumRepo *repository.PremiumUserRepository) *PremiumService {
	return &PremiumService{premiumRepo: premiumRepo}
}

// ComputePremiumUntil 计算新的会员到期时间。
// 现有权益未过期时在原到期时间上顺延（用户已付的时间不作废），
// 已过期或不存在时从 asOf 起算。月付 +1 个月，年付 +12 个月。
func ComputePremiumUntil(existing *model.PremiumUser, billingCycle string, asOf time.Time) time.Time {
	months := 1
	if billingCycle == model.CycleYearly {
		months = 12
	}

	base := asOf
	if existing != nil && existing.Active(asOf) {
		base = *existing.PremiumUntil
	}

	return base.AddDate(0, months, 0)
}

// GetStatus 查询会员状态。到期时间已过的记录直接按非会员返回，
// 不依赖后台任务是否已经摘掉 is_premium 标记。
func (s *PremiumService) GetStatus(email string) (*dto.PremiumStatusResponse, error) {
	user, err := s.premiumRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.PremiumStatusResponse{Email: email, IsPremium: false}, nil
		}
		return nil, err
	}

	resp := &dto.PremiumStatusResponse{
		Email:     user.Email,
		IsPremium: user.Active(time.Now()),
	}
	if user.PremiumUntil != nil {
		resp.PremiumUntil = user.PremiumUntil.Format(time.RFC3339)
	}
	return resp, nil
}

// DemoteExpired 摘掉已过期记录的会员标记
func (s *PremiumService) DemoteExpired() (int64, error) {
	return s.premiumRepo.DemoteExpired(time.Now())
}
