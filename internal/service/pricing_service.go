package service

import (
	"errors"
	"math"
	"sort"

	"github.com/alphaowl/premium_go_server/config"
	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/model/dto"
)

var (
	ErrInvalidTier   = errors.New("unknown subscription tier")
	ErrInvalidCycle  = errors.New("unknown billing cycle")
	ErrPriceMismatch = errors.New("amount does not match current pricing")
)

// 年付固定七折（即省两个月多一点），价格取整到整数美元
const yearlyDiscount = 0.7

// 默认定价表，config 里配置的同名套餐会覆盖这里的月付价格
var defaultTiers = map[string]config.TierPricing{
	model.TierAccess: {MonthlyPrice: 30, DisplayName: "Access"},
	model.TierPro:    {MonthlyPrice: 100, DisplayName: "Pro"},
}

// PricingService 定价目录。服务端是价格的唯一事实来源，
// 客户端提交的金额只用来交叉校验，不一致直接拒绝，绝不静默修正。
type PricingService struct {
	tiers map[string]config.TierPricing
}

func NewPricingService(cfg *config.Config) *PricingService {
	tiers := make(map[string]config.TierPricing, len(defaultTiers))
	for name, pricing := range defaultTiers {
		tiers[name] = pricing
	}
	for name, pricing := range cfg.Pricing.Tiers {
		if !model.IsValidTier(name) {
			continue
		}
		base := tiers[name]
		if pricing.MonthlyPrice > 0 {
			base.MonthlyPrice = pricing.MonthlyPrice
		}
		if pricing.DisplayName != "" {
			base.DisplayName = pricing.DisplayName
		}
		tiers[name] = base
	}

	return &PricingService{tiers: tiers}
}

// Price 按套餐和周期取价。年付价 = round(月付 × 12 × 0.7)。
func (s *PricingService) Price(tier, cycle string) (float64, error) {
	pricing, ok := s.tiers[tier]
	if !ok {
		return 0, ErrInvalidTier
	}

	switch cycle {
	case model.CycleMonthly:
		return pricing.MonthlyPrice, nil
	case model.CycleYearly:
		return math.Round(pricing.MonthlyPrice * 12 * yearlyDiscount), nil
	default:
		return 0, ErrInvalidCycle
	}
}

// ValidateAmount 校验客户端回传的金额是否与定价表一致
func (s *PricingService) ValidateAmount(tier, cycle string, amount float64) error {
	expected, err := s.Price(tier, cycle)
	if err != nil {
		return err
	}

	if math.Abs(expected-amount) > 0.001 {
		return ErrPriceMismatch
	}
	return nil
}

// Table 完整价格表（向导首屏用，两种周期同时给出以便前端即时切换）
func (s *PricingService) Table() []dto.TierPrice {
	prices := make([]dto.TierPrice, 0, len(s.tiers))
	for name, pricing := range s.tiers {
		yearly, _ := s.Price(name, model.CycleYearly)
		prices = append(prices, dto.TierPrice{
			Tier:         name,
			DisplayName:  pricing.DisplayName,
			MonthlyPrice: pricing.MonthlyPrice,
			YearlyPrice:  yearly,
		})
	}

	// 按月付价格升序，保证输出稳定
	sort.Slice(prices, func(i, j int) bool {
		return prices[i].MonthlyPrice < prices[j].MonthlyPrice
	})
	return prices
}
