package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/internal/model"
)

type PremiumUserRepository struct {
	db *gorm.DB
}

func NewPremiumUserRepository(db *gorm.DB) *PremiumUserRepository {
	return &PremiumUserRepository{db: db}
}

func (r *PremiumUserRepository) Create(user *model.PremiumUser) error {
	return r.db.Create(user).Error
}

func (r *PremiumUserRepository) GetByEmail(email string) (*model.PremiumUser, error) {
	var user model.PremiumUser
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PremiumUserRepository) Update(user *model.PremiumUser) error {
	return r.db.Save(user).Error
}

// DemoteExpired 将会员期已过的记录摘掉 is_premium 标记，返回处理条数
func (r *PremiumUserRepository) DemoteExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.PremiumUser{}).
		Where("is_premium = ? AND premium_until < ?", true, now).
		Update("is_premium", false)
	return result.RowsAffected, result.Error
}

// ListExpired 查询已过期但仍带会员标记的记录（cleanup 巡检用）
func (r *PremiumUserRepository) ListExpired(now time.Time) ([]*model.PremiumUser, error) {
	var users []*model.PremiumUser
	err := r.db.Where("is_premium = ? AND premium_until < ?", true, now).
		Find(&users).Error
	return users, err
}
