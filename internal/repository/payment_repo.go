package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByStatus 按状态查询支付记录，最新的排在前面，方便运营先看到新申报。
// status 为 "all" 时返回全部。
func (r *PaymentRepository) ListByStatus(status string) ([]*model.Payment, int64, error) {
	query := r.db.Model(&model.Payment{})
	if status != "all" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []*model.Payment
	err := query.Order("created_at DESC").Find(&payments).Error
	return payments, total, err
}

// ListByEmail 查询某邮箱的全部支付记录
func (r *PaymentRepository) ListByEmail(email string) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("user_email = ?", email).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// MarkVerified 将 pending 记录翻转为 verified。
// WHERE 条件带上当前状态做乐观守卫：两个运营同时核验时只有一个能翻转成功，
// 返回值表示本次调用是否真正完成了状态翻转。
func (r *PaymentRepository) MarkVerified(id, adminID int64, at time.Time) (bool, error) {
	result := r.db.Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":      model.PaymentStatusVerified,
			"reviewed_by": adminID,
			"reviewed_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkRejected 将 pending 记录翻转为 rejected，同样带状态守卫
func (r *PaymentRepository) MarkRejected(id, adminID int64, at time.Time) (bool, error) {
	result := r.db.Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":      model.PaymentStatusRejected,
			"reviewed_by": adminID,
			"reviewed_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdateProofURL 补充转账凭证地址
func (r *PaymentRepository) UpdateProofURL(id int64, proofURL string) error {
	return r.db.Model(&model.Payment{}).Where("id = ?", id).
		Update("proof_url", proofURL).Error
}

// ListStalePending 查询滞留超过指定时间的 pending 记录（运维巡检用）
func (r *PaymentRepository) ListStalePending(olderThan time.Time) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.Where("status = ? AND created_at < ?", model.PaymentStatusPending, olderThan).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}
