package repository

import (
	"gorm.io/gorm"

	"github.com/alphaowl/premium_go_server/internal/model"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(admin *model.AdminUser) error {
	return r.db.Create(admin).Error
}

func (r *AdminRepository) GetByID(id int64) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.db.Where("id = ?", id).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) GetByUsername(username string) (*model.AdminUser, error) {
	var admin model.AdminUser
	err := r.db.Where("username = ?", username).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.AdminUser{}).Count(&count).Error
	return count, err
}
