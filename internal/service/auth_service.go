package service

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/alphaowl/premium_go_server/config"
	"github.com/alphaowl/premium_go_server/internal/model"
	"github.com/alphaowl/premium_go_server/internal/model/dto"
	"github.com/alphaowl/premium_go_server/internal/pkg/jwt"
	"github.com/alphaowl/premium_go_server/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService 后台运营账号的登录认证
type AuthService struct {
	adminRepo *repository.AdminRepository
	cfg       *config.Config
}

func NewAuthService(adminRepo *repository.AdminRepository, cfg *config.Config) *AuthService {
	return &AuthService{adminRepo: adminRepo, cfg: cfg}
}

// Login 运营登录，校验通过后签发 JWT
func (s *AuthService) Login(req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	admin, err := s.adminRepo.GetByUsername(req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(admin.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.AdminLoginResponse{
		Token:    token,
		Username: admin.Username,
	}, nil
}

// SeedAdmin 首次启动时根据配置创建初始运营账号，已有账号则跳过
func (s *AuthService) SeedAdmin() error {
	count, err := s.adminRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if s.cfg.Admin.Username == "" || s.cfg.Admin.Password == "" {
		log.Println("No admin account configured, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.AdminUser{
		Username:     s.cfg.Admin.Username,
		PasswordHash: string(hash),
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return err
	}

	log.Printf("Seeded admin account: %s", admin.Username)
	return nil
}
