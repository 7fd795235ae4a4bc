package service

import (
	"errors"
	"strings"

	"farmstore/config"
	"farmstore/internal/auth"
	"farmstore/internal/domain"
	"farmstore/internal/models"
	"farmstore/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCreds       = errors.New("invalid email or password")
	ErrAdminEmailRequired = errors.New("admin registration requires an @admin.com email address")
	ErrAdminEmailReserved = errors.New("emails ending in @admin.com are reserved for administrator accounts")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// Register creates an account and returns it with access+refresh tokens.
// Admin accounts must use the reserved email domain; regular accounts must not.
func (s *AuthService) Register(name, email, password, mobile, role string) (*models.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	isAdminDomain := strings.HasSuffix(email, domain.AdminEmailDomain)
	if role == domain.RoleAdmin && !isAdminDomain {
		return nil, "", "", ErrAdminEmailRequired
	}
	if role != domain.RoleAdmin && isAdminDomain {
		return nil, "", "", ErrAdminEmailReserved
	}
	if role == "" {
		role = domain.RoleUser
	}
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Mobile:       mobile,
		Role:         role,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	access, refresh, err := auth.TokenPair(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, refresh, err := auth.TokenPair(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}
