package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wineshop/internal/apperr"
	"wineshop/internal/core/mail"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
	"wineshop/pkg/utils"
)

const verificationTokenTTL = 24 * time.Hour

// UserService 账号注册与用户资料
type UserService struct {
	repos   *repo.Repository
	mailer  mail.Sender
	baseURL string // 激活链接前缀
	log     *zap.Logger
}

func NewUserService(repos *repo.Repository, mailer mail.Sender, baseURL string, log *zap.Logger) *UserService {
	return &UserService{repos: repos, mailer: mailer, baseURL: baseURL, log: log}
}

type RegisterInput struct {
	Username string     `json:"username" binding:"required,min=3,max=50"`
	Password string     `json:"password" binding:"required,min=6,max=72"`
	FullName string     `json:"fullName" binding:"required,max=100"`
	Email    string     `json:"email" binding:"required,email"`
	Phone    string     `json:"phone" binding:"max=20"`
	Address  string     `json:"address" binding:"max=255"`
	Birthday *time.Time `json:"birthday"`
}

// Register 建未激活账号 + 一次性激活令牌，激活邮件发送失败不回滚注册
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	exists, err := s.repos.Users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.UserExisted
	}

	user := &domain.User{
		Username: in.Username,
		Password: utils.HashPassword(in.Password),
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Address:  in.Address,
		Birthday: in.Birthday,
		Role:     domain.RoleUser,
		IsActive: false,
	}

	token := &domain.VerificationToken{
		Token:      uuid.NewString(),
		ExpiryDate: time.Now().Add(verificationTokenTTL),
	}

	err = s.repos.Transaction(ctx, func(tx *repo.Repository) error {
		if e := tx.Users.Create(ctx, user); e != nil {
			return e
		}
		token.UserID = user.ID
		return tx.Tokens.Create(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/api/v1/auth/activate?token=%s", s.baseURL, token.Token)
	if e := s.mailer.Send(ctx, user.Email, "Activate your account", mail.ActivationBody(user.FullName, link)); e != nil {
		s.log.Warn("activation mail failed", zap.Uint64("user_id", user.ID), zap.Error(e))
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	u, err := s.repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.UserNotExist
	}
	return u, nil
}

type UpdateProfileInput struct {
	FullName string     `json:"fullName" binding:"max=100"`
	Email    string     `json:"email" binding:"omitempty,email"`
	Phone    string     `json:"phone" binding:"max=20"`
	Address  string     `json:"address" binding:"max=255"`
	Birthday *time.Time `json:"birthday"`
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint64, in UpdateProfileInput) (*domain.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.Address != "" {
		u.Address = in.Address
	}
	if in.Birthday != nil {
		u.Birthday = in.Birthday
	}
	if err := s.repos.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// List 管理端用户列表
func (s *UserService) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	return s.repos.Users.List(ctx, offset, limit)
}
