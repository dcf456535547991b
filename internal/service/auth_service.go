package service

import (
	"context"
	"time"

	"wineshop/internal/apperr"
	"wineshop/internal/core/auth"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
	"wineshop/pkg/utils"
)

// AuthService 登录 / 登出 / 激活；令牌吊销走 jti 拒绝名单
type AuthService struct {
	repos    *repo.Repository
	jwter    *auth.JWTer
	denylist auth.Denylist
}

func NewAuthService(repos *repo.Repository, jwter *auth.JWTer, denylist auth.Denylist) *AuthService {
	return &AuthService{repos: repos, jwter: jwter, denylist: denylist}
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login 用户名不存在、密码不符、未激活，对外一律 LoginFailed，不泄露区别
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	u, err := s.repos.Users.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive || u.DeletedAt != nil {
		return nil, apperr.LoginFailed
	}
	if !utils.CheckPassword(in.Password, u.Password) {
		return nil, apperr.LoginFailed
	}

	token, err := s.jwter.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, apperr.CanNotCreateToken
	}
	return &LoginResult{Token: token, Username: u.Username, Role: u.Role}, nil
}

// Logout 把 jti 压入拒绝名单，TTL 取令牌剩余寿命
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.denylist.Revoke(ctx, claims.ID, ttl)
}

// Activate 兑换一次性激活令牌；过期令牌直接作废
func (s *AuthService) Activate(ctx context.Context, token string) error {
	vt, err := s.repos.Tokens.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if vt == nil {
		return apperr.InvalidVerifyToken
	}
	if time.Now().After(vt.ExpiryDate) {
		_ = s.repos.Tokens.Delete(ctx, vt.ID)
		return apperr.InvalidVerifyToken
	}

	return s.repos.Transaction(ctx, func(tx *repo.Repository) error {
		u := vt.User
		u.IsActive = true
		if e := tx.Users.Update(ctx, &u); e != nil {
			return e
		}
		return tx.Tokens.Delete(ctx, vt.ID)
	})
}

// Verify 校验令牌并确认用户仍然存在且可用
func (s *AuthService) Verify(ctx context.Context, claims *auth.Claims) (*domain.User, error) {
	u, err := s.repos.Users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.DeletedAt != nil {
		return nil, apperr.UserNotFoundFromToken
	}
	return u, nil
}
