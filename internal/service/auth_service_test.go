package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"wineshop/internal/apperr"
	"wineshop/internal/core/auth"
	"wineshop/internal/service"
)

func TestRegisterAndActivate(t *testing.T) {
	r := newTestRepos(t)
	mailer := &fakeMailer{}
	deny := newFakeDenylist()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "wineshop-test", TTL: time.Hour}
	users := service.NewUserService(r, mailer, "http://localhost:8080", zap.NewNop())
	auths := service.NewAuthService(r, jwter, deny)
	ctx := context.Background()

	in := service.RegisterInput{
		Username: "alice", Password: "secret123",
		FullName: "Alice", Email: "alice@example.com",
	}
	u, err := users.Register(ctx, in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.IsActive {
		t.Fatal("expected account inactive after registration")
	}
	if u.Password == "secret123" {
		t.Fatal("expected password hashed")
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "alice@example.com" {
		t.Fatalf("expected activation mail, got %+v", mailer.sent)
	}

	// 重名拒绝
	if _, err := users.Register(ctx, in); !errors.Is(err, apperr.UserExisted) {
		t.Fatalf("expected UserExisted, got %v", err)
	}

	// 未激活不能登录
	_, err = auths.Login(ctx, service.LoginInput{Username: "alice", Password: "secret123"})
	if !errors.Is(err, apperr.LoginFailed) {
		t.Fatalf("expected LoginFailed before activation, got %v", err)
	}

	// 兑换激活令牌
	token, err := r.Tokens.FindByToken(ctx, mustFindToken(t, r))
	if err != nil || token == nil {
		t.Fatalf("expected verification token: %v", err)
	}
	if err := auths.Activate(ctx, token.Token); err != nil {
		t.Fatalf("activate: %v", err)
	}

	// 令牌一次性
	if err := auths.Activate(ctx, token.Token); !errors.Is(err, apperr.InvalidVerifyToken) {
		t.Fatalf("expected InvalidVerifyToken on reuse, got %v", err)
	}

	out, err := auths.Login(ctx, service.LoginInput{Username: "alice", Password: "secret123"})
	if err != nil {
		t.Fatalf("login after activation: %v", err)
	}
	if out.Token == "" || out.Role != "USER" {
		t.Fatalf("unexpected login result: %+v", out)
	}

	// 错密码
	_, err = auths.Login(ctx, service.LoginInput{Username: "alice", Password: "wrong"})
	if !errors.Is(err, apperr.LoginFailed) {
		t.Fatalf("expected LoginFailed, got %v", err)
	}
}

func TestActivateExpiredToken(t *testing.T) {
	r := newTestRepos(t)
	deny := newFakeDenylist()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "wineshop-test", TTL: time.Hour}
	users := service.NewUserService(r, &fakeMailer{}, "http://localhost:8080", zap.NewNop())
	auths := service.NewAuthService(r, jwter, deny)
	ctx := context.Background()

	_, err := users.Register(ctx, service.RegisterInput{
		Username: "bob", Password: "secret123", FullName: "Bob", Email: "bob@example.com",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	tokenStr := mustFindToken(t, r)
	vt, _ := r.Tokens.FindByToken(ctx, tokenStr)
	vt.ExpiryDate = time.Now().Add(-time.Hour)
	if err := r.DB.Save(vt).Error; err != nil {
		t.Fatalf("expire token: %v", err)
	}

	if err := auths.Activate(ctx, tokenStr); !errors.Is(err, apperr.InvalidVerifyToken) {
		t.Fatalf("expected InvalidVerifyToken for expired token, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newTestRepos(t)
	deny := newFakeDenylist()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "wineshop-test", TTL: time.Hour}
	auths := service.NewAuthService(r, jwter, deny)
	ctx := context.Background()

	u := mustCreateUser(t, r, "carol")
	tok, err := jwter.Issue(u.ID, u.Username, u.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := jwter.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if revoked, _ := deny.IsRevoked(ctx, claims.ID); revoked {
		t.Fatal("token revoked before logout")
	}
	if err := auths.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if revoked, _ := deny.IsRevoked(ctx, claims.ID); !revoked {
		t.Fatal("expected jti revoked after logout")
	}
}
