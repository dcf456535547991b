package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wineshop/internal/domain"
	"wineshop/internal/repo"
)

func newTestRepos(t *testing.T) *repo.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// 内存库随连接生灭，池子收紧到单连接
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate failed: %v", err)
	}
	return repo.New(db)
}

func mustCreateUser(t *testing.T, r *repo.Repository, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username: username,
		Password: "x",
		FullName: "Test User",
		Email:    username + "@example.com",
		Role:     domain.RoleUser,
		IsActive: true,
	}
	if err := r.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

func mustCreateProduct(t *testing.T, r *repo.Repository, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:          name,
		Price:         price,
		Volume:        750,
		StockQuantity: stock,
	}
	if err := r.Products.Create(context.Background(), p); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return p
}

// mustFindToken 取库里唯一一条激活令牌
func mustFindToken(t *testing.T, r *repo.Repository) string {
	t.Helper()
	var tokens []domain.VerificationToken
	if err := r.DB.Find(&tokens).Error; err != nil {
		t.Fatalf("failed to list tokens: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("expected exactly one verification token, got %d", len(tokens))
	}
	return tokens[0].Token
}

// fakeMailer 收件箱替身
type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

// fakeDenylist 内存版拒绝名单
type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: map[string]bool{}}
}

func (d *fakeDenylist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = true
	return nil
}

func (d *fakeDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.revoked[jti], nil
}
