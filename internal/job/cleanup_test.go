package job_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wineshop/internal/domain"
	"wineshop/internal/job"
	"wineshop/internal/repo"
)

func newJobRepos(t *testing.T) *repo.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 内存库随连接生灭，池子收紧到单连接
	sqlDB.SetMaxOpenConns(1)
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo.New(db)
}

func TestCleanupExpiredAccounts(t *testing.T) {
	r := newJobRepos(t)
	ctx := context.Background()
	svc := job.NewCleanupService(r, 30, zap.NewNop())

	stale := &domain.User{Username: "never-activated", Password: "x", Email: "a@b.c", Role: domain.RoleUser}
	if err := r.Users.Create(ctx, stale); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := r.Tokens.Create(ctx, &domain.VerificationToken{
		UserID: stale.ID, Token: "tok-old", ExpiryDate: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("create token: %v", err)
	}

	// 已激活用户令牌虽过期，只删令牌不删号
	active := &domain.User{Username: "activated", Password: "x", Email: "d@b.c", Role: domain.RoleUser, IsActive: true}
	if err := r.Users.Create(ctx, active); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := r.Tokens.Create(ctx, &domain.VerificationToken{
		UserID: active.ID, Token: "tok-done", ExpiryDate: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("create token: %v", err)
	}

	if err := svc.CleanupExpiredAccounts(ctx); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if u, _ := r.Users.FindByID(ctx, stale.ID); u != nil {
		t.Fatal("expected stale account removed")
	}
	if u, _ := r.Users.FindByID(ctx, active.ID); u == nil {
		t.Fatal("active account must survive")
	}
	var tokens int64
	if err := r.DB.Model(&domain.VerificationToken{}).Count(&tokens).Error; err != nil {
		t.Fatalf("count tokens: %v", err)
	}
	if tokens != 0 {
		t.Fatalf("expected no tokens left, got %d", tokens)
	}
}

func TestCleanupStaleCartItems(t *testing.T) {
	r := newJobRepos(t)
	ctx := context.Background()
	svc := job.NewCleanupService(r, 30, zap.NewNop())

	u := &domain.User{Username: "shopper", Password: "x", Email: "s@b.c", Role: domain.RoleUser, IsActive: true}
	if err := r.Users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	old := &domain.Product{Name: "Retired Red", Price: 10, StockQuantity: 5, Volume: 750}
	fresh := &domain.Product{Name: "Current Red", Price: 12, StockQuantity: 5, Volume: 750}
	for _, p := range []*domain.Product{old, fresh} {
		if err := r.Products.Create(ctx, p); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}
	// 下架超过保留期
	longAgo := time.Now().AddDate(0, 0, -40)
	if err := r.DB.Model(&domain.Product{}).Where("id = ?", old.ID).
		Update("deleted_at", longAgo).Error; err != nil {
		t.Fatalf("backdate delete: %v", err)
	}

	cart, _, err := r.Carts.FindOrCreateByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	for _, p := range []*domain.Product{old, fresh} {
		if err := r.Carts.AddItem(ctx, &domain.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: 1}); err != nil {
			t.Fatalf("add item: %v", err)
		}
	}

	if err := svc.CleanupStaleCartItems(ctx); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	cart, err = r.Carts.FindByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload cart: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 item left, got %d", len(cart.Items))
	}
	if cart.Items[0].ProductID != fresh.ID {
		t.Fatalf("wrong survivor: product %d", cart.Items[0].ProductID)
	}
}
