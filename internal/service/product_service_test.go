package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wineshop/internal/apperr"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
	"wineshop/internal/service"
)

func TestProductLifecycle(t *testing.T) {
	r := newTestRepos(t)
	products := service.NewProductService(r, nil)
	categories := service.NewCategoryService(r)
	ctx := context.Background()

	cat, err := categories.Create(ctx, service.CategoryInput{Name: "Red", Description: "Red wines"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	p, err := products.Create(ctx, service.ProductInput{
		Name: "Barolo", Price: 55.0, Volume: 750, StockQuantity: 20,
		AlcoholPercentage: 14.5, CategoryIDs: []uint64{cat.ID},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if len(p.Categories) != 1 {
		t.Fatalf("expected one category attached, got %d", len(p.Categories))
	}

	// 创建口：未知分类
	_, err = products.Create(ctx, service.ProductInput{
		Name: "Bad", Price: 1.0, Volume: 750, CategoryIDs: []uint64{9999},
	})
	if !errors.Is(err, apperr.CategoryNotFound) {
		t.Fatalf("expected CategoryNotFound, got %v", err)
	}

	// 更新口：未知分类带具体 id
	_, err = products.Update(ctx, p.ID, service.ProductInput{
		Name: "Barolo", Price: 55.0, Volume: 750, CategoryIDs: []uint64{cat.ID, 9999},
	})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Code != apperr.CategorySomeNotFound.Code {
		t.Fatalf("expected CategorySomeNotFound on update, got %v", err)
	}
	if !strings.Contains(err.Error(), "9999") {
		t.Fatalf("expected missing id in message, got %q", err.Error())
	}

	// 软删后默认不可见，但按 id 回溯仍取得到
	if err := products.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := products.Get(ctx, p.ID); !errors.Is(err, apperr.ProductNotFound) {
		t.Fatalf("expected ProductNotFound after soft delete, got %v", err)
	}
	raw, err := r.Products.FindByID(ctx, p.ID)
	if err != nil || raw == nil {
		t.Fatalf("expected soft-deleted row still reachable by id: %v", err)
	}
	if raw.DeletedAt == nil {
		t.Fatal("expected deleted_at set")
	}

	// 重复软删幂等
	if err := products.Delete(ctx, p.ID); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestProductSearchFilters(t *testing.T) {
	r := newTestRepos(t)
	products := service.NewProductService(r, nil)
	categories := service.NewCategoryService(r)
	ctx := context.Background()

	red, _ := categories.Create(ctx, service.CategoryInput{Name: "Red"})
	white, _ := categories.Create(ctx, service.CategoryInput{Name: "White"})

	mk := func(name string, price, alcohol float64, catID uint64) {
		t.Helper()
		if _, err := products.Create(ctx, service.ProductInput{
			Name: name, Price: price, Volume: 750, StockQuantity: 5,
			AlcoholPercentage: alcohol, CategoryIDs: []uint64{catID},
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	mk("Pinot Noir", 30.0, 13.0, red.ID)
	mk("Pinot Grigio", 12.0, 12.0, white.ID)
	mk("Cabernet Sauvignon", 45.0, 14.0, red.ID)

	min := 20.0
	ps, total, err := products.Search(ctx, repo.ProductFilter{
		Name: "pinot", MinPrice: &min, Limit: 10,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || ps[0].Name != "Pinot Noir" {
		t.Fatalf("expected only Pinot Noir, got total=%d %+v", total, ps)
	}

	// 按分类过滤
	ps, total, err = products.Search(ctx, repo.ProductFilter{
		CategoryIDs: []uint64{red.ID}, Limit: 10,
	})
	if err != nil {
		t.Fatalf("search by category: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 red wines, got %d", total)
	}

	maxAlc := 12.5
	_, total, err = products.Search(ctx, repo.ProductFilter{MaxAlcohol: &maxAlc, Limit: 10})
	if err != nil {
		t.Fatalf("search by alcohol: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 light wine, got %d", total)
	}
}

func TestProductPurgeBlockedByOrders(t *testing.T) {
	r := newTestRepos(t)
	products := service.NewProductService(r, nil)
	ctx := context.Background()

	u := mustCreateUser(t, r, "buyer")
	p := mustCreateProduct(t, r, "Amarone", 60.0, 3)

	o := &domain.Order{
		UserID: u.ID, TotalAmount: 60.0, Status: domain.OrderStatusDelivered,
		Items: []domain.OrderItem{{ProductID: p.ID, Quantity: 1, UnitPrice: 60.0}},
	}
	if err := r.Orders.Create(ctx, o); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := products.Purge(ctx, p.ID); !errors.Is(err, apperr.ProductInUse) {
		t.Fatalf("expected ProductInUse, got %v", err)
	}

	// 无订单引用的商品可永久删除
	p2 := mustCreateProduct(t, r, "Unsold", 5.0, 1)
	if err := products.Purge(ctx, p2.ID); err != nil {
		t.Fatalf("purge unreferenced product: %v", err)
	}
	if got, _ := r.Products.FindByID(ctx, p2.ID); got != nil {
		t.Fatal("expected row gone after purge")
	}
}

func TestCategoryDeleteInUse(t *testing.T) {
	r := newTestRepos(t)
	products := service.NewProductService(r, nil)
	categories := service.NewCategoryService(r)
	ctx := context.Background()

	cat, _ := categories.Create(ctx, service.CategoryInput{Name: "Sparkling"})
	p, err := products.Create(ctx, service.ProductInput{
		Name: "Champagne", Price: 80.0, Volume: 750, CategoryIDs: []uint64{cat.ID},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := categories.Delete(ctx, cat.ID); !errors.Is(err, apperr.CategoryInUse) {
		t.Fatalf("expected CategoryInUse, got %v", err)
	}

	// 商品软删后分类即可删
	if err := products.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if err := categories.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("delete category after product gone: %v", err)
	}
	if _, err := categories.Get(ctx, cat.ID); !errors.Is(err, apperr.CategoryNotFound) {
		t.Fatalf("expected CategoryNotFound, got %v", err)
	}
}
