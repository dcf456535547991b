package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wineshop/internal/apperr"
	"wineshop/internal/service"
)

func TestCartAddMergesQuantity(t *testing.T) {
	r := newTestRepos(t)
	carts := service.NewCartService(r)
	ctx := context.Background()

	u := mustCreateUser(t, r, "buyer")
	p := mustCreateProduct(t, r, "Tempranillo", 10.0, 50)

	cart, err := carts.AddItem(ctx, u.ID, service.CartItemInput{ProductID: p.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("expected one item qty 2, got %+v", cart.Items)
	}

	// 同商品再次加购，数量合并不生成新行
	cart, err = carts.AddItem(ctx, u.ID, service.CartItemInput{ProductID: p.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("add item again: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 5 {
		t.Fatalf("expected merged qty 5, got %+v", cart.Items)
	}

	// 非法数量
	if _, err := carts.AddItem(ctx, u.ID, service.CartItemInput{ProductID: p.ID, Quantity: 0}); err == nil {
		t.Fatal("expected error for zero quantity")
	}

	// 不存在的商品
	if _, err := carts.AddItem(ctx, u.ID, service.CartItemInput{ProductID: 9999, Quantity: 1}); !errors.Is(err, apperr.ProductNotFound) {
		t.Fatalf("expected ProductNotFound, got %v", err)
	}
}

func TestCartAddRejectsDeletedProduct(t *testing.T) {
	r := newTestRepos(t)
	carts := service.NewCartService(r)
	ctx := context.Background()

	u := mustCreateUser(t, r, "buyer")
	p := mustCreateProduct(t, r, "Grenache", 10.0, 50)
	if err := r.Products.SoftDelete(ctx, p.ID, time.Now()); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	if _, err := carts.AddItem(ctx, u.ID, service.CartItemInput{ProductID: p.ID, Quantity: 1}); !errors.Is(err, apperr.ProductNotFound) {
		t.Fatalf("expected ProductNotFound for soft-deleted product, got %v", err)
	}
}

func TestCartUpdateItem(t *testing.T) {
	r := newTestRepos(t)
	carts := service.NewCartService(r)
	ctx := context.Background()

	u := mustCreateUser(t, r, "buyer")
	p := mustCreateProduct(t, r, "Verdejo", 9.0, 50)

	if _, err := carts.AddItem(ctx, u.ID, service.CartItemInput{ProductID: p.ID, Quantity: 4}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	// 整写覆盖
	cart, err := carts.UpdateItem(ctx, u.ID, service.CartItemInput{ProductID: p.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("expected qty overwritten to 2, got %d", cart.Items[0].Quantity)
	}

	// <= 0 即删行
	cart, err = carts.UpdateItem(ctx, u.ID, service.CartItemInput{ProductID: p.ID, Quantity: 0})
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected item removed, got %+v", cart.Items)
	}

	// 不在车内 + 数量为正 = 追加
	cart, err = carts.UpdateItem(ctx, u.ID, service.CartItemInput{ProductID: p.ID, Quantity: 7})
	if err != nil {
		t.Fatalf("update absent item: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 7 {
		t.Fatalf("expected appended qty 7, got %+v", cart.Items)
	}

	// 不在车内 + 数量 <= 0 = 无操作
	if _, err := carts.UpdateItem(ctx, u.ID, service.CartItemInput{ProductID: 424242, Quantity: -1}); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestCartSnapshotTotalAndAvailability(t *testing.T) {
	r := newTestRepos(t)
	carts := service.NewCartService(r)
	ctx := context.Background()

	u := mustCreateUser(t, r, "buyer")
	p1 := mustCreateProduct(t, r, "Bordeaux", 20.0, 50)
	p2 := mustCreateProduct(t, r, "Chablis", 15.0, 50)

	if _, err := carts.AddItem(ctx, u.ID, service.CartItemInput{ProductID: p1.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := carts.AddItem(ctx, u.ID, service.CartItemInput{ProductID: p2.ID, Quantity: 3}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	cart, err := carts.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	// 2×20 + 3×15 = 85
	if cart.TotalAmount != 85.0 {
		t.Fatalf("expected total 85.0, got %v", cart.TotalAmount)
	}
	for _, it := range cart.Items {
		if !it.Available {
			t.Fatalf("expected item %d available, got %+v", it.ProductID, it)
		}
	}

	// 商品下架后条目仍在车里，但标记不可售
	if err := r.Products.SoftDelete(ctx, p2.ID, time.Now()); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	cart, err = carts.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get cart after delete: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected both items retained, got %d", len(cart.Items))
	}
	for _, it := range cart.Items {
		if it.ProductID == p2.ID && it.Available {
			t.Fatal("expected soft-deleted product flagged unavailable")
		}
		if it.ProductID == p1.ID && !it.Available {
			t.Fatal("expected live product flagged available")
		}
	}
}

func TestCartRemoveItem(t *testing.T) {
	r := newTestRepos(t)
	carts := service.NewCartService(r)
	ctx := context.Background()

	u := mustCreateUser(t, r, "buyer")
	p := mustCreateProduct(t, r, "Albariño", 14.0, 50)

	// 没有购物车
	if _, err := carts.RemoveItem(ctx, u.ID, p.ID); !errors.Is(err, apperr.CartNotFound) {
		t.Fatalf("expected CartNotFound, got %v", err)
	}

	if _, err := carts.AddItem(ctx, u.ID, service.CartItemInput{ProductID: p.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	// 不在车内的商品
	if _, err := carts.RemoveItem(ctx, u.ID, 9999); !errors.Is(err, apperr.ProductNotInCart) {
		t.Fatalf("expected ProductNotInCart, got %v", err)
	}

	cart, err := carts.RemoveItem(ctx, u.ID, p.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}
}
