package service_test

import (
	"context"
	"errors"
	"testing"

	"wineshop/internal/apperr"
	"wineshop/internal/domain"
	"wineshop/internal/service"
)

func TestReviewEligibility(t *testing.T) {
	r := newTestRepos(t)
	reviews := service.NewReviewService(r)
	ctx := context.Background()

	u := mustCreateUser(t, r, "buyer")
	p := mustCreateProduct(t, r, "Riesling", 22.0, 10)

	in := service.ReviewInput{Rating: 5, Comment: "great"}

	// 无已送达订单不可评价
	if _, err := reviews.Create(ctx, u.ID, p.ID, in); !errors.Is(err, apperr.ReviewNotAllowed) {
		t.Fatalf("expected ReviewNotAllowed, got %v", err)
	}

	// PENDING 订单不算资格
	o := &domain.Order{
		UserID: u.ID, TotalAmount: 22.0, Status: domain.OrderStatusPending,
		Items: []domain.OrderItem{{ProductID: p.ID, Quantity: 1, UnitPrice: 22.0}},
	}
	if err := r.Orders.Create(ctx, o); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := reviews.Create(ctx, u.ID, p.ID, in); !errors.Is(err, apperr.ReviewNotAllowed) {
		t.Fatalf("expected ReviewNotAllowed for pending order, got %v", err)
	}

	o.Status = domain.OrderStatusDelivered
	if err := r.Orders.Update(ctx, o); err != nil {
		t.Fatalf("update order: %v", err)
	}

	rv, err := reviews.Create(ctx, u.ID, p.ID, in)
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if rv.Rating != 5 {
		t.Fatalf("expected rating 5, got %d", rv.Rating)
	}

	// 重复评价先于资格检查报错
	if _, err := reviews.Create(ctx, u.ID, p.ID, in); !errors.Is(err, apperr.ReviewAlreadyExists) {
		t.Fatalf("expected ReviewAlreadyExists, got %v", err)
	}

	msgs, total, err := reviews.ListByProduct(ctx, p.ID, 0, 10)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if total != 1 || len(msgs) != 1 {
		t.Fatalf("expected one review, got total=%d", total)
	}
}

func TestReviewUnknownProduct(t *testing.T) {
	r := newTestRepos(t)
	reviews := service.NewReviewService(r)
	ctx := context.Background()

	u := mustCreateUser(t, r, "buyer")
	if _, _, err := reviews.ListByProduct(ctx, 9999, 0, 10); !errors.Is(err, apperr.ProductNotFound) {
		t.Fatalf("expected ProductNotFound, got %v", err)
	}
	if _, err := reviews.Create(ctx, u.ID, 9999, service.ReviewInput{Rating: 3}); !errors.Is(err, apperr.ReviewNotAllowed) {
		t.Fatalf("expected ReviewNotAllowed before product lookup, got %v", err)
	}
}
