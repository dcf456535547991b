package service

import (
	"context"

	"wineshop/internal/apperr"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
)

type ReviewService struct {
	repos *repo.Repository
}

func NewReviewService(repos *repo.Repository) *ReviewService {
	return &ReviewService{repos: repos}
}

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// Create 校验次序固定：重复评价 → 购买资格 → 商品存在。
// 唯一索引兜底并发下的重复提交
func (s *ReviewService) Create(ctx context.Context, userID, productID uint64, in ReviewInput) (*domain.Review, error) {
	exists, err := s.repos.Reviews.ExistsByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ReviewAlreadyExists
	}

	eligible, err := s.repos.Orders.HasDeliveredItem(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, apperr.ReviewNotAllowed
	}

	p, err := s.repos.Products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ProductNotFound
	}

	rv := &domain.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.repos.Reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID uint64, offset, limit int) ([]domain.Review, int64, error) {
	p, err := s.repos.Products.FindByID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	if p == nil {
		return nil, 0, apperr.ProductNotFound
	}
	return s.repos.Reviews.ListByProduct(ctx, productID, offset, limit)
}
