package service

import (
	"context"
	"time"

	"wineshop/internal/apperr"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
)

type CategoryService struct {
	repos *repo.Repository
}

func NewCategoryService(repos *repo.Repository) *CategoryService {
	return &CategoryService{repos: repos}
}

type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=255"`
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	c := &domain.Category{Name: in.Name, Description: in.Description}
	if err := s.repos.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint64, in CategoryInput) (*domain.Category, error) {
	c, err := s.repos.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.CategoryNotFound
	}
	c.Name = in.Name
	c.Description = in.Description
	if err := s.repos.Categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint64) (*domain.Category, error) {
	c, err := s.repos.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.CategoryNotFound
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, offset, limit int) ([]domain.Category, int64, error) {
	return s.repos.Categories.List(ctx, offset, limit)
}

// Delete 软删；仍被在售商品引用则拒绝
func (s *CategoryService) Delete(ctx context.Context, id uint64) error {
	c, err := s.repos.Categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.CategoryNotFound
	}
	n, err := s.repos.Categories.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.CategoryInUse
	}
	return s.repos.Categories.SoftDelete(ctx, id, time.Now())
}
