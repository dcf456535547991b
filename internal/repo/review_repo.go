package repo

import (
	"context"

	"gorm.io/gorm"

	"wineshop/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *ReviewRepo) ExistsByUserAndProduct(ctx context.Context, userID, productID uint64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).Count(&cnt).Error
	return cnt > 0, err
}

func (r *ReviewRepo) ListByProduct(ctx context.Context, productID uint64, offset, limit int) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Review{}).Where("product_id = ?", productID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rvs []domain.Review
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rvs).Error
	return rvs, total, err
}
