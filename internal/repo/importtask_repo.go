package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wineshop/internal/domain"
)

type ImportTaskRepo struct{ db *gorm.DB }

func (r *ImportTaskRepo) Create(ctx context.Context, t *domain.ImportTask) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ImportTaskRepo) Update(ctx context.Context, t *domain.ImportTask) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *ImportTaskRepo) FindByID(ctx context.Context, id uint64) (*domain.ImportTask, error) {
	var t domain.ImportTask
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ImportTaskRepo) List(ctx context.Context, offset, limit int) ([]domain.ImportTask, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.ImportTask{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ts []domain.ImportTask
	err := q.Order("started_at DESC").Offset(offset).Limit(limit).Find(&ts).Error
	return ts, total, err
}
