package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"wineshop/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uint64) (*domain.Category, error) {
	var c domain.Category
	err := visible(r.db.WithContext(ctx)).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

// FindByIDs 只取未软删的分类，调用方比对数量判缺失
func (r *CategoryRepo) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Category, error) {
	var cs []domain.Category
	err := visible(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&cs).Error
	return cs, err
}

func (r *CategoryRepo) FindByNames(ctx context.Context, names []string) ([]domain.Category, error) {
	var cs []domain.Category
	err := visible(r.db.WithContext(ctx)).Where("name IN ?", names).Find(&cs).Error
	return cs, err
}

func (r *CategoryRepo) List(ctx context.Context, offset, limit int) ([]domain.Category, int64, error) {
	q := visible(r.db.WithContext(ctx).Model(&domain.Category{}))
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var cs []domain.Category
	err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&cs).Error
	return cs, total, err
}

// CountProducts 在售商品引用数，删除前检查 CATEGORY_IN_USE 用
func (r *CategoryRepo) CountProducts(ctx context.Context, id uint64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Table("product_categories").
		Joins("JOIN products ON products.id = product_categories.product_id AND products.deleted_at IS NULL").
		Where("product_categories.category_id = ?", id).
		Count(&cnt).Error
	return cnt, err
}

func (r *CategoryRepo) SoftDelete(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).
		Update("deleted_at", at).Error
}
