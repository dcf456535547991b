package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"wineshop/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

// ProductFilter 六个可选过滤条件，nil 即不生效，全部 AND 组合
type ProductFilter struct {
	Name          string
	MinPrice      *float64
	MaxPrice      *float64
	MinAlcohol    *float64
	MaxAlcohol    *float64
	CategoryIDs   []uint64
	Offset, Limit int
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) CreateInBatches(ctx context.Context, ps []domain.Product, batchSize int) error {
	return r.db.WithContext(ctx).CreateInBatches(ps, batchSize).Error
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// ReplaceCategories 整体替换多对多关联
func (r *ProductRepo) ReplaceCategories(ctx context.Context, p *domain.Product, cs []domain.Category) error {
	return r.db.WithContext(ctx).Model(p).Association("Categories").Replace(cs)
}

// FindByID 含软删行，订单历史回溯要用
func (r *ProductRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Preload("Categories").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

// FindVisibleByID 只取在售商品
func (r *ProductRepo) FindVisibleByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	err := visible(r.db.WithContext(ctx)).Preload("Categories").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProductRepo) List(ctx context.Context, offset, limit int) ([]domain.Product, int64, error) {
	q := visible(r.db.WithContext(ctx).Model(&domain.Product{}))
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ps []domain.Product
	err := q.Preload("Categories").Order("created_at DESC").Offset(offset).Limit(limit).Find(&ps).Error
	return ps, total, err
}

// ListAll 导出用，不分页
func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	var ps []domain.Product
	err := visible(r.db.WithContext(ctx)).Preload("Categories").Order("id ASC").Find(&ps).Error
	return ps, err
}

func (r *ProductRepo) Search(ctx context.Context, f ProductFilter) ([]domain.Product, int64, error) {
	q := visible(r.db.WithContext(ctx).Model(&domain.Product{}))

	if s := strings.TrimSpace(f.Name); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinAlcohol != nil {
		q = q.Where("alcohol_percentage >= ?", *f.MinAlcohol)
	}
	if f.MaxAlcohol != nil {
		q = q.Where("alcohol_percentage <= ?", *f.MaxAlcohol)
	}
	if len(f.CategoryIDs) > 0 {
		q = q.Where("id IN (SELECT product_id FROM product_categories WHERE category_id IN ?)", f.CategoryIDs)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var ps []domain.Product
	err := q.Preload("Categories").Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&ps).Error
	return ps, total, err
}

func (r *ProductRepo) SoftDelete(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).
		Update("deleted_at", at).Error
}

func (r *ProductRepo) HardDelete(ctx context.Context, p *domain.Product) error {
	// 先摘掉多对多关联，再删行
	if err := r.db.WithContext(ctx).Model(p).Association("Categories").Clear(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(p).Error
}

// FindDeletedBefore 清理任务：软删超过期限的商品
func (r *ProductRepo) FindDeletedBefore(ctx context.Context, cutoff time.Time) ([]domain.Product, error) {
	var ps []domain.Product
	err := r.db.WithContext(ctx).Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).Find(&ps).Error
	return ps, err
}

// IncrementStock 取消订单回补库存
func (r *ProductRepo) IncrementStock(ctx context.Context, id uint64, qty int) error {
	return r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
}

// DecrementStock 条件扣减：库存足够才扣，影响行数 0 表示不足
func (r *ProductRepo) DecrementStock(ctx context.Context, id uint64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	return res.RowsAffected > 0, res.Error
}
