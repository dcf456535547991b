package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"wineshop/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&cnt).Error
	return cnt > 0, err
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

type VerificationTokenRepo struct{ db *gorm.DB }

func (r *VerificationTokenRepo) Create(ctx context.Context, t *domain.VerificationToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *VerificationTokenRepo) FindByToken(ctx context.Context, token string) (*domain.VerificationToken, error) {
	var t domain.VerificationToken
	err := r.db.WithContext(ctx).Preload("User").First(&t, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *VerificationTokenRepo) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.VerificationToken{}, "id = ?", id).Error
}

// FindExpired 清理任务用：拉取已过期令牌（带所属用户）
func (r *VerificationTokenRepo) FindExpired(ctx context.Context, now time.Time) ([]domain.VerificationToken, error) {
	var tokens []domain.VerificationToken
	err := r.db.WithContext(ctx).Preload("User").Where("expiry_date < ?", now).Find(&tokens).Error
	return tokens, err
}
