package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wineshop/internal/repo"
)

// CleanupService 周期性清理：过期未激活账号、软删商品的购物车残留
type CleanupService struct {
	repos    *repo.Repository
	keepDays int // 软删商品保留天数
	log      *zap.Logger
}

func NewCleanupService(repos *repo.Repository, keepDays int, log *zap.Logger) *CleanupService {
	if keepDays <= 0 {
		keepDays = 30
	}
	return &CleanupService{repos: repos, keepDays: keepDays, log: log}
}

// CleanupExpiredAccounts 激活令牌过期仍未激活的账号连同令牌一起删
func (s *CleanupService) CleanupExpiredAccounts(ctx context.Context) error {
	tokens, err := s.repos.Tokens.FindExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	removed := 0
	for _, t := range tokens {
		t := t
		err := s.repos.Transaction(ctx, func(tx *repo.Repository) error {
			if e := tx.Tokens.Delete(ctx, t.ID); e != nil {
				return e
			}
			if !t.User.IsActive {
				if e := tx.Users.Delete(ctx, t.UserID); e != nil {
					return e
				}
				removed++
			}
			return nil
		})
		if err != nil {
			s.log.Error("expired account cleanup failed",
				zap.Uint64("user_id", t.UserID), zap.Error(err))
		}
	}
	if len(tokens) > 0 {
		s.log.Info("expired accounts cleaned",
			zap.Int("tokens", len(tokens)), zap.Int("accounts_removed", removed))
	}
	return nil
}

// CleanupStaleCartItems 软删超过保留期的商品踢出所有购物车
func (s *CleanupService) CleanupStaleCartItems(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -s.keepDays)
	products, err := s.repos.Products.FindDeletedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	n, err := s.repos.Carts.RemoveItemsByProductIDs(ctx, ids)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info("stale cart items cleaned",
			zap.Int("products", len(ids)), zap.Int64("items_removed", n))
	}
	return nil
}
