package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wineshop/internal/apperr"
	"wineshop/internal/core/cache"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
)

const (
	productCacheTTL = 5 * time.Minute
	productCacheKey = "product:%d"
)

// ProductService 商品目录；单品读路径走缓存，写路径同步失效
type ProductService struct {
	repos *repo.Repository
	cache *cache.Cache
}

func NewProductService(repos *repo.Repository, c *cache.Cache) *ProductService {
	return &ProductService{repos: repos, cache: c}
}

type ProductInput struct {
	Name              string   `json:"name" binding:"required,max=100"`
	Description       string   `json:"description" binding:"max=1000"`
	ImageURL          string   `json:"imageUrl" binding:"max=255"`
	Price             float64  `json:"price" binding:"required,gt=0"`
	Origin            string   `json:"origin" binding:"max=100"`
	Volume            int      `json:"volume" binding:"required,gte=50"`
	StockQuantity     int      `json:"stockQuantity" binding:"gte=0"`
	AlcoholPercentage float64  `json:"alcoholPercentage" binding:"gte=0,lte=100"`
	CategoryIDs       []uint64 `json:"categoryIds"`
}

// resolveCategories 批量定位分类，缺失的 id 单独带回，由调用方定错误口径
func (s *ProductService) resolveCategories(ctx context.Context, ids []uint64) ([]domain.Category, []string, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	cs, err := s.repos.Categories.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	var missing []string
	if len(cs) != len(ids) {
		found := make(map[uint64]bool, len(cs))
		for _, c := range cs {
			found[c.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, fmt.Sprintf("%d", id))
			}
		}
	}
	return cs, missing, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	cs, missing, err := s.resolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, apperr.CategoryNotFound
	}
	p := &domain.Product{
		Name:              in.Name,
		Description:       in.Description,
		ImageURL:          in.ImageURL,
		Price:             in.Price,
		Origin:            in.Origin,
		Volume:            in.Volume,
		StockQuantity:     in.StockQuantity,
		AlcoholPercentage: in.AlcoholPercentage,
		Categories:        cs,
	}
	if err := s.repos.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id uint64, in ProductInput) (*domain.Product, error) {
	p, err := s.repos.Products.FindVisibleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ProductNotFound
	}
	cs, missing, err := s.resolveCategories(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}
	// 更新口带具体缺失 id，方便前端标出哪些分类选不中
	if len(missing) > 0 {
		return nil, apperr.CategorySomeNotFound.WithArgs(strings.Join(missing, ", "))
	}

	p.Name = in.Name
	p.Description = in.Description
	p.ImageURL = in.ImageURL
	p.Price = in.Price
	p.Origin = in.Origin
	p.Volume = in.Volume
	p.StockQuantity = in.StockQuantity
	p.AlcoholPercentage = in.AlcoholPercentage
	if err := s.repos.Products.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repos.Products.ReplaceCategories(ctx, p, cs); err != nil {
		return nil, err
	}
	p.Categories = cs
	s.invalidate(ctx, id)
	return p, nil
}

// Get 单品详情，缓存 + single flight 合并回源；未配缓存直接落库
func (s *ProductService) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	var (
		p   *domain.Product
		err error
	)
	if s.cache != nil {
		p, err = cache.GetOrLoadJSON(s.cache, ctx, fmt.Sprintf(productCacheKey, id), productCacheTTL,
			func(ctx context.Context) (*domain.Product, error) {
				return s.repos.Products.FindVisibleByID(ctx, id)
			})
	} else {
		p, err = s.repos.Products.FindVisibleByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ProductNotFound
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, offset, limit int) ([]domain.Product, int64, error) {
	return s.repos.Products.List(ctx, offset, limit)
}

func (s *ProductService) Search(ctx context.Context, f repo.ProductFilter) ([]domain.Product, int64, error) {
	return s.repos.Products.Search(ctx, f)
}

// Delete 软删，重复软删幂等处理成功；历史订单仍按 id 可见该商品
func (s *ProductService) Delete(ctx context.Context, id uint64) error {
	p, err := s.repos.Products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.ProductNotFound
	}
	if p.DeletedAt != nil {
		return nil // 已软删，幂等
	}
	if err := s.repos.Products.SoftDelete(ctx, id, time.Now()); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Purge 永久删除；存在订单行引用则拒绝
func (s *ProductService) Purge(ctx context.Context, id uint64) error {
	p, err := s.repos.Products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return apperr.ProductNotFound
	}
	inUse, err := s.repos.Orders.ExistsItemByProduct(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.ProductInUse
	}
	if err := s.repos.Products.HardDelete(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id uint64) {
	if s.cache != nil {
		s.cache.Del(ctx, fmt.Sprintf(productCacheKey, id))
	}
}
