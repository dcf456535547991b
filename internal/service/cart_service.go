package service

import (
	"context"
	"time"

	"wineshop/internal/apperr"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
)

// CartService 购物车；同商品合并靠单条 UPDATE 自增，并发加购不丢数量
type CartService struct {
	repos *repo.Repository
}

func NewCartService(repos *repo.Repository) *CartService {
	return &CartService{repos: repos}
}

// CartView 读侧快照：总额现算 = Σ 单价×数量；
// 条目带在售标记，商品下架后留在车里但不可结算
type CartView struct {
	ID          uint64         `json:"id"`
	UserID      uint64         `json:"userId"`
	Items       []CartItemView `json:"items"`
	TotalAmount float64        `json:"totalAmount"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type CartItemView struct {
	ID        uint64         `json:"id"`
	ProductID uint64         `json:"productId"`
	Product   domain.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	Available bool           `json:"isAvailable"`
}

func newCartView(cart *domain.Cart) *CartView {
	v := &CartView{
		ID:        cart.ID,
		UserID:    cart.UserID,
		UpdatedAt: cart.UpdatedAt,
		Items:     []CartItemView{},
	}
	for _, it := range cart.Items {
		v.Items = append(v.Items, CartItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Product:   it.Product,
			Quantity:  it.Quantity,
			Available: it.Product.DeletedAt == nil,
		})
		v.TotalAmount += it.Product.Price * float64(it.Quantity)
	}
	return v
}

func (s *CartService) snapshot(ctx context.Context, userID uint64) (*CartView, error) {
	cart, err := s.repos.Carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.CartNotFound
	}
	return newCartView(cart), nil
}

// Get 首次访问懒创建空车
func (s *CartService) Get(ctx context.Context, userID uint64) (*CartView, error) {
	cart, _, err := s.repos.Carts.FindOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newCartView(cart), nil
}

// CartItemInput quantity 不挂 required，更新接口用 0 表示移除
type CartItemInput struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddItem 已在车内则数量累加，不在则新增；只接受在售商品
func (s *CartService) AddItem(ctx context.Context, userID uint64, in CartItemInput) (*CartView, error) {
	if in.Quantity <= 0 {
		return nil, apperr.ProductInvalid.WithArgs("quantity must be positive")
	}
	p, err := s.repos.Products.FindVisibleByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.ProductNotFound
	}

	cart, _, err := s.repos.Carts.FindOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.repos.Carts.FindItem(ctx, cart.ID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		if e := s.repos.Carts.IncrementItemQuantity(ctx, item.ID, in.Quantity); e != nil {
			return nil, e
		}
	} else {
		e := s.repos.Carts.AddItem(ctx, &domain.CartItem{
			CartID:    cart.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
		})
		if e != nil {
			return nil, e
		}
	}
	return s.snapshot(ctx, userID)
}

// UpdateItem 数量整写覆盖；<=0 等价删除；不在车内且数量为正则按新增处理
func (s *CartService) UpdateItem(ctx context.Context, userID uint64, in CartItemInput) (*CartView, error) {
	cart, err := s.repos.Carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.CartNotFound
	}

	item, err := s.repos.Carts.FindItem(ctx, cart.ID, in.ProductID)
	if err != nil {
		return nil, err
	}

	switch {
	case item == nil && in.Quantity <= 0:
		// 无事可做
	case item == nil:
		return s.AddItem(ctx, userID, in)
	case in.Quantity <= 0:
		if _, e := s.repos.Carts.RemoveItem(ctx, cart.ID, in.ProductID); e != nil {
			return nil, e
		}
	default:
		if e := s.repos.Carts.SetItemQuantity(ctx, item.ID, in.Quantity); e != nil {
			return nil, e
		}
	}
	return s.snapshot(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint64) (*CartView, error) {
	cart, err := s.repos.Carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.CartNotFound
	}
	removed, err := s.repos.Carts.RemoveItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, apperr.ProductNotInCart
	}
	return s.snapshot(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uint64) error {
	cart, err := s.repos.Carts.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return apperr.CartNotFound
	}
	return s.repos.Carts.ClearItems(ctx, cart.ID)
}
