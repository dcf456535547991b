package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wineshop/internal/domain"
)

type CartRepo struct{ db *gorm.DB }

// FindOrCreateByUserID 懒创建，第二返回值表示本次是否新建
func (r *CartRepo) FindOrCreateByUserID(ctx context.Context, userID uint64) (*domain.Cart, bool, error) {
	cart, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if cart != nil {
		return cart, false, nil
	}

	cart = &domain.Cart{UserID: userID}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		// 并发兜底：唯一冲突说明别的请求刚建好，再查一次
		if existing, e2 := r.FindByUserID(ctx, userID); e2 == nil && existing != nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	return cart, true, nil
}

func (r *CartRepo) FindByUserID(ctx context.Context, userID uint64) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.id ASC") }).
		Preload("Items.Product").
		First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *CartRepo) FindItem(ctx context.Context, cartID, productID uint64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.db.WithContext(ctx).First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *CartRepo) AddItem(ctx context.Context, item *domain.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// IncrementItemQuantity 单条 UPDATE 完成读改写，并发加购不丢更新
func (r *CartRepo) IncrementItemQuantity(ctx context.Context, itemID uint64, delta int) error {
	return r.db.WithContext(ctx).Model(&domain.CartItem{}).Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *CartRepo) SetItemQuantity(ctx context.Context, itemID uint64, qty int) error {
	return r.db.WithContext(ctx).Model(&domain.CartItem{}).Where("id = ?", itemID).
		Update("quantity", qty).Error
}

func (r *CartRepo) RemoveItem(ctx context.Context, cartID, productID uint64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&domain.CartItem{}, "cart_id = ? AND product_id = ?", cartID, productID)
	return res.RowsAffected > 0, res.Error
}

func (r *CartRepo) ClearItems(ctx context.Context, cartID uint64) error {
	return r.db.WithContext(ctx).Delete(&domain.CartItem{}, "cart_id = ?", cartID).Error
}

// RemoveItemsByProductIDs 清理任务：把指定商品从所有购物车里摘掉
func (r *CartRepo) RemoveItemsByProductIDs(ctx context.Context, productIDs []uint64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.CartItem{}, "product_id IN ?", productIDs)
	return res.RowsAffected, res.Error
}
