package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"wineshop/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepo) Update(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OrderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Product").
		First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &o, err
}

// ListByUser 按创建时间倒序分页
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64, offset, limit int) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var os []domain.Order
	err := q.Preload("Items").Preload("Items.Product").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&os).Error
	return os, total, err
}

// List 管理端列表，status 为空则不过滤
func (r *OrderRepo) List(ctx context.Context, status domain.OrderStatus, offset, limit int) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var os []domain.Order
	err := q.Preload("Items").Preload("Items.Product").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&os).Error
	return os, total, err
}

// ExistsItemByProduct 商品是否被任一订单行引用（永久删除前检查）
func (r *OrderRepo) ExistsItemByProduct(ctx context.Context, productID uint64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.OrderItem{}).
		Where("product_id = ?", productID).Count(&cnt).Error
	return cnt > 0, err
}

// HasDeliveredItem 该用户是否有已送达订单包含该商品（评价资格）
func (r *OrderRepo) HasDeliveredItem(ctx context.Context, userID, productID uint64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id = ? AND orders.user_id = ? AND orders.status = ?",
			productID, userID, domain.OrderStatusDelivered).
		Count(&cnt).Error
	return cnt > 0, err
}

// MonthlyStats 逐月聚合：单量、取消/拒绝/送达数、送达营收
type MonthlyStats struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	TotalOrders     int64   `json:"totalOrders"`
	CancelledOrders int64   `json:"cancelledOrders"`
	RejectedOrders  int64   `json:"rejectedOrders"`
	CompletedOrders int64   `json:"completedOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// MonthlyStatistics 年月提取各方言写法不一，改为取轻量行在内存折叠
func (r *OrderRepo) MonthlyStatistics(ctx context.Context) ([]MonthlyStats, error) {
	var rows []struct {
		CreatedAt   time.Time
		Status      domain.OrderStatus
		TotalAmount float64
	}
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Select("created_at, status, total_amount").Order("created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var stats []MonthlyStats
	idx := map[[2]int]int{}
	for _, row := range rows {
		key := [2]int{row.CreatedAt.Year(), int(row.CreatedAt.Month())}
		i, ok := idx[key]
		if !ok {
			i = len(stats)
			idx[key] = i
			stats = append(stats, MonthlyStats{Year: key[0], Month: key[1]})
		}
		stats[i].TotalOrders++
		switch row.Status {
		case domain.OrderStatusCancelled:
			stats[i].CancelledOrders++
		case domain.OrderStatusRejected:
			stats[i].RejectedOrders++
		case domain.OrderStatusDelivered:
			stats[i].CompletedOrders++
			stats[i].TotalRevenue += row.TotalAmount
		}
	}
	return stats, nil
}
