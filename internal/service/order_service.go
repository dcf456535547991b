package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wineshop/internal/apperr"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
)

// OrderNotification 状态推送载荷，发往下单用户的实时通道
type OrderNotification struct {
	OrderID     uint64             `json:"orderId"`
	Status      domain.OrderStatus `json:"status"`
	TotalAmount float64            `json:"totalAmount"`
	Message     string             `json:"message"`
}

// OrderNotifier 推送出口，ws hub 实现；nil 安全由服务层保证
type OrderNotifier interface {
	NotifyUser(userID uint64, n OrderNotification)
}

// OrderService 下单 / 取消 / 状态流转
type OrderService struct {
	repos    *repo.Repository
	notifier OrderNotifier
	log      *zap.Logger
}

func NewOrderService(repos *repo.Repository, notifier OrderNotifier, log *zap.Logger) *OrderService {
	return &OrderService{repos: repos, notifier: notifier, log: log}
}

type PlaceOrderInput struct {
	RecipientName string `json:"recipientName" binding:"required,max=100"`
	Address       string `json:"address" binding:"required,max=255"`
	PhoneNumber   string `json:"phoneNumber" binding:"required,max=20"`
}

// Place 整单一个事务：逐品校验在售 + 条件扣库存，单价取下单时刻快照，
// 任一商品失败整体回滚，成功后清空购物车
func (s *OrderService) Place(ctx context.Context, userID uint64, in PlaceOrderInput) (*domain.Order, error) {
	cart, err := s.repos.Carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.CartNotFound
	}
	if len(cart.Items) == 0 {
		return nil, apperr.CartEmpty
	}

	var order *domain.Order
	err = s.repos.Transaction(ctx, func(tx *repo.Repository) error {
		o := &domain.Order{
			UserID:        userID,
			RecipientName: in.RecipientName,
			Address:       in.Address,
			PhoneNumber:   in.PhoneNumber,
			Status:        domain.OrderStatusPending,
		}

		for _, it := range cart.Items {
			p, e := tx.Products.FindVisibleByID(ctx, it.ProductID)
			if e != nil {
				return e
			}
			if p == nil {
				return apperr.ProductNotFound
			}
			ok, e := tx.Products.DecrementStock(ctx, p.ID, it.Quantity)
			if e != nil {
				return e
			}
			if !ok {
				return apperr.ProductOutOfStock.WithArgs(p.Name)
			}
			o.Items = append(o.Items, domain.OrderItem{
				ProductID: p.ID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
			})
			o.TotalAmount += p.Price * float64(it.Quantity)
		}

		if e := tx.Orders.Create(ctx, o); e != nil {
			return e
		}
		if e := tx.Carts.ClearItems(ctx, cart.ID); e != nil {
			return e
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Orders.FindByID(ctx, order.ID)
}

// Cancel 仅限本人 + PENDING；取消同时回补库存。
// 订单存在但不归本人算越权，不混进 not found
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uint64) (*domain.Order, error) {
	o, err := s.repos.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.OrderNotFound
	}
	if o.UserID != userID {
		return nil, apperr.Unauthorized
	}
	if o.Status != domain.OrderStatusPending {
		return nil, apperr.OrderCannotBeCancelled
	}

	err = s.repos.Transaction(ctx, func(tx *repo.Repository) error {
		for _, it := range o.Items {
			if e := tx.Products.IncrementStock(ctx, it.ProductID, it.Quantity); e != nil {
				return e
			}
		}
		o.Status = domain.OrderStatusCancelled
		return tx.Orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

type UpdateStatusInput struct {
	Status       domain.OrderStatus `json:"status" binding:"required"`
	RejectReason string             `json:"rejectReason"`
}

// UpdateStatus 管理端流转；REJECTED 必须附原因，其余状态清空原因；
// 进入 DELIVERING 时向下单用户推送通知
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint64, in UpdateStatusInput) (*domain.Order, error) {
	if !in.Status.Valid() {
		return nil, apperr.OrderStatusInvalid
	}
	o, err := s.repos.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.OrderNotFound
	}

	if in.Status == domain.OrderStatusRejected {
		if strings.TrimSpace(in.RejectReason) == "" {
			return nil, apperr.OrderRejectReasonNeeded
		}
		o.RejectReason = in.RejectReason
	} else {
		o.RejectReason = ""
	}
	o.Status = in.Status

	if err := s.repos.Orders.Update(ctx, o); err != nil {
		return nil, err
	}

	if in.Status == domain.OrderStatusDelivering && s.notifier != nil {
		s.notifier.NotifyUser(o.UserID, OrderNotification{
			OrderID:     o.ID,
			Status:      o.Status,
			TotalAmount: o.TotalAmount,
			Message:     fmt.Sprintf("Your order #%d is on its way!", o.ID),
		})
	}
	return o, nil
}

// GetForUser 只许看自己的订单；他人订单返回越权而非 not found
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID uint64) (*domain.Order, error) {
	o, err := s.repos.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.OrderNotFound
	}
	if o.UserID != userID {
		return nil, apperr.Unauthorized
	}
	return o, nil
}

func (s *OrderService) HistoryForUser(ctx context.Context, userID uint64, offset, limit int) ([]domain.Order, int64, error) {
	return s.repos.Orders.ListByUser(ctx, userID, offset, limit)
}

// AdminList 全量列表，可按状态过滤
func (s *OrderService) AdminList(ctx context.Context, status domain.OrderStatus, offset, limit int) ([]domain.Order, int64, error) {
	return s.repos.Orders.List(ctx, status, offset, limit)
}

func (s *OrderService) AdminGet(ctx context.Context, orderID uint64) (*domain.Order, error) {
	o, err := s.repos.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.OrderNotFound
	}
	return o, nil
}

// MonthlyStatistics 营收报表
func (s *OrderService) MonthlyStatistics(ctx context.Context) ([]repo.MonthlyStats, error) {
	return s.repos.Orders.MonthlyStatistics(ctx)
}
