package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusDelivering OrderStatus = "DELIVERING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRejected   OrderStatus = "REJECTED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusDelivering, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// Order 下单后除 status / reject_reason 外不可变
type Order struct {
	ID            uint64      `gorm:"primaryKey" json:"id"`
	UserID        uint64      `gorm:"index;not null" json:"userId"`
	TotalAmount   float64     `gorm:"not null" json:"totalAmount"`
	RecipientName string      `gorm:"size:100" json:"recipientName"`
	Address       string      `gorm:"size:255" json:"address"`
	PhoneNumber   string      `gorm:"size:20" json:"phoneNumber"`
	RejectReason  string      `gorm:"size:255" json:"rejectReason,omitempty"`
	Status        OrderStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 下单时刻的快照，单价与后续商品调价脱钩
type OrderItem struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	OrderID   uint64  `gorm:"index;not null" json:"-"`
	ProductID uint64  `gorm:"index;not null" json:"productId"`
	Product   Product `json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unitPrice"`
}

func (OrderItem) TableName() string { return "order_items" }
