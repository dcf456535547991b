package domain

import "time"

// Cart 每用户一辆，首次访问懒创建
type Cart struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

func (Cart) TableName() string { return "carts" }

// CartItem 同一购物车内同一商品至多一条（唯一索引兜底）
type CartItem struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	CartID    uint64  `gorm:"uniqueIndex:uk_cart_product;not null" json:"-"`
	ProductID uint64  `gorm:"uniqueIndex:uk_cart_product;not null" json:"productId"`
	Product   Product `json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"` // 恒 > 0，改成 0 即删行
}

func (CartItem) TableName() string { return "cart_items" }
