package domain

import "time"

// Review 每个 (user, product) 至多一条，且要求存在已送达订单
type Review struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex:uk_user_product;not null" json:"userId"`
	ProductID uint64    `gorm:"uniqueIndex:uk_user_product;not null" json:"productId"`
	Rating    int       `gorm:"not null" json:"rating"` // 1..5
	Comment   string    `gorm:"size:1000" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Review) TableName() string { return "reviews" }
