package domain

import "time"

// Category 与 Product 多对多；删除为软删，被在售商品引用时拒绝删除
type Category struct {
	ID          uint64     `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string     `gorm:"size:255" json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `gorm:"index" json:"-"`

	Products []Product `gorm:"many2many:product_categories" json:"-"`
}

func (Category) TableName() string { return "categories" }

// Product 软删用显式 deleted_at 列，默认列表/搜索统一走 deleted_at IS NULL 谓词；
// 已下单历史仍可按 id 取到软删商品
type Product struct {
	ID                uint64     `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"size:100;not null" json:"name"`
	Description       string     `gorm:"size:1000" json:"description"`
	ImageURL          string     `gorm:"size:255" json:"imageUrl"`
	Price             float64    `gorm:"not null" json:"price"`
	Origin            string     `gorm:"size:100" json:"origin"`
	Volume            int        `gorm:"not null" json:"volume"`        // 毫升，>= 50
	StockQuantity     int        `gorm:"not null" json:"stockQuantity"` // >= 0
	AlcoholPercentage float64    `gorm:"not null" json:"alcoholPercentage"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	DeletedAt         *time.Time `gorm:"index" json:"-"`

	Categories []Category `gorm:"many2many:product_categories" json:"categories,omitempty"`
}

func (Product) TableName() string { return "products" }
