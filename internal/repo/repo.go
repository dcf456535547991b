package repo

import (
	"context"

	"gorm.io/gorm"

	"wineshop/internal/domain"
)

// Repository 聚合全部仓储；Transaction 会发一套绑定到同一事务的副本
type Repository struct {
	DB          *gorm.DB
	Users       *UserRepo
	Tokens      *VerificationTokenRepo
	Categories  *CategoryRepo
	Products    *ProductRepo
	Carts       *CartRepo
	Orders      *OrderRepo
	Reviews     *ReviewRepo
	Chats       *ChatRepo
	ImportTasks *ImportTaskRepo
}

func New(db *gorm.DB) *Repository {
	return &Repository{
		DB:          db,
		Users:       &UserRepo{db: db},
		Tokens:      &VerificationTokenRepo{db: db},
		Categories:  &CategoryRepo{db: db},
		Products:    &ProductRepo{db: db},
		Carts:       &CartRepo{db: db},
		Orders:      &OrderRepo{db: db},
		Reviews:     &ReviewRepo{db: db},
		Chats:       &ChatRepo{db: db},
		ImportTasks: &ImportTaskRepo{db: db},
	}
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.VerificationToken{},
		&domain.Category{},
		&domain.Product{},
		&domain.Cart{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Review{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.ImportTask{},
	)
}

// visible 软删谓词统一出口，deleted_at IS NULL 即默认可见
func visible(db *gorm.DB) *gorm.DB { return db.Where("deleted_at IS NULL") }
