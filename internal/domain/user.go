package domain

import "time"

const (
	RoleUser    = "USER"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

type User struct {
	ID       uint64     `gorm:"primaryKey" json:"id"`
	Username string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password string     `gorm:"size:100;not null" json:"-"` // bcrypt hash
	FullName string     `gorm:"size:100" json:"fullName"`
	Email    string     `gorm:"size:191" json:"email"`
	Phone    string     `gorm:"size:20" json:"phone"`
	Address  string     `gorm:"size:255" json:"address"`
	Birthday *time.Time `json:"birthday,omitempty"`
	Role     string     `gorm:"size:16;not null;default:USER" json:"role"`

	// 注册后默认未激活，邮件激活令牌兑换后置 true
	IsActive bool `gorm:"not null;default:false" json:"isActive"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// VerificationToken 一次性激活令牌，与用户一对一
type VerificationToken struct {
	ID         uint64    `gorm:"primaryKey"`
	Token      string    `gorm:"uniqueIndex;size:64;not null"`
	UserID     uint64    `gorm:"uniqueIndex;not null"`
	User       User      `gorm:"constraint:OnDelete:CASCADE"`
	ExpiryDate time.Time `gorm:"not null"`
}

func (VerificationToken) TableName() string { return "verification_tokens" }
