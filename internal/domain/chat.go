package domain

import "time"

// Conversation 每用户一条会话，首条消息时懒创建
type Conversation struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"uniqueIndex;not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	Messages []Message `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Conversation) TableName() string { return "conversations" }

// Message 只追加，不修改
type Message struct {
	ID             uint64    `gorm:"primaryKey" json:"id"`
	ConversationID uint64    `gorm:"index;not null" json:"-"`
	SenderRole     string    `gorm:"size:16;not null" json:"sender"` // USER / ADMIN
	Content        string    `gorm:"size:2000;not null" json:"content"`
	SentAt         time.Time `gorm:"not null" json:"sentAt"`
}

func (Message) TableName() string { return "messages" }
