package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wineshop/internal/domain"
)

type ChatRepo struct{ db *gorm.DB }

// FindOrCreateConversation 返回用户会话，不存在则创建；created 表示本次新建
func (r *ChatRepo) FindOrCreateConversation(ctx context.Context, userID uint64) (*domain.Conversation, bool, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&conv).Error
	if err == nil {
		return &conv, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	conv = domain.Conversation{UserID: userID}
	if cerr := r.db.WithContext(ctx).Create(&conv).Error; cerr != nil {
		// 并发创建时唯一索引冲突，回查一次
		var again domain.Conversation
		if ferr := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&again).Error; ferr == nil {
			return &again, false, nil
		}
		return nil, false, cerr
	}
	return &conv, true, nil
}

func (r *ChatRepo) AppendMessage(ctx context.Context, m *domain.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// HistoryByConversation 按发送时间正序返回全部消息
func (r *ChatRepo) HistoryByConversation(ctx context.Context, convID uint64) ([]domain.Message, error) {
	var msgs []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("sent_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// ListConversations 管理端会话列表，按最近消息倒序可在服务层处理，这里按 id 倒序
func (r *ChatRepo) ListConversations(ctx context.Context, offset, limit int) ([]domain.Conversation, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Conversation{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var convs []domain.Conversation
	err := q.Order("id DESC").Offset(offset).Limit(limit).Find(&convs).Error
	return convs, total, err
}
