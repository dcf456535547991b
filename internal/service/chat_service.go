package service

import (
	"context"
	"strings"
	"time"

	"wineshop/internal/apperr"
	"wineshop/internal/domain"
	"wineshop/internal/repo"
)

// ChatService 用户与客服的单聊；会话按用户懒创建，消息只追加
type ChatService struct {
	repos *repo.Repository
}

func NewChatService(repos *repo.Repository) *ChatService {
	return &ChatService{repos: repos}
}

// SaveUserMessage 用户侧来信
func (s *ChatService) SaveUserMessage(ctx context.Context, userID uint64, content string) (*domain.Message, error) {
	return s.save(ctx, userID, domain.RoleUser, content)
}

// SaveAdminMessage 客服答复，寄往指定用户的会话
func (s *ChatService) SaveAdminMessage(ctx context.Context, userID uint64, content string) (*domain.Message, error) {
	return s.save(ctx, userID, domain.RoleAdmin, content)
}

func (s *ChatService) save(ctx context.Context, userID uint64, senderRole, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Uncategorized
	}
	conv, _, err := s.repos.Chats.FindOrCreateConversation(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := &domain.Message{
		ConversationID: conv.ID,
		SenderRole:     senderRole,
		Content:        content,
		SentAt:         time.Now(),
	}
	if err := s.repos.Chats.AppendMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// History 某用户会话的全部消息，时间正序；无会话视为空历史
func (s *ChatService) History(ctx context.Context, userID uint64) ([]domain.Message, error) {
	conv, _, err := s.repos.Chats.FindOrCreateConversation(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repos.Chats.HistoryByConversation(ctx, conv.ID)
}

// ListConversations 管理端会话列表
func (s *ChatService) ListConversations(ctx context.Context, offset, limit int) ([]domain.Conversation, int64, error) {
	return s.repos.Chats.ListConversations(ctx, offset, limit)
}
