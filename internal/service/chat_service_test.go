package service_test

import (
	"context"
	"testing"

	"wineshop/internal/domain"
	"wineshop/internal/service"
)

func TestChatConversationFlow(t *testing.T) {
	r := newTestRepos(t)
	chats := service.NewChatService(r)
	ctx := context.Background()

	u := mustCreateUser(t, r, "guest")

	// 首条消息懒创建会话
	m1, err := chats.SaveUserMessage(ctx, u.ID, "Is the Barolo in stock?")
	if err != nil {
		t.Fatalf("user message: %v", err)
	}
	if m1.SenderRole != domain.RoleUser {
		t.Fatalf("expected USER sender, got %s", m1.SenderRole)
	}

	m2, err := chats.SaveAdminMessage(ctx, u.ID, "Yes, 12 bottles left.")
	if err != nil {
		t.Fatalf("admin message: %v", err)
	}
	if m2.SenderRole != domain.RoleAdmin {
		t.Fatalf("expected ADMIN sender, got %s", m2.SenderRole)
	}

	// 两条消息同一会话，时间正序
	history, err := chats.History(ctx, u.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Content != "Is the Barolo in stock?" {
		t.Fatalf("unexpected order: %q first", history[0].Content)
	}

	// 空白消息拒绝
	if _, err := chats.SaveUserMessage(ctx, u.ID, "   "); err == nil {
		t.Fatal("expected error for blank message")
	}

	convs, total, err := chats.ListConversations(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list conversations: %v", err)
	}
	if total != 1 || convs[0].UserID != u.ID {
		t.Fatalf("expected one conversation for user %d, got %d", u.ID, total)
	}
}
