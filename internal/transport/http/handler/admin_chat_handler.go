package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wineshop/internal/apperr"
	"wineshop/internal/notify"
	"wineshop/internal/service"
	resp "wineshop/internal/transport/http/response"
	"wineshop/internal/transport/ws"
)

// AdminChatHandler 客服侧：会话列表、按用户查历史、ws 答复。
// 顾客连接挂在另一个进程，答复经 broker 送达
type AdminChatHandler struct {
	chats  *service.ChatService
	hub    *ws.Hub
	broker *notify.Broker
	log    *zap.Logger
}

func NewAdminChatHandler(chats *service.ChatService, hub *ws.Hub, broker *notify.Broker, log *zap.Logger) *AdminChatHandler {
	return &AdminChatHandler{chats: chats, hub: hub, broker: broker, log: log}
}

// Conversations GET /chat/conversations
func (h *AdminChatHandler) Conversations(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	q.normalize()

	convs, total, err := h.chats.ListConversations(c.Request.Context(), q.offset(), q.Size)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(resp.NewPage(convs, total, q.Page, q.Size)))
}

// History GET /chat/users/:userId/history
func (h *AdminChatHandler) History(c *gin.Context) {
	uid := pathID(c, "userId")
	if uid == 0 {
		writeErr(c, apperr.UserNotExist)
		return
	}
	msgs, err := h.chats.History(c.Request.Context(), uid)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(msgs))
}

// WS GET /chat/ws 客服连接；来帧必须带 userId，答复落库并推给该用户
func (h *AdminChatHandler) WS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.hub.RegisterAdmin(conn)
	defer h.hub.UnregisterAdmin(conn)

	for {
		var frame chatFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		if frame.UserID == 0 {
			continue
		}
		m, err := h.chats.SaveAdminMessage(c.Request.Context(), frame.UserID, frame.Content)
		if err != nil {
			h.log.Warn("admin chat message rejected", zap.Uint64("target_user", frame.UserID), zap.Error(err))
			continue
		}
		out := chatFrame{
			UserID:  frame.UserID,
			Sender:  m.SenderRole,
			Content: m.Content,
			SentAt:  m.SentAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if e := h.broker.PublishToUser(c.Request.Context(), frame.UserID, out); e != nil {
			h.log.Warn("chat publish failed", zap.Uint64("target_user", frame.UserID), zap.Error(e))
		}
	}
}
