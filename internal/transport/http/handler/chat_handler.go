package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wineshop/internal/notify"
	"wineshop/internal/service"
	mdw "wineshop/internal/transport/http/middleware"
	resp "wineshop/internal/transport/http/response"
	"wineshop/internal/transport/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// chatFrame ws 双向都用这一种帧
type chatFrame struct {
	UserID  uint64 `json:"userId,omitempty"` // 管理端消息要带目标用户
	Sender  string `json:"sender"`
	Content string `json:"content"`
	SentAt  string `json:"sentAt,omitempty"`
}

// ChatHandler 顾客侧在线客服；客服在另一个进程，来信经 broker 转发
type ChatHandler struct {
	chats  *service.ChatService
	hub    *ws.Hub
	broker *notify.Broker
	log    *zap.Logger
}

func NewChatHandler(chats *service.ChatService, hub *ws.Hub, broker *notify.Broker, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, hub: hub, broker: broker, log: log}
}

// History GET /chat/history 当前用户会话全量消息
func (h *ChatHandler) History(c *gin.Context) {
	msgs, err := h.chats.History(c.Request.Context(), mdw.UserID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.OK(msgs))
}

// WS GET /chat/ws 升级后进读循环：来信落库并转发给在线客服
func (h *ChatHandler) WS(c *gin.Context) {
	userID := mdw.UserID(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.hub.RegisterUser(userID, conn)
	defer h.hub.UnregisterUser(userID, conn)

	for {
		var frame chatFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		m, err := h.chats.SaveUserMessage(c.Request.Context(), userID, frame.Content)
		if err != nil {
			h.log.Warn("chat message rejected", zap.Uint64("user_id", userID), zap.Error(err))
			continue
		}
		frame = chatFrame{
			UserID:  userID,
			Sender:  m.SenderRole,
			Content: m.Content,
			SentAt:  m.SentAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if e := h.broker.PublishToAdmins(c.Request.Context(), frame); e != nil {
			h.log.Warn("chat publish failed", zap.Uint64("user_id", userID), zap.Error(e))
		}
	}
}
