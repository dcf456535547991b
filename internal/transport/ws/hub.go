package ws

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub 在线连接登记簿：用户连接按 userID 索引，管理端连接进一个桶。
// 发送持写锁串行化，gorilla 的 Conn 不允许并发写
type Hub struct {
	mu     sync.RWMutex
	users  map[uint64]map[*websocket.Conn]bool
	admins map[*websocket.Conn]bool
	log    *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		users:  make(map[uint64]map[*websocket.Conn]bool),
		admins: make(map[*websocket.Conn]bool),
		log:    log,
	}
}

func (h *Hub) RegisterUser(userID uint64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[*websocket.Conn]bool)
	}
	h.users[userID][conn] = true
}

func (h *Hub) UnregisterUser(userID uint64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns := h.users[userID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.users, userID)
		}
	}
}

func (h *Hub) RegisterAdmin(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.admins[conn] = true
}

func (h *Hub) UnregisterAdmin(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.admins, conn)
}

// SendRawToUser 推给某用户的全部在线连接；掉线连接只记日志不摘除，
// 读循环退出时会统一注销
func (h *Hub) SendRawToUser(userID uint64, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.users[userID] {
		if e := conn.WriteMessage(websocket.TextMessage, data); e != nil {
			h.log.Debug("ws write failed", zap.Uint64("user_id", userID), zap.Error(e))
		}
	}
}

// SendRawToAdmins 广播给全部在线客服
func (h *Hub) SendRawToAdmins(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.admins {
		if e := conn.WriteMessage(websocket.TextMessage, data); e != nil {
			h.log.Debug("ws write failed", zap.Error(e))
		}
	}
}
