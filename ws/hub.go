package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub giữ các kết nối websocket theo từng userID
type Hub struct {
	UserClients map[string]map[*websocket.Conn]*Client
	Mutex       sync.RWMutex
}

var H = Hub{
	UserClients: make(map[string]map[*websocket.Conn]*Client),
}

// Struct gửi badge số thông báo chưa đọc
type BadgeUpdate struct {
	Type        string `json:"type"`
	UnreadCount int64  `json:"unread_count"`
}

// RegisterUser đăng ký một kết nối cho user
func (h *Hub) RegisterUser(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.UserClients[userID]; !ok {
		h.UserClients[userID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.UserClients[userID][conn] = client

	// Vòng đọc do handler sở hữu; hub chỉ chạy vòng ghi
	go h.writePump(userID, conn)
}

// UnregisterUser gỡ một kết nối của user
func (h *Hub) UnregisterUser(userID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.UserClients[userID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.UserClients, userID)
		}
	}
}

// BroadcastToUser gửi message tới mọi kết nối của một user
func (h *Hub) BroadcastToUser(userID string, messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.UserClients[userID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// GetStats trả thống kê kết nối cho health check
func (h *Hub) GetStats() map[string]interface{} {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	total := 0
	for _, clients := range h.UserClients {
		total += len(clients)
	}
	return map[string]interface{}{
		"connected_users": len(h.UserClients),
		"connections":     total,
	}
}

// SendBadgeUpdate đẩy số thông báo chưa đọc cho user
func SendBadgeUpdate(userID string, unreadCount int64) {
	update := BadgeUpdate{
		Type:        "badge_update",
		UnreadCount: unreadCount,
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.BroadcastToUser(userID, websocket.TextMessage, data)
}

func (h *Hub) writePump(userID string, conn *websocket.Conn) {
	h.Mutex.RLock()
	client := h.UserClients[userID][conn]
	h.Mutex.RUnlock()
	if client == nil {
		return
	}
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
