package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub 管理后台对账页的 WebSocket 连接。
// 同一个管理员可以有多个连接（多标签页、重连等场景）。
type Hub struct {
	clients map[int64]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	AdminID int64
	Conn    *websocket.Conn
	mu      sync.Mutex // 写锁，防止并发写入
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.AdminID] == nil {
		h.clients[client.AdminID] = make(map[*Client]struct{})
	}
	h.clients[client.AdminID][client] = struct{}{}

	log.Printf("Admin %d connected, conns: %d", client.AdminID, len(h.clients[client.AdminID]))
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[client.AdminID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.AdminID)
		}
	}
	log.Printf("Admin %d disconnected", client.AdminID)
}

// Broadcast 向所有在线管理员广播消息（新申报、核验结果都走这里）
func (h *Hub) Broadcast(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients := make([]*Client, 0)
	for _, conns := range h.clients {
		for c := range conns {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.mu.Lock()
		err := client.Conn.WriteMessage(websocket.TextMessage, data)
		client.mu.Unlock()
		if err != nil {
			log.Printf("Failed to send to admin %d: %v", client.AdminID, err)
		}
	}

	return nil
}

// Count 当前在线连接数
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
