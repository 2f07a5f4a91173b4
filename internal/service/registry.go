package service

import "sync"

// Registry 是行程內的連線登記表，依房間索引
// 斷線時的在場判斷查這裡，不依賴 websocket 函式庫內部的連線集合
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Client // roomCode -> connID -> client
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[string]*Client),
	}
}

// Add 將已加入房間的連線登記進來，重複登記同一條連線為 no-op
func (r *Registry) Add(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[client.RoomCode] == nil {
		r.rooms[client.RoomCode] = make(map[string]*Client)
	}
	r.rooms[client.RoomCode][client.ID] = client
}

// Remove 將連線移出登記表，房間空了就刪掉房間
func (r *Registry) Remove(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if clients, ok := r.rooms[client.RoomCode]; ok {
		delete(clients, client.ID)
		if len(clients) == 0 {
			delete(r.rooms, client.RoomCode)
		}
	}
}

// RoomClients 回傳指定房間目前登記的所有連線
func (r *Registry) RoomClients(roomCode string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.rooms[roomCode]))
	for _, client := range r.rooms[roomCode] {
		clients = append(clients, client)
	}
	return clients
}

// StillPresent 判斷使用者在房間裡是否還有其他活著的連線
// exceptConnID 是正在斷線的那條連線，斷線回呼期間它可能仍在登記表裡，必須排除
func (r *Registry) StillPresent(roomCode, userID, exceptConnID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for connID, client := range r.rooms[roomCode] {
		if connID == exceptConnID {
			continue
		}
		if client.UserID == userID {
			return true
		}
	}
	return false
}

// RoomCount 回傳指定房間目前的連線數
func (r *Registry) RoomCount(roomCode string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[roomCode])
}
