package ws

import (
	"sync"

	"estate_backend/internal/logger"
)

// WebSocketManager учитывает подключенных клиентов. Сами события приходят
// из realtime.Broker, менеджер только регистрирует соединения и закрывает их при остановке.
type WebSocketManager struct {
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (manager *WebSocketManager) register(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	set, ok := manager.clients[client.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		manager.clients[client.UserID] = set
	}
	set[client] = struct{}{}
	logger.Debug("WebSocket client registered", "user_id", client.UserID, "connections", len(set))
}

func (manager *WebSocketManager) unregister(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	set, ok := manager.clients[client.UserID]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(manager.clients, client.UserID)
	}
	logger.Debug("WebSocket client unregistered", "user_id", client.UserID)
}

// GetClientCount возвращает количество подключенных соединений
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()

	total := 0
	for _, set := range manager.clients {
		total += len(set)
	}
	return total
}

// IsClientConnected проверяет, подключен ли пользователь
func (manager *WebSocketManager) IsClientConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, exists := manager.clients[userID]
	return exists
}

// CloseAll закрывает все соединения (graceful shutdown)
func (manager *WebSocketManager) CloseAll() {
	manager.mu.RLock()
	clients := make([]*Client, 0)
	for _, set := range manager.clients {
		for c := range set {
			clients = append(clients, c)
		}
	}
	manager.mu.RUnlock()

	for _, c := range clients {
		c.close()
	}
}
