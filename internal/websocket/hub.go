package websocket

import (
	"encoding/json"
	"sync"
)

// BookBalance is pushed to a user's subscribers after an entry mutation commits.
type BookBalance struct {
	Event    string `json:"event"`
	BookID   string `json:"book_id"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) Unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		return
	}
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// Subscribers reports how many connections the user currently has open.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// BroadcastBalance fans update out to every connection of userID. Slow
// connections whose buffer is full miss the update rather than block the caller.
func (h *Hub) BroadcastBalance(userID string, update BookBalance) {
	if update.Event == "" {
		update.Event = "book.balance"
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
