package websocket

import (
	"encoding/json"
	"sync"

	"walletd/internal/prices"
)

type BalanceUpdate struct {
	CoinID  string `json:"coin_id"`
	Symbol  string `json:"symbol"`
	Balance string `json:"balance"`
}

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
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

func (h *Hub) BroadcastBalance(userID string, update BalanceUpdate) {
	h.broadcast(userID, envelope{Type: "balance", Data: update})
}

func (h *Hub) BroadcastAlert(userID string, update prices.AlertUpdate) {
	h.broadcast(userID, envelope{Type: "price_alert", Data: update})
}

func (h *Hub) broadcast(userID string, message envelope) {
	payload, _ := json.Marshal(message)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
