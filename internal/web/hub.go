package web

import (
	"sync"

	"github.com/codefionn/yardcalc/internal/logger"
)

// Hub tracks the open WebSocket clients so they can be closed on shutdown
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	closed  bool
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
	}
}

// Register adds a client. It reports false once the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[client] = true
	logger.Debug("Client registered: %s", client.ID)
	return true
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		logger.Debug("Client unregistered: %s", client.ID)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop refuses new clients and closes every open connection. Each client's
// read pump then unregisters it.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for client := range h.clients {
		client.conn.Close()
	}
}
