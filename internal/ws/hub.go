package ws

import (
	"log/slog"
	"sync"

	"github.com/beatguessr/beatguessr-go/internal/model"
)

// Hub tracks live websocket clients by connection identity. Room
// membership is not mirrored here: recipients are always derived from room
// state at send time, so the hub cannot drift from the game.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ConnectionID]*Client
	logger  *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnectionID]*Client),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		slog.String("conn_id", string(client.id)),
		slog.Int("total_clients", count))
}

// Unregister removes a client and closes its send queue
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client disconnected",
		slog.String("conn_id", string(client.id)),
		slog.Int("total_clients", count))
}

// SendTo queues an event for one connection. Messages to unknown or
// saturated connections are dropped; a slow client must never stall a room.
func (h *Hub) SendTo(conn model.ConnectionID, event model.EventType, data any) {
	h.mu.RLock()
	client, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.send <- ServerMessage{Event: event, Data: data}:
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.String("conn_id", string(conn)),
			slog.String("event", string(event)))
	}
}

// SendToAll queues an event for each of the given connections
func (h *Hub) SendToAll(conns []model.ConnectionID, event model.EventType, data any) {
	for _, conn := range conns {
		h.SendTo(conn, event, data)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
