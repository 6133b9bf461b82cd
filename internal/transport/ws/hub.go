package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tgilmour/broadside/internal/model"
)

const sendBufferSize = 16

// Hub tracks live clients keyed by connection id and delivers directed
// push events. It implements the coordinator's push.Sender: sends are
// fire-and-forget and a slow client's events are dropped rather than
// blocking game operations.
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

// Add registers a client with the hub
func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		slog.String("connection_id", string(client.id)),
		slog.Int("total_clients", count))
}

// Remove drops a client and closes its send channel. Idempotent.
func (h *Hub) Remove(id model.ConnectionID) {
	h.mu.Lock()
	client, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("client disconnected",
			slog.String("connection_id", string(id)),
			slog.Int("total_clients", count))
	}
}

// Send delivers a push event to one connection. Unknown connections
// and full client buffers are logged and otherwise ignored.
func (h *Hub) Send(ctx context.Context, to model.ConnectionID, event model.Event) {
	frame := encodeEvent(event)
	if frame == nil {
		h.logger.Warn("unencodable event", slog.String("event", string(event.Type)))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[to]
	if !ok {
		h.logger.Warn("push to unknown connection",
			slog.String("connection_id", string(to)),
			slog.String("event", string(event.Type)))
		return
	}

	if !client.enqueue(frame) {
		h.logger.Warn("push dropped - client buffer full",
			slog.String("connection_id", string(to)),
			slog.String("event", string(event.Type)))
	}
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
