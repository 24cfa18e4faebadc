package broadcast

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Frame is the wire envelope for every outbound WebSocket message.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// FrameWriter is the subset of a WebSocket connection the hub needs.
// *websocket.Conn satisfies it.
type FrameWriter interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one registered connection on the write side.
type Client struct {
	ID   string
	Conn FrameWriter

	writeMu sync.Mutex
}

// write serializes writes to the underlying connection; frames arrive both
// from the reader goroutine (direct replies) and from event consumers.
func (c *Client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks connected clients by connection ID and writes frames to one,
// many, or all of them. It carries no chat semantics: targets are resolved
// by the relay before a frame reaches the hub.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *slog.Logger
}

// NewHub creates an empty connection hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  slog.Default().With("module", "broadcast"),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Info("client registered", "connID", client.ID)
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[connID]; ok {
		delete(h.clients, connID)
		h.logger.Info("client unregistered", "connID", connID)
	}
}

// SendTo writes an event frame to a single connection. An unknown
// connection ID is a silent drop: the recipient may have disconnected
// between routing and delivery.
func (h *Hub) SendTo(connID, event string, data any) {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		h.logger.Debug("dropping frame for unknown connection", "connID", connID, "event", event)
		return
	}
	h.deliver(client, event, data)
}

// SendToMany writes an event frame to each of the given connections.
func (h *Hub) SendToMany(connIDs []string, event string, data any) {
	for _, id := range connIDs {
		h.SendTo(id, event, data)
	}
}

// SendToAll writes an event frame to every registered connection.
func (h *Hub) SendToAll(event string, data any) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.deliver(client, event, data)
	}
}

func (h *Hub) deliver(client *Client, event string, data any) {
	payload, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal frame", "event", event, "error", err)
		return
	}
	if err := client.write(payload); err != nil {
		h.logger.Warn("failed to write frame", "connID", client.ID, "event", event, "error", err)
	}
}

// CloseAll closes every registered connection and empties the hub.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.clients {
		_ = client.Conn.Close()
	}
	h.clients = make(map[string]*Client)
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
