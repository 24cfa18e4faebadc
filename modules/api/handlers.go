package api

import (
	"encoding/json"
	"strconv"

	"github.com/example/chat-relay/modules/broadcast"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultHistoryLimit = 0 // full history unless the client asks for less

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes() {
	m.app.Get("/health", m.healthHandler)

	// WebSocket upgrade middleware
	m.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	m.app.Get("/ws", websocket.New(m.handleWebSocket))

	// Read-only REST views
	api := m.app.Group("/api/v1")
	api.Get("/channels", m.listChannels)
	api.Get("/channels/:name/history", m.getHistory)
	api.Get("/users", m.listUsers)
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.ClientCount(),
		},
	})
}

// listChannels handles GET /api/v1/channels.
func (m *Module) listChannels(c *fiber.Ctx) error {
	channels, err := m.relayAdapter.Channels(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list channels",
		})
	}
	return c.JSON(ChannelListResponse{Channels: channels})
}

// listUsers handles GET /api/v1/users.
func (m *Module) listUsers(c *fiber.Ctx) error {
	users, err := m.relayAdapter.OnlineUsers(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list online users",
		})
	}
	return c.JSON(UserListResponse{Users: users})
}

// getHistory handles GET /api/v1/channels/:name/history.
func (m *Module) getHistory(c *fiber.Ctx) error {
	channel := c.Params("name")
	limit := defaultHistoryLimit
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	history, err := m.relayAdapter.History(c.UserContext(), channel, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "history_failed",
			Message: "Failed to get channel history",
		})
	}

	response := HistoryResponse{
		Channel:  history.Channel,
		Messages: make([]MessageResponse, 0, len(history.Messages)),
	}
	for _, msg := range history.Messages {
		response.Messages = append(response.Messages, MessageResponse{
			Channel: msg.Channel,
			User:    msg.User,
			Msg:     msg.Msg,
		})
	}
	return c.JSON(response)
}

// handleWebSocket handles WebSocket connections at /ws. The connection ID is
// generated here and stays the transport identity for the connection's
// lifetime; clients address each other by nickname only.
func (m *Module) handleWebSocket(c *websocket.Conn) {
	connID := uuid.New().String()

	client := &broadcast.Client{ID: connID, Conn: c}
	m.hub.Register(client)
	m.relayModule.Connect(connID)

	defer func() {
		m.relayModule.Disconnect(connID)
		m.hub.Unregister(connID)
		m.logger.Info("websocket disconnected", "connID", connID)
	}()

	m.logger.Info("websocket connected", "connID", connID)

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Warn("websocket read error", "connID", connID, "error", err)
			}
			break
		}

		var frame InboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			m.sendError(connID, "invalid frame format")
			continue
		}

		m.dispatchFrame(connID, frame)
	}
}

// dispatchFrame maps an inbound event to the relay operation that serves it.
// Failures are reported only to the originating connection.
func (m *Module) dispatchFrame(connID string, frame InboundFrame) {
	switch frame.Event {
	case EventSetNickname:
		m.handleSetNickname(connID, frame.Data)
	case EventGetUsers:
		m.hub.SendTo(connID, broadcast.EventUpdateUsers, m.relayModule.OnlineUsers(connID))
	case EventGetChannels:
		m.hub.SendTo(connID, broadcast.EventUpdateChannels, m.relayModule.Channels())
	case EventCreateChannel:
		m.handleCreateChannel(connID, frame.Data)
	case EventJoinChannel:
		m.handleJoinChannel(connID, frame.Data)
	case EventSendMessage:
		m.handleSendMessage(connID, frame.Data)
	case EventPrivateMessage:
		m.handlePrivateMessage(connID, frame.Data)
	default:
		m.sendError(connID, "unknown event: "+frame.Event)
	}
}

func (m *Module) handleSetNickname(connID string, data json.RawMessage) {
	var payload NicknamePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, "invalid set-nickname payload")
		return
	}
	if err := m.relayModule.SetNickname(connID, payload.Nickname); err != nil {
		m.sendError(connID, err.Error())
	}
}

func (m *Module) handleCreateChannel(connID string, data json.RawMessage) {
	var payload ChannelPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, "invalid create-channel payload")
		return
	}
	// The update-channels broadcast to all connections is driven by the
	// ChannelCreated event; nothing to emit here on the idempotent path.
	if _, err := m.relayModule.CreateChannel(payload.Name); err != nil {
		m.sendError(connID, err.Error())
	}
}

func (m *Module) handleJoinChannel(connID string, data json.RawMessage) {
	var payload ChannelPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, "invalid join-channel payload")
		return
	}
	history, err := m.relayModule.JoinChannel(connID, payload.Name)
	if err != nil {
		m.sendError(connID, err.Error())
		return
	}
	m.hub.SendTo(connID, broadcast.EventChatHistory, history)
}

func (m *Module) handleSendMessage(connID string, data json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, "invalid send-message payload")
		return
	}
	if err := m.relayModule.SendMessage(connID, payload.Channel, payload.Msg); err != nil {
		m.sendError(connID, err.Error())
	}
}

func (m *Module) handlePrivateMessage(connID string, data json.RawMessage) {
	var payload PrivateMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		m.sendError(connID, "invalid private-message payload")
		return
	}
	if err := m.relayModule.SendPrivate(connID, payload.Recipient, payload.Msg); err != nil {
		m.sendError(connID, err.Error())
	}
}

func (m *Module) sendError(connID, message string) {
	m.hub.SendTo(connID, broadcast.EventError, ErrorPayload{Error: message})
}
