package broadcast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/chat-relay/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Outbound wire event names. These are the contract the visual client
// depends on and must be preserved exactly.
const (
	EventUpdateUsers           = "update-users"
	EventUpdateChannels        = "update-channels"
	EventChatHistory           = "chat-history"
	EventReceiveMessage        = "receive-message"
	EventReceivePrivateMessage = "receive-private-message"
	EventError                 = "error"
)

// MessagePayload is the data of receive-message and receive-private-message
// frames.
type MessagePayload struct {
	User string `json:"user"`
	Msg  string `json:"msg"`
}

// Module consumes the relay's routing events and writes the corresponding
// wire frames to the target connections.
type Module struct {
	hub    *Hub
	logger *slog.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new broadcast module.
func NewModule() *Module {
	return &Module{
		hub:    NewHub(),
		logger: slog.Default().With("module", "broadcast"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "broadcast"
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("broadcast module started")
	return nil
}

// Stop closes every open connection.
func (m *Module) Stop(_ context.Context) error {
	count := m.hub.ClientCount()
	m.hub.CloseAll()
	m.logger.Info("broadcast module stopped", "closedClients", count)
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// RegisterEventConsumers subscribes to the relay's routing events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.MessageBroadcastV1, m.handleMessageBroadcast, m,
	); err != nil {
		return fmt.Errorf("failed to register MessageBroadcast consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.PrivateMessageV1, m.handlePrivateMessage, m,
	); err != nil {
		return fmt.Errorf("failed to register PrivateMessage consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.ChannelCreatedV1, m.handleChannelCreated, m,
	); err != nil {
		return fmt.Errorf("failed to register ChannelCreated consumer: %w", err)
	}

	m.logger.Info("registered event consumers",
		"events", []string{"MessageBroadcast", "PrivateMessage", "ChannelCreated"})
	return nil
}

func (m *Module) handleMessageBroadcast(_ context.Context, event events.MessageBroadcastEvent, _ *mono.Msg) error {
	m.hub.SendToMany(event.Targets, EventReceiveMessage, MessagePayload{
		User: event.User,
		Msg:  event.Msg,
	})
	return nil
}

func (m *Module) handlePrivateMessage(_ context.Context, event events.PrivateMessageEvent, _ *mono.Msg) error {
	m.hub.SendTo(event.Target, EventReceivePrivateMessage, MessagePayload{
		User: event.User,
		Msg:  event.Msg,
	})
	return nil
}

func (m *Module) handleChannelCreated(_ context.Context, event events.ChannelCreatedEvent, _ *mono.Msg) error {
	m.hub.SendToAll(EventUpdateChannels, event.Channels)
	return nil
}

// GetHub returns the connection hub for the API module to use.
func (m *Module) GetHub() *Hub {
	return m.hub
}
