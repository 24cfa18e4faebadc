package relay

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/example/chat-relay/domain/relay"
	"github.com/example/chat-relay/events"
	"github.com/go-monolith/mono"
)

// Module wraps the relay hub as a mono module. It owns the hub goroutine's
// lifecycle, publishes routing results on the EventBus for the broadcast
// module, and exposes read-only request-reply services for the REST surface.
type Module struct {
	hub       *Hub
	eventBus  mono.EventBus
	logger    *slog.Logger
	cancelHub context.CancelFunc
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new relay module.
func NewModule() *Module {
	logger := slog.Default().With("module", "relay")
	return &Module{
		hub:    NewHub(logger),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "relay"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.MessageBroadcastV1.ToBase(),
		events.PrivateMessageV1.ToBase(),
		events.ChannelCreatedV1.ToBase(),
	}
}

// Start launches the hub goroutine and waits until its loop is serving
// operations, so anything dispatched after Start returns is handled.
func (m *Module) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)
	<-m.hub.started
	m.logger.Info("relay module started")
	return nil
}

// Stop shuts down the hub goroutine.
func (m *Module) Stop(_ context.Context) error {
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
	}
	m.logger.Info("relay module stopped")
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"sessions": m.hub.SessionCount(),
			"channels": len(m.hub.Channels()),
		},
	}
}

// Hub returns the relay hub for the transport module to dispatch into.
func (m *Module) Hub() *Hub {
	return m.hub
}

// Connect registers a new connection.
func (m *Module) Connect(connID string) {
	m.hub.Connect(connID)
}

// Disconnect destroys the connection's session and channel membership.
func (m *Module) Disconnect(connID string) {
	m.hub.Disconnect(connID)
}

// SetNickname sets or overwrites a connection's nickname.
func (m *Module) SetNickname(connID, nickname string) error {
	return m.hub.SetNickname(connID, nickname)
}

// OnlineUsers returns distinct online nicknames, excluding the caller's.
func (m *Module) OnlineUsers(connID string) []string {
	return m.hub.OnlineUsers(connID)
}

// Channels returns all channel names in creation order.
func (m *Module) Channels() []string {
	return m.hub.Channels()
}

// CreateChannel creates a channel and, when a channel was actually created,
// publishes a ChannelCreated event so every connection gets the updated
// channel list.
func (m *Module) CreateChannel(name string) (bool, error) {
	created, channels, err := m.hub.CreateChannel(name)
	if err != nil {
		return false, err
	}
	if created {
		m.publishChannelCreated(name, channels)
	}
	return created, nil
}

// JoinChannel joins a connection to a channel and returns the history to
// replay. A join that implicitly creates the channel also announces the
// updated channel list.
func (m *Module) JoinChannel(connID, name string) ([]domain.Message, error) {
	history, created, channels, err := m.hub.JoinChannel(connID, name)
	if err != nil {
		return nil, err
	}
	if created {
		m.publishChannelCreated(name, channels)
	}
	return history, nil
}

// SendMessage routes a channel message and publishes the delivery for the
// broadcast module to fan out.
func (m *Module) SendMessage(connID, channel, body string) error {
	delivery, err := m.hub.SendMessage(connID, channel, body)
	if err != nil {
		return err
	}
	if m.eventBus != nil {
		event := events.MessageBroadcastEvent{
			Channel:   delivery.Channel,
			Targets:   delivery.Targets,
			User:      delivery.User,
			Msg:       delivery.Msg,
			Timestamp: time.Now(),
		}
		if err := events.MessageBroadcastV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("failed to publish MessageBroadcast event", "error", err)
		}
	}
	return nil
}

// SendPrivate routes a direct message and publishes the delivery for the
// broadcast module. If the recipient disconnects between resolution and
// delivery the message is silently dropped.
func (m *Module) SendPrivate(connID, recipient, body string) error {
	delivery, err := m.hub.SendPrivate(connID, recipient, body)
	if err != nil {
		return err
	}
	if m.eventBus != nil {
		event := events.PrivateMessageEvent{
			Target:    delivery.Targets[0],
			User:      delivery.User,
			Msg:       delivery.Msg,
			Timestamp: time.Now(),
		}
		if err := events.PrivateMessageV1.Publish(m.eventBus, event, nil); err != nil {
			m.logger.Warn("failed to publish PrivateMessage event", "error", err)
		}
	}
	return nil
}

// History returns the last limit messages for a channel.
func (m *Module) History(channel string, limit int) []domain.Message {
	return m.hub.History(channel, limit)
}

func (m *Module) publishChannelCreated(name string, channels []string) {
	if m.eventBus == nil {
		return
	}
	event := events.ChannelCreatedEvent{
		Name:      name,
		Channels:  channels,
		Timestamp: time.Now(),
	}
	if err := events.ChannelCreatedV1.Publish(m.eventBus, event, nil); err != nil {
		m.logger.Warn("failed to publish ChannelCreated event", "error", err)
	}
}
