package relay

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/chat-relay/domain/relay"
	"github.com/go-monolith/mono"
)

// Request-reply service names exposed on the relay's ServiceContainer.
const (
	ServiceListChannels   = "list-channels"
	ServiceOnlineUsers    = "online-users"
	ServiceChannelHistory = "channel-history"
)

// ListChannelsRequest is the request for the list-channels service.
type ListChannelsRequest struct{}

// ListChannelsResponse is the response for the list-channels service.
type ListChannelsResponse struct {
	Channels []string `json:"channels"`
}

// OnlineUsersRequest is the request for the online-users service.
type OnlineUsersRequest struct {
	Excluding string `json:"excluding,omitempty"`
}

// OnlineUsersResponse is the response for the online-users service.
type OnlineUsersResponse struct {
	Users []string `json:"users"`
}

// ChannelHistoryRequest is the request for the channel-history service.
type ChannelHistoryRequest struct {
	Channel string `json:"channel"`
	Limit   int    `json:"limit,omitempty"`
}

// ChannelHistoryResponse is the response for the channel-history service.
type ChannelHistoryResponse struct {
	Channel  string           `json:"channel"`
	Messages []domain.Message `json:"messages"`
}

// RegisterServices registers the relay's read-only request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := container.RegisterRequestReplyService(ServiceListChannels, m.handleListChannels); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListChannels, err)
	}
	if err := container.RegisterRequestReplyService(ServiceOnlineUsers, m.handleOnlineUsers); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceOnlineUsers, err)
	}
	if err := container.RegisterRequestReplyService(ServiceChannelHistory, m.handleChannelHistory); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceChannelHistory, err)
	}
	m.logger.Info("registered relay services",
		"services", []string{ServiceListChannels, ServiceOnlineUsers, ServiceChannelHistory})
	return nil
}

func (m *Module) handleListChannels(_ context.Context, _ *mono.Msg) ([]byte, error) {
	return json.Marshal(ListChannelsResponse{Channels: m.hub.Channels()})
}

func (m *Module) handleOnlineUsers(_ context.Context, msg *mono.Msg) ([]byte, error) {
	var req OnlineUsersRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return nil, fmt.Errorf("invalid request: %w", err)
		}
	}
	return json.Marshal(OnlineUsersResponse{Users: m.hub.OnlineNicknames(req.Excluding)})
}

func (m *Module) handleChannelHistory(_ context.Context, msg *mono.Msg) ([]byte, error) {
	var req ChannelHistoryRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.Channel == "" {
		return nil, fmt.Errorf("channel is required")
	}
	messages := m.hub.History(req.Channel, req.Limit)
	return json.Marshal(ChannelHistoryResponse{Channel: req.Channel, Messages: messages})
}
