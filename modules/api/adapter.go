package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/chat-relay/modules/relay"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// RelayPort is the read-only view of the relay consumed by the REST
// handlers.
type RelayPort interface {
	Channels(ctx context.Context) ([]string, error)
	OnlineUsers(ctx context.Context) ([]string, error)
	History(ctx context.Context, channel string, limit int) (*relay.ChannelHistoryResponse, error)
}

// RelayAdapter implements RelayPort over the relay's ServiceContainer.
type RelayAdapter struct {
	container mono.ServiceContainer
}

// NewRelayAdapter creates a new RelayAdapter.
func NewRelayAdapter(container mono.ServiceContainer) RelayPort {
	if container == nil {
		panic("api: ServiceContainer is nil")
	}
	return &RelayAdapter{container: container}
}

// Channels returns all channel names in creation order.
func (a *RelayAdapter) Channels(ctx context.Context) ([]string, error) {
	req := relay.ListChannelsRequest{}
	var resp relay.ListChannelsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		relay.ServiceListChannels,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return resp.Channels, nil
}

// OnlineUsers returns all distinct online nicknames.
func (a *RelayAdapter) OnlineUsers(ctx context.Context) ([]string, error) {
	req := relay.OnlineUsersRequest{}
	var resp relay.OnlineUsersResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		relay.ServiceOnlineUsers,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to list online users: %w", err)
	}
	return resp.Users, nil
}

// History returns the last limit messages of a channel.
func (a *RelayAdapter) History(ctx context.Context, channel string, limit int) (*relay.ChannelHistoryResponse, error) {
	req := relay.ChannelHistoryRequest{Channel: channel, Limit: limit}
	var resp relay.ChannelHistoryResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		relay.ServiceChannelHistory,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("failed to get channel history: %w", err)
	}
	return &resp, nil
}
