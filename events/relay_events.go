package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// MessageBroadcastEvent is emitted when a channel message has been accepted
// and routed. Targets holds the connection IDs that must receive a
// receive-message frame.
type MessageBroadcastEvent struct {
	Channel   string    `json:"channel"`
	Targets   []string  `json:"targets"`
	User      string    `json:"user"`
	Msg       string    `json:"msg"`
	Timestamp time.Time `json:"timestamp"`
}

// PrivateMessageEvent is emitted when a direct message has been resolved to
// exactly one recipient connection.
type PrivateMessageEvent struct {
	Target    string    `json:"target"`
	User      string    `json:"user"`
	Msg       string    `json:"msg"`
	Timestamp time.Time `json:"timestamp"`
}

// ChannelCreatedEvent is emitted when create-channel actually creates a new
// channel. Channels carries the full updated list for the update-channels
// broadcast to all connections.
type ChannelCreatedEvent struct {
	Name      string    `json:"name"`
	Channels  []string  `json:"channels"`
	Timestamp time.Time `json:"timestamp"`
}

// Event definitions for the relay domain.
var (
	MessageBroadcastV1 = helper.EventDefinition[MessageBroadcastEvent](
		"relay",
		"MessageBroadcast",
		"v1",
	)

	PrivateMessageV1 = helper.EventDefinition[PrivateMessageEvent](
		"relay",
		"PrivateMessage",
		"v1",
	)

	ChannelCreatedV1 = helper.EventDefinition[ChannelCreatedEvent](
		"relay",
		"ChannelCreated",
		"v1",
	)
)
