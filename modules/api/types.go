package api

import "encoding/json"

// Inbound wire event names.
const (
	EventSetNickname    = "set-nickname"
	EventGetUsers       = "get-users"
	EventGetChannels    = "get-channels"
	EventCreateChannel  = "create-channel"
	EventJoinChannel    = "join-channel"
	EventSendMessage    = "send-message"
	EventPrivateMessage = "private-message"
)

// InboundFrame is the envelope of every message a client sends.
type InboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NicknamePayload is the data of a set-nickname frame.
type NicknamePayload struct {
	Nickname string `json:"nickname"`
}

// ChannelPayload is the data of create-channel and join-channel frames.
type ChannelPayload struct {
	Name string `json:"name"`
}

// SendMessagePayload is the data of a send-message frame.
type SendMessagePayload struct {
	Channel string `json:"channel"`
	Msg     string `json:"msg"`
}

// PrivateMessagePayload is the data of a private-message frame.
type PrivateMessagePayload struct {
	Recipient string `json:"recipient"`
	Msg       string `json:"msg"`
}

// ErrorPayload is the data of an error frame.
type ErrorPayload struct {
	Error string `json:"error"`
}

// ChannelListResponse is the REST response for listing channels.
type ChannelListResponse struct {
	Channels []string `json:"channels"`
}

// UserListResponse is the REST response for listing online users.
type UserListResponse struct {
	Users []string `json:"users"`
}

// MessageResponse is the REST view of one broadcast message.
type MessageResponse struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
	Msg     string `json:"msg"`
}

// HistoryResponse is the REST response for channel history.
type HistoryResponse struct {
	Channel  string            `json:"channel"`
	Messages []MessageResponse `json:"messages"`
}

// ErrorResponse is the REST error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the REST health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
