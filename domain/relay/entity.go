package relay

// Session is the server-side state for one live connection.
type Session struct {
	ConnectionID string `json:"connection_id"`
	Nickname     string `json:"nickname,omitempty"`
	Channel      string `json:"channel,omitempty"`
}

// Identified reports whether the session has registered a nickname.
func (s *Session) Identified() bool {
	return s.Nickname != ""
}

// Message is one broadcast message. The JSON shape is the wire shape
// replayed to clients in chat-history frames.
type Message struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
	Msg     string `json:"msg"`
	Seq     uint64 `json:"-"`
}
