package relay

import (
	"context"
	"log/slog"

	domain "github.com/example/chat-relay/domain/relay"
)

// Delivery describes where an accepted message must go. Targets are
// connection IDs; delivery itself is the broadcast module's job.
type Delivery struct {
	Channel string
	Targets []string
	User    string
	Msg     string
}

// Hub is the single serialization point for all relay state. One goroutine
// owns the session registry, the channel table and the message log; every
// operation is queued into that goroutine and runs to completion before the
// next one starts. This removes races on membership sets and fixes the
// total message order without fine-grained locking.
type Hub struct {
	ops     chan func()
	started chan struct{}
	done    chan struct{}
	logger  *slog.Logger

	sessions *sessionRegistry
	channels *channelTable
	log      *messageLog
}

// NewHub creates a hub with empty registries. Run must be called before any
// operation is dispatched.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		ops:      make(chan func()),
		started:  make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger,
		sessions: newSessionRegistry(),
		channels: newChannelTable(),
		log:      newMessageLog(),
	}
}

// Run executes queued operations until ctx is cancelled. Operations already
// started run to completion; operations dispatched before Run or after
// shutdown are dropped and return zero values.
func (h *Hub) Run(ctx context.Context) {
	close(h.started)
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("relay hub stopping",
				"sessions", h.sessions.count(),
				"channels", len(h.channels.order),
				"messages", h.log.size())
			return
		case op := <-h.ops:
			op()
		}
	}
}

// Wait blocks until the hub loop has stopped.
func (h *Hub) Wait() {
	<-h.done
}

// dispatch runs fn inside the hub loop and blocks until it has completed.
// Before Run there is no loop to service the queue, so the operation is
// dropped instead of blocking forever.
func (h *Hub) dispatch(fn func()) {
	select {
	case <-h.started:
	default:
		return
	}
	executed := make(chan struct{})
	wrapped := func() {
		fn()
		close(executed)
	}
	select {
	case h.ops <- wrapped:
		select {
		case <-executed:
		case <-h.done:
		}
	case <-h.done:
	}
}

// Connect creates a session for a new connection.
func (h *Hub) Connect(connID string) {
	h.dispatch(func() {
		h.sessions.connect(connID)
		h.logger.Info("connection established", "connID", connID)
	})
}

// Disconnect destroys the session and evicts the connection from its
// channel, if any.
func (h *Hub) Disconnect(connID string) {
	h.dispatch(func() {
		s, ok := h.sessions.disconnect(connID)
		if !ok {
			return
		}
		if s.Channel != "" {
			h.channels.remove(s.Channel, connID)
		}
		h.logger.Info("connection closed", "connID", connID, "nickname", s.Nickname)
	})
}

// SetNickname sets or overwrites the session's nickname, making it
// discoverable through presence and addressable for private messages.
func (h *Hub) SetNickname(connID, nickname string) error {
	var err error
	h.dispatch(func() {
		err = h.sessions.setNickname(connID, nickname)
		if err == nil {
			h.logger.Info("nickname set", "connID", connID, "nickname", nickname)
		}
	})
	return err
}

// Session returns a snapshot of the session for a connection.
func (h *Hub) Session(connID string) (domain.Session, error) {
	var (
		snapshot domain.Session
		err      error
	)
	h.dispatch(func() {
		s, ok := h.sessions.session(connID)
		if !ok {
			err = ErrSessionNotFound
			return
		}
		snapshot = *s
	})
	return snapshot, err
}

// OnlineUsers returns the distinct nicknames currently online, excluding the
// caller's own nickname so a client never sees itself in its presence list.
func (h *Hub) OnlineUsers(connID string) []string {
	var names []string
	h.dispatch(func() {
		excluding := ""
		if s, ok := h.sessions.session(connID); ok {
			excluding = s.Nickname
		}
		names = h.sessions.onlineNicknames(excluding)
	})
	return names
}

// OnlineNicknames returns distinct online nicknames with excluding removed.
func (h *Hub) OnlineNicknames(excluding string) []string {
	var names []string
	h.dispatch(func() {
		names = h.sessions.onlineNicknames(excluding)
	})
	return names
}

// Channels returns all channel names in creation order.
func (h *Hub) Channels() []string {
	var names []string
	h.dispatch(func() {
		names = h.channels.list()
	})
	return names
}

// CreateChannel creates a channel if the name is unknown. It is idempotent:
// creating an existing channel reports created=false and changes nothing.
// On creation the updated channel list is returned for the update-channels
// broadcast.
func (h *Hub) CreateChannel(name string) (created bool, channels []string, err error) {
	if err := ValidateChannelName(name); err != nil {
		return false, nil, err
	}
	h.dispatch(func() {
		created = h.channels.create(name)
		if created {
			channels = h.channels.list()
			h.logger.Info("channel created", "channel", name)
		}
	})
	return created, channels, err
}

// JoinChannel joins a connection to a channel with join-or-create semantics
// and strict single-channel membership: the previous channel, if any, is
// left first. It returns the channel's full history in arrival order, plus
// whether the channel was created by this join.
func (h *Hub) JoinChannel(connID, name string) (history []domain.Message, created bool, channels []string, err error) {
	if vErr := ValidateChannelName(name); vErr != nil {
		return nil, false, nil, vErr
	}
	h.dispatch(func() {
		s, ok := h.sessions.session(connID)
		if !ok {
			err = ErrSessionNotFound
			return
		}
		if s.Channel != "" && s.Channel != name {
			h.channels.remove(s.Channel, connID)
		}
		created = h.channels.create(name)
		h.channels.add(name, connID)
		s.Channel = name
		history = h.log.historyFor(name)
		if created {
			channels = h.channels.list()
		}
		h.logger.Info("channel joined", "connID", connID, "channel", name, "history", len(history))
	})
	return history, created, channels, err
}

// LeaveChannel clears the session's current channel and removes membership;
// it is a no-op when the session is in no channel.
func (h *Hub) LeaveChannel(connID string) {
	h.dispatch(func() {
		s, ok := h.sessions.session(connID)
		if !ok || s.Channel == "" {
			return
		}
		h.channels.remove(s.Channel, connID)
		s.Channel = ""
	})
}

// Members returns the connection IDs joined to a channel.
func (h *Hub) Members(name string) []string {
	var ids []string
	h.dispatch(func() {
		ids = h.channels.memberIDs(name)
	})
	return ids
}

// SendMessage validates and routes a channel message: the message is
// appended to the log and the current member set becomes the delivery
// target list. Sending without a nickname fails ErrNotAuthenticated and
// leaves no trace in the log.
func (h *Hub) SendMessage(connID, channel, body string) (Delivery, error) {
	var (
		delivery Delivery
		err      error
	)
	h.dispatch(func() {
		s, ok := h.sessions.session(connID)
		if !ok {
			err = ErrSessionNotFound
			return
		}
		if !s.Identified() {
			err = ErrNotAuthenticated
			return
		}
		if vErr := ValidateMessage(body); vErr != nil {
			err = vErr
			return
		}
		msg := h.log.append(channel, s.Nickname, body)
		delivery = Delivery{
			Channel: channel,
			Targets: h.channels.memberIDs(channel),
			User:    msg.User,
			Msg:     msg.Msg,
		}
	})
	return delivery, err
}

// SendPrivate validates and routes a direct message to the first online
// session, in connection order, holding the recipient nickname. Private
// messages are not logged and not retried.
func (h *Hub) SendPrivate(connID, recipient, body string) (Delivery, error) {
	var (
		delivery Delivery
		err      error
	)
	h.dispatch(func() {
		s, ok := h.sessions.session(connID)
		if !ok {
			err = ErrSessionNotFound
			return
		}
		if !s.Identified() {
			err = ErrNotAuthenticated
			return
		}
		if vErr := ValidateMessage(body); vErr != nil {
			err = vErr
			return
		}
		target, found := h.sessions.resolveNickname(recipient)
		if !found {
			err = ErrRecipientNotFound
			return
		}
		delivery = Delivery{
			Targets: []string{target},
			User:    s.Nickname,
			Msg:     body,
		}
	})
	return delivery, err
}

// History returns the last limit messages for a channel; limit <= 0 returns
// the full history.
func (h *Hub) History(channel string, limit int) []domain.Message {
	var history []domain.Message
	h.dispatch(func() {
		history = h.log.tail(channel, limit)
	})
	return history
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	var n int
	h.dispatch(func() {
		n = h.sessions.count()
	})
	return n
}
