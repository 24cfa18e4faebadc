package relay

import (
	domain "github.com/example/chat-relay/domain/relay"
)

// messageLog is the append-only record of broadcast messages. Arrival order
// is total across all channels; the log is unbounded for the process
// lifetime. Not synchronized: every access runs inside the hub loop.
type messageLog struct {
	entries []domain.Message
	seq     uint64
}

func newMessageLog() *messageLog {
	return &messageLog{}
}

// append records a message with the next arrival sequence number.
func (l *messageLog) append(channel, user, body string) domain.Message {
	l.seq++
	msg := domain.Message{
		Channel: channel,
		User:    user,
		Msg:     body,
		Seq:     l.seq,
	}
	l.entries = append(l.entries, msg)
	return msg
}

// historyFor returns all messages for a channel in arrival order.
func (l *messageLog) historyFor(channel string) []domain.Message {
	history := make([]domain.Message, 0)
	for _, msg := range l.entries {
		if msg.Channel == channel {
			history = append(history, msg)
		}
	}
	return history
}

// tail returns the last limit messages for a channel; limit <= 0 returns the
// full history.
func (l *messageLog) tail(channel string, limit int) []domain.Message {
	history := l.historyFor(channel)
	if limit > 0 && limit < len(history) {
		history = history[len(history)-limit:]
	}
	return history
}

func (l *messageLog) size() int {
	return len(l.entries)
}
