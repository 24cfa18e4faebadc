package relay

import (
	domain "github.com/example/chat-relay/domain/relay"
)

// sessionRegistry owns all Session records. It is not synchronized: every
// access runs inside the hub loop.
type sessionRegistry struct {
	sessions map[string]*domain.Session
	order    []string // connection order, for stable presence snapshots
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*domain.Session),
	}
}

// connect creates a session with no nickname and no channel.
func (r *sessionRegistry) connect(connID string) *domain.Session {
	if s, ok := r.sessions[connID]; ok {
		return s
	}
	s := &domain.Session{ConnectionID: connID}
	r.sessions[connID] = s
	r.order = append(r.order, connID)
	return s
}

// disconnect removes the session and returns it so the caller can evict the
// connection from its channel.
func (r *sessionRegistry) disconnect(connID string) (*domain.Session, bool) {
	s, ok := r.sessions[connID]
	if !ok {
		return nil, false
	}
	delete(r.sessions, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return s, true
}

func (r *sessionRegistry) session(connID string) (*domain.Session, bool) {
	s, ok := r.sessions[connID]
	return s, ok
}

// setNickname sets or overwrites the session's nickname. Uniqueness is not
// enforced; duplicate nicknames resolve first-match for private routing.
func (r *sessionRegistry) setNickname(connID, nickname string) error {
	if err := ValidateNickname(nickname); err != nil {
		return err
	}
	s, ok := r.sessions[connID]
	if !ok {
		return ErrSessionNotFound
	}
	s.Nickname = nickname
	return nil
}

// resolveNickname returns the connection ID of the first session, in
// connection order, that registered the given nickname.
func (r *sessionRegistry) resolveNickname(nickname string) (string, bool) {
	for _, id := range r.order {
		if s := r.sessions[id]; s != nil && s.Nickname == nickname {
			return id, true
		}
	}
	return "", false
}

// onlineNicknames returns the distinct nicknames of all identified sessions
// in connection order, with excluding removed.
func (r *sessionRegistry) onlineNicknames(excluding string) []string {
	seen := make(map[string]struct{}, len(r.order))
	names := make([]string, 0, len(r.order))
	for _, id := range r.order {
		s := r.sessions[id]
		if s == nil || !s.Identified() || s.Nickname == excluding {
			continue
		}
		if _, dup := seen[s.Nickname]; dup {
			continue
		}
		seen[s.Nickname] = struct{}{}
		names = append(names, s.Nickname)
	}
	return names
}

func (r *sessionRegistry) count() int {
	return len(r.sessions)
}
