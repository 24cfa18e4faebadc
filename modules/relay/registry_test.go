package relay

import (
	"errors"
	"reflect"
	"testing"
)

func TestSessionRegistry_ConnectAndDisconnect(t *testing.T) {
	r := newSessionRegistry()

	s := r.connect("conn-1")
	if s.ConnectionID != "conn-1" {
		t.Errorf("ConnectionID = %q, want %q", s.ConnectionID, "conn-1")
	}
	if s.Identified() {
		t.Error("new session should have no nickname")
	}
	if s.Channel != "" {
		t.Error("new session should have no channel")
	}
	if r.count() != 1 {
		t.Errorf("count = %d, want 1", r.count())
	}

	// Connecting the same ID again is a no-op.
	r.connect("conn-1")
	if r.count() != 1 {
		t.Errorf("count after duplicate connect = %d, want 1", r.count())
	}

	gone, ok := r.disconnect("conn-1")
	if !ok {
		t.Fatal("disconnect returned ok=false for live session")
	}
	if gone.ConnectionID != "conn-1" {
		t.Errorf("disconnected session ID = %q, want %q", gone.ConnectionID, "conn-1")
	}
	if r.count() != 0 {
		t.Errorf("count after disconnect = %d, want 0", r.count())
	}

	if _, ok := r.disconnect("conn-1"); ok {
		t.Error("disconnect of unknown connection should return ok=false")
	}
}

func TestSessionRegistry_SetNickname(t *testing.T) {
	r := newSessionRegistry()
	r.connect("conn-1")

	tests := []struct {
		name     string
		connID   string
		nickname string
		wantErr  error
	}{
		{name: "valid nickname", connID: "conn-1", nickname: "alice", wantErr: nil},
		{name: "overwrite is permitted", connID: "conn-1", nickname: "alice2", wantErr: nil},
		{name: "empty nickname", connID: "conn-1", nickname: "", wantErr: ErrNicknameEmpty},
		{name: "unknown connection", connID: "nope", nickname: "bob", wantErr: ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.setNickname(tt.connID, tt.nickname)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("setNickname() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	s, _ := r.session("conn-1")
	if s.Nickname != "alice2" {
		t.Errorf("final nickname = %q, want %q", s.Nickname, "alice2")
	}
}

func TestSessionRegistry_ResolveNickname(t *testing.T) {
	r := newSessionRegistry()
	r.connect("conn-1")
	r.connect("conn-2")
	r.connect("conn-3")
	_ = r.setNickname("conn-2", "bob")
	_ = r.setNickname("conn-3", "bob") // duplicate: first match wins

	connID, ok := r.resolveNickname("bob")
	if !ok {
		t.Fatal("expected bob to resolve")
	}
	if connID != "conn-2" {
		t.Errorf("resolved %q, want first match %q", connID, "conn-2")
	}

	if _, ok := r.resolveNickname("carol"); ok {
		t.Error("unknown nickname should not resolve")
	}

	// After the first match disconnects, the next one takes over.
	r.disconnect("conn-2")
	connID, ok = r.resolveNickname("bob")
	if !ok || connID != "conn-3" {
		t.Errorf("resolved (%q, %v), want (%q, true)", connID, ok, "conn-3")
	}
}

func TestSessionRegistry_OnlineNicknames(t *testing.T) {
	r := newSessionRegistry()
	r.connect("conn-1")
	r.connect("conn-2")
	r.connect("conn-3")
	r.connect("conn-4") // anonymous: never listed
	_ = r.setNickname("conn-1", "alice")
	_ = r.setNickname("conn-2", "bob")
	_ = r.setNickname("conn-3", "bob") // duplicate: listed once

	got := r.onlineNicknames("")
	want := []string{"alice", "bob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("onlineNicknames(\"\") = %v, want %v", got, want)
	}

	got = r.onlineNicknames("alice")
	want = []string{"bob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("onlineNicknames(\"alice\") = %v, want %v", got, want)
	}
}
