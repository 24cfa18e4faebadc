package relay

import (
	"testing"
)

func TestMessageLog_AppendAssignsArrivalOrder(t *testing.T) {
	log := newMessageLog()

	first := log.append("general", "alice", "one")
	second := log.append("random", "bob", "two")
	third := log.append("general", "alice", "three")

	if first.Seq >= second.Seq || second.Seq >= third.Seq {
		t.Errorf("sequence not strictly increasing: %d %d %d", first.Seq, second.Seq, third.Seq)
	}
	if log.size() != 3 {
		t.Errorf("size = %d, want 3", log.size())
	}
}

func TestMessageLog_HistoryForFiltersByChannel(t *testing.T) {
	log := newMessageLog()
	log.append("general", "alice", "one")
	log.append("random", "bob", "noise")
	log.append("general", "carol", "two")

	history := log.historyFor("general")
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Msg != "one" || history[1].Msg != "two" {
		t.Errorf("history out of arrival order: %v", history)
	}
	for _, msg := range history {
		if msg.Channel != "general" {
			t.Errorf("history contains message for channel %q", msg.Channel)
		}
	}

	if got := log.historyFor("empty"); len(got) != 0 {
		t.Errorf("history of unknown channel = %v, want empty", got)
	}
}

func TestMessageLog_Tail(t *testing.T) {
	log := newMessageLog()
	for i := 0; i < 5; i++ {
		log.append("general", "alice", "msg")
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero limit returns all", limit: 0, want: 5},
		{name: "negative limit returns all", limit: -1, want: 5},
		{name: "limit below size", limit: 3, want: 3},
		{name: "limit above size", limit: 10, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := log.tail("general", tt.limit); len(got) != tt.want {
				t.Errorf("tail(%d) length = %d, want %d", tt.limit, len(got), tt.want)
			}
		})
	}

	// tail keeps the most recent messages.
	log.append("general", "alice", "last")
	tail := log.tail("general", 1)
	if len(tail) != 1 || tail[0].Msg != "last" {
		t.Errorf("tail(1) = %v, want the latest message", tail)
	}
}
