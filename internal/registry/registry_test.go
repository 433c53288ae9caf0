package registry

import (
	"testing"
	"time"
)

func TestGetOrCreateReusesRoomByName(t *testing.T) {
	reg := New(10, 10, 10, 8, 64)

	a := reg.GetOrCreate("table1")
	b := reg.GetOrCreate("table1")
	if a != b {
		t.Fatalf("expected the same room for the same name")
	}

	c := reg.GetOrCreate("table2")
	if a == c {
		t.Fatalf("expected a distinct room for a distinct name")
	}
}

func TestCleanupEmptyRemovesOnlyEmptyRooms(t *testing.T) {
	reg := New(10, 10, 10, 8, 64)

	full := reg.GetOrCreate("full")
	full.AddPlayer("p1", "Alice")
	reg.GetOrCreate("empty")

	removed := reg.CleanupEmpty()
	if removed != 1 {
		t.Fatalf("expected 1 room removed, got %d", removed)
	}

	rooms, players := reg.Stats()
	if rooms != 1 || players != 1 {
		t.Fatalf("expected 1 room and 1 player remaining, got rooms=%d players=%d", rooms, players)
	}
}

func TestJoinCreatesRoomAndSeedsOutbound(t *testing.T) {
	reg := New(10, 10, 10, 8, 64)

	room, outbound := reg.Join("lobby", "p1", "Alice")
	if room == nil {
		t.Fatalf("expected a room")
	}
	if room.PlayerCount() != 1 {
		t.Fatalf("expected 1 player registered, got %d", room.PlayerCount())
	}

	select {
	case <-outbound:
	default:
		t.Fatalf("expected hello message waiting on outbound")
	}
	select {
	case <-outbound:
	default:
		t.Fatalf("expected initial snapshot waiting on outbound")
	}

	same, _ := reg.Join("lobby", "p2", "Bob")
	if same != room {
		t.Fatalf("expected the same room for the same name")
	}
}

func TestTickStepsDueRoomsOnly(t *testing.T) {
	reg := New(10, 10, 1000, 8, 64)
	r := reg.GetOrCreate("room")
	r.AddPlayer("p1", "Alice")
	r.MarkStarted()

	before := r.Snapshot().Seq
	now := time.Now()
	reg.Tick(now)
	after := r.Snapshot().Seq

	if after != before+1 {
		t.Fatalf("expected seq to advance by 1, got before=%d after=%d", before, after)
	}

	// Ticking again at the same instant: the tick period has not elapsed,
	// so the room is not due and must not be stepped.
	reg.Tick(now)
	if again := r.Snapshot().Seq; again != after {
		t.Fatalf("expected a room that is not due to be skipped, got seq %d after %d", again, after)
	}
}
