package protocol

import (
	"encoding/json"
	"testing"
)

func TestDecodeClientMessageInput(t *testing.T) {
	raw := []byte(`{"type":"input","dir":"Up"}`)

	msg, err := DecodeClientMessage(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Type != TypeInput {
		t.Fatalf("expected type %q, got %q", TypeInput, msg.Type)
	}
	if msg.Dir != "Up" {
		t.Fatalf("expected dir %q, got %q", "Up", msg.Dir)
	}
}

func TestDecodeClientMessagePing(t *testing.T) {
	raw := []byte(`{"type":"ping","t":42}`)

	msg, err := DecodeClientMessage(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.T != 42 {
		t.Fatalf("expected t 42, got %d", msg.T)
	}
}

func TestDecodeClientMessageBareTypes(t *testing.T) {
	for _, typ := range []MsgType{TypeJoin, TypeStart, TypeRespawn, TypeRestart} {
		raw, err := json.Marshal(envelope{Type: typ})
		if err != nil {
			t.Fatalf("marshal envelope: %v", err)
		}
		msg, err := DecodeClientMessage(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", typ, err)
		}
		if msg.Type != typ {
			t.Fatalf("expected type %q, got %q", typ, msg.Type)
		}
	}
}

func TestDecodeClientMessageUnknownType(t *testing.T) {
	raw := []byte(`{"type":"nonsense"}`)

	_, err := DecodeClientMessage(raw)
	if err != ErrUnknownType {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestEncodeStateRoundTrips(t *testing.T) {
	players := []PlayerSnapshot{
		{ID: "p1", Name: "Alice", Body: []Cell{{1, 1}, {1, 2}}, Alive: true, Score: 3, Lives: 2},
	}
	data := EncodeState(7, true, Cell{5, 5}, players)

	var decoded stateMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != TypeState {
		t.Fatalf("expected type %q, got %q", TypeState, decoded.Type)
	}
	if decoded.Seq != 7 {
		t.Fatalf("expected seq 7, got %d", decoded.Seq)
	}
	if decoded.Food != (Cell{5, 5}) {
		t.Fatalf("expected food {5 5}, got %v", decoded.Food)
	}
	if len(decoded.Players) != 1 || decoded.Players[0].ID != "p1" {
		t.Fatalf("unexpected players: %+v", decoded.Players)
	}
}

func TestEncodeHelloRoundTrips(t *testing.T) {
	data := EncodeHello("abc-123", 22, 22, 10)

	var decoded helloMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.PlayerID != "abc-123" {
		t.Fatalf("expected player id %q, got %q", "abc-123", decoded.PlayerID)
	}
	if decoded.Grid != (Cell{22, 22}) {
		t.Fatalf("unexpected grid dims: %+v", decoded)
	}
	if decoded.TickHz != 10 {
		t.Fatalf("expected tick hz 10, got %d", decoded.TickHz)
	}
}

func TestEncodePongRoundTrips(t *testing.T) {
	data := EncodePong(99)

	var decoded pongMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.T != 99 {
		t.Fatalf("expected t 99, got %d", decoded.T)
	}
}
