// Package protocol defines the JSON wire format exchanged between the
// server and browser clients over the game WebSocket. Every message is a
// single JSON object carrying a "type" discriminator; decoding dispatches
// on that field rather than on message length or position.
package protocol

// MsgType identifies the shape of a message's payload.
type MsgType string

// Client -> server message types.
const (
	TypeJoin    MsgType = "join"
	TypeInput   MsgType = "input"
	TypeStart   MsgType = "start"
	TypeRespawn MsgType = "respawn"
	TypeRestart MsgType = "restart"
	TypePing    MsgType = "ping"
)

// Server -> client message types.
const (
	TypeHello MsgType = "hello"
	TypeState MsgType = "state"
	TypePong  MsgType = "pong"
)

// Cell encodes a grid coordinate as a two-element JSON array, [x, y].
type Cell [2]int

// PlayerSnapshot is one player's state as carried in a state broadcast.
type PlayerSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Body  []Cell `json:"body"`
	Alive bool   `json:"alive"`
	Score uint32 `json:"score"`
	Lives uint32 `json:"lives"`
}

// envelope is the common shape every decoded message has: a type tag plus
// whatever fields that type defines. Decoding reads into this first, then
// re-unmarshals into the type-specific payload.
type envelope struct {
	Type MsgType `json:"type"`
}

// helloMessage greets a newly joined player with its assigned identity and
// the room's static parameters.
type helloMessage struct {
	Type     MsgType `json:"type"`
	PlayerID string  `json:"player_id"`
	Grid     Cell    `json:"grid"`
	TickHz   uint    `json:"tick_hz"`
}

// stateMessage carries one tick's worth of room state to all players.
type stateMessage struct {
	Type    MsgType          `json:"type"`
	Seq     uint64           `json:"seq"`
	Started bool             `json:"started"`
	Food    Cell             `json:"food"`
	Players []PlayerSnapshot `json:"players"`
}

// pongMessage echoes a client's ping payload back for latency estimation.
type pongMessage struct {
	Type MsgType `json:"type"`
	T    uint64  `json:"t"`
}

// inputPayload carries a requested direction change.
type inputPayload struct {
	Type MsgType `json:"type"`
	Dir  string  `json:"dir"`
}

// pingPayload carries a client-chosen timestamp to be echoed back.
type pingPayload struct {
	Type MsgType `json:"type"`
	T    uint64  `json:"t"`
}
