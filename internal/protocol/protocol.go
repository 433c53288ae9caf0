package protocol

import (
	"encoding/json"
	"errors"
)

// ErrUnknownType is returned by DecodeClientMessage for a well-formed JSON
// object whose "type" field does not match any known client message.
var ErrUnknownType = errors.New("protocol: unknown message type")

// ClientMessage is a decoded message from a browser client, flattened
// across all client message shapes. Only the fields relevant to Type are
// populated.
type ClientMessage struct {
	Type MsgType
	Dir  string
	T    uint64
}

// DecodeClientMessage parses a raw WebSocket text frame into a
// ClientMessage. It returns ErrUnknownType if the type tag is not one of
// the recognized client message types.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ClientMessage{}, err
	}

	switch env.Type {
	case TypeJoin, TypeStart, TypeRespawn, TypeRestart:
		return ClientMessage{Type: env.Type}, nil
	case TypeInput:
		var payload inputPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{Type: env.Type, Dir: payload.Dir}, nil
	case TypePing:
		var payload pingPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{Type: env.Type, T: payload.T}, nil
	default:
		return ClientMessage{}, ErrUnknownType
	}
}

// EncodeHello builds the server's greeting to a newly joined player.
func EncodeHello(playerID string, gridWidth, gridHeight int, tickHz uint) []byte {
	msg := helloMessage{
		Type:     TypeHello,
		PlayerID: playerID,
		Grid:     Cell{gridWidth, gridHeight},
		TickHz:   tickHz,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		panic(err)
	}
	return data
}

// EncodeState builds a state broadcast for one tick.
func EncodeState(seq uint64, started bool, food Cell, players []PlayerSnapshot) []byte {
	msg := stateMessage{
		Type:    TypeState,
		Seq:     seq,
		Started: started,
		Food:    food,
		Players: players,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		panic(err)
	}
	return data
}

// EncodePong echoes a ping timestamp back to its sender.
func EncodePong(t uint64) []byte {
	data, err := json.Marshal(pongMessage{Type: TypePong, T: t})
	if err != nil {
		panic(err)
	}
	return data
}
