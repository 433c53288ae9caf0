// Package config holds tunables for the snake game server.
package config

import "time"

// Grid and simulation defaults.
const (
	DefaultGridWidth  = 22
	DefaultGridHeight = 22
	DefaultTickHz     = 10

	// InitialLives is how many respawns a freshly-joined or restarted
	// player has.
	InitialLives = 3

	// MaxPending bounds a player's queued-direction FIFO. Once full, new
	// inputs are dropped rather than grown without bound.
	MaxPending = 8

	// OutboundBuffer is the per-player outbound channel capacity. Once
	// full, the oldest queued message is dropped to make room for the
	// newest.
	OutboundBuffer = 64

	// JanitorInterval is how often the registry sweeps for empty rooms.
	JanitorInterval = 30 * time.Second
)

// Config is the server's runtime configuration.
type Config struct {
	Host       string
	Port       int
	GridWidth  int
	GridHeight int
	TickHz     uint
	EnableCORS bool
}

// DefaultConfig returns the server's default configuration.
func DefaultConfig() Config {
	return Config{
		Host:       "0.0.0.0",
		Port:       8080,
		GridWidth:  DefaultGridWidth,
		GridHeight: DefaultGridHeight,
		TickHz:     DefaultTickHz,
		EnableCORS: true,
	}
}
