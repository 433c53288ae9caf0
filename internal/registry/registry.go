// Package registry tracks the rooms currently live on the server and
// drives their simulation ticks.
package registry

import (
	"sync"
	"time"

	"github.com/snakegame/server/internal/game"
)

// Registry owns the set of named rooms. Rooms are created on first
// reference by name, matching players up by whichever room name they
// supply rather than assigning one automatically.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*game.Room

	width, height  int
	tickHz         uint
	maxPending     int
	outboundBuffer int
}

// New constructs an empty registry. The grid dimensions and tick rate
// apply uniformly to every room it creates.
func New(width, height int, tickHz uint, maxPending, outboundBuffer int) *Registry {
	return &Registry{
		rooms:          make(map[string]*game.Room),
		width:          width,
		height:         height,
		tickHz:         tickHz,
		maxPending:     maxPending,
		outboundBuffer: outboundBuffer,
	}
}

// GetOrCreate returns the room named name, creating it if this is the
// first reference.
func (reg *Registry) GetOrCreate(name string) *game.Room {
	reg.mu.RLock()
	r, ok := reg.rooms[name]
	reg.mu.RUnlock()
	if ok {
		return r
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if r, ok := reg.rooms[name]; ok {
		return r
	}
	r = game.New(name, reg.width, reg.height, reg.tickHz, reg.maxPending, reg.outboundBuffer)
	reg.rooms[name] = r
	return r
}

// Join gets or creates the named room and joins a player to it in one
// registry-level critical section. Getting the room and joining it as two
// separate steps would leave a window between them in which the janitor's
// CleanupEmpty could observe the freshly created, still-empty room and
// delete it before the new player is ever added, orphaning that player in
// a room the tick driver no longer tracks.
func (reg *Registry) Join(name, playerID, playerName string) (room *game.Room, outbound chan []byte) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[name]
	if !ok {
		room = game.New(name, reg.width, reg.height, reg.tickHz, reg.maxPending, reg.outboundBuffer)
		reg.rooms[name] = room
	}
	outbound = room.Join(playerID, playerName)
	return room, outbound
}

// Tick steps every room whose tick period has elapsed. Room pointers are
// copied out under a read lock so that stepping a room, which can take
// long enough to matter under load, never blocks room creation or
// cleanup.
func (reg *Registry) Tick(now time.Time) {
	reg.mu.RLock()
	rooms := make([]*game.Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	for _, r := range rooms {
		if r.TickDue(now) {
			r.Step(now)
		}
	}
}

// CleanupEmpty removes every room with no registered players and returns
// how many were removed.
func (reg *Registry) CleanupEmpty() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	removed := 0
	for name, r := range reg.rooms {
		if r.PlayerCount() == 0 {
			delete(reg.rooms, name)
			removed++
		}
	}
	return removed
}

// Stats returns the current room count and the total number of players
// across all rooms.
func (reg *Registry) Stats() (rooms, players int) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rooms = len(reg.rooms)
	for _, r := range reg.rooms {
		players += r.PlayerCount()
	}
	return rooms, players
}
