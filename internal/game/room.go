package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/snakegame/server/internal/protocol"
)

// maxFoodAttempts bounds the rejection-sampling loop used to place food on
// an empty cell. The grid is small enough that a near-full board is the
// only realistic way to exhaust this, at which point the fallback corner
// is an acceptable, if visually odd, placement.
const maxFoodAttempts = 1000

// Snapshot is a point-in-time view of a room's state, used both for
// broadcasting to clients and for test assertions.
type Snapshot struct {
	Seq     uint64
	Started bool
	Food    Cell
	Players []PlayerSnapshot
}

// PlayerSnapshot is a point-in-time view of a single player.
type PlayerSnapshot struct {
	ID        string
	Name      string
	Body      []Cell
	Direction Direction
	Alive     bool
	Score     uint32
	Lives     uint32
}

// Room holds one independent game in progress: a grid, its players, and
// the single food cell they compete for. All access goes through the
// exported methods, which serialize on mu; there is no lock-free fast
// path.
type Room struct {
	mu sync.Mutex

	Name   string
	Width  int
	Height int

	players map[string]*Player
	food    Cell
	seq     uint64
	started bool

	tickHz     uint
	tickPeriod time.Duration
	lastTick   time.Time

	maxPending     int
	outboundBuffer int

	rng *rand.Rand
}

// New constructs an empty room. tickHz must be at least 1.
func New(name string, width, height int, tickHz uint, maxPending, outboundBuffer int) *Room {
	r := &Room{
		Name:           name,
		Width:          width,
		Height:         height,
		players:        make(map[string]*Player),
		tickHz:         tickHz,
		tickPeriod:     time.Second / time.Duration(tickHz),
		maxPending:     maxPending,
		outboundBuffer: outboundBuffer,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	r.food = r.randomEmptyCellLocked()
	return r
}

// AddPlayer registers a new player in the room and returns its outbound
// message channel. If id already names a connected player, the existing
// player is replaced.
func (r *Room) AddPlayer(id, name string) chan []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addPlayerLocked(id, name)
}

func (r *Room) addPlayerLocked(id, name string) chan []byte {
	outbound := make(chan []byte, r.outboundBuffer)
	r.players[id] = newPlayer(id, name, r.Width, r.Height, outbound)
	return outbound
}

// Join registers a new player and seeds its outbound channel with the
// hello and initial snapshot messages, all under one critical section. The
// tick driver can reach this player's outbound channel the instant the new
// map entry is visible, so hello and the initial snapshot are pushed onto
// the channel before the room lock is released, not returned for the
// caller to push later — otherwise a concurrent Step could win the race
// and broadcast a state message ahead of them.
func (r *Room) Join(id, name string) (outbound chan []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	outbound = r.addPlayerLocked(id, name)
	hello := protocol.EncodeHello(id, r.Width, r.Height, r.tickHz)
	PushOrDropOldest(outbound, hello)
	PushOrDropOldest(outbound, r.encodeSnapshotLocked())
	return outbound
}

// RemovePlayer drops a player from the room entirely.
func (r *Room) RemovePlayer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
}

// QueueInput validates and enqueues a direction change for the named
// player. Unknown players and invalid directions are silently ignored;
// the caller has no synchronous feedback channel for rejected input.
func (r *Room) QueueInput(id string, dir Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	if !ok {
		return
	}
	if validateInput(p, dir, r.maxPending) != inputAccepted {
		return
	}
	applyInput(p, dir)
}

// MarkStarted flips the room into the started state. Starting is
// monotonic: once started, later calls are no-ops.
func (r *Room) MarkStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
}

// StartAndAck flips the room into the started state and pushes an
// immediate snapshot into the caller's own outbound channel, both under
// one critical section. Combining the two avoids the race Join guards
// against: pushed separately, a tick broadcast could land on the caller's
// channel between the mutation and the ack, out of seq order.
func (r *Room) StartAndAck(callerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	r.pushAckLocked(callerID)
}

// RespawnPlayer resets a player back to the spawn triple without touching
// its score or remaining lives. It is a no-op for an unknown player or a
// player with no lives left; it does not require the player to be dead
// first (calling it on a live player simply recenters it).
func (r *Room) RespawnPlayer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.respawnPlayerLocked(id)
}

// RespawnAndAck is RespawnPlayer plus an immediate snapshot pushed to the
// caller, in one critical section. See StartAndAck for why.
func (r *Room) RespawnAndAck(callerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.respawnPlayerLocked(callerID)
	r.pushAckLocked(callerID)
}

func (r *Room) respawnPlayerLocked(id string) {
	p, ok := r.players[id]
	if !ok || p.Lives == 0 {
		return
	}
	p.respawn(r.Width, r.Height)
}

// RestartPlayer resets a player's lives to full and respawns it. Score is
// not reset: a restart is a second wind on the same run, not a new one.
func (r *Room) RestartPlayer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restartPlayerLocked(id)
}

// RestartAndAck is RestartPlayer plus an immediate snapshot pushed to the
// caller, in one critical section. See StartAndAck for why.
func (r *Room) RestartAndAck(callerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restartPlayerLocked(callerID)
	r.pushAckLocked(callerID)
}

func (r *Room) restartPlayerLocked(id string) {
	p, ok := r.players[id]
	if !ok {
		return
	}
	p.Lives = InitialLives
	p.respawn(r.Width, r.Height)
}

// pushAckLocked pushes the current snapshot onto callerID's own outbound
// channel. No-op if callerID names no registered player. Callers must
// hold mu.
func (r *Room) pushAckLocked(callerID string) {
	p, ok := r.players[callerID]
	if !ok {
		return
	}
	PushOrDropOldest(p.outbound, r.encodeSnapshotLocked())
}

// PlayerCount returns the number of players currently registered, alive or
// not.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// TickDue reports whether the room is running and enough time has passed
// since the last Step for another one to run.
func (r *Room) TickDue(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started && now.Sub(r.lastTick) >= r.tickPeriod
}

// Step advances the simulation by one tick: it commits one queued
// direction per player, computes everyone's proposed move, resolves
// deaths, advances survivors (growing on food), finalizes deaths by
// decrementing lives, and broadcasts the resulting snapshot to every
// connected player.
func (r *Room) Step(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastTick = now
	if !r.started || len(r.players) == 0 {
		return
	}
	r.seq++

	for _, p := range r.players {
		p.commitPending()
	}

	occ := occupied(r.players)
	heads := proposedHeads(r.players)
	dead := deaths(heads, occ, r.Width, r.Height)

	ateFood := make(map[string]bool)
	for id, head := range heads {
		if _, isDead := dead[id]; isDead {
			continue
		}
		if head == r.food {
			ateFood[id] = true
		}
	}

	anyAte := false
	for id, head := range heads {
		if _, isDead := dead[id]; isDead {
			continue
		}
		p := r.players[id]
		advance(p, head, ateFood[id])
		if ateFood[id] {
			anyAte = true
		}
	}

	for id := range dead {
		finalizeDeath(r.players[id])
	}

	if anyAte {
		r.food = r.randomEmptyCellLocked()
	}

	r.autoRespawnLocked()
	r.broadcastLocked()
}

// autoRespawnLocked implements the auto-respawn pass: if every player that
// still has lives remaining is currently dead, it respawns all of them so
// solo and co-op play keeps advancing without an explicit respawn
// command. Players with no lives left stay dead. Callers must hold mu.
func (r *Room) autoRespawnLocked() {
	anyWithLives := false
	anyAliveWithLives := false
	for _, p := range r.players {
		if p.Lives == 0 {
			continue
		}
		anyWithLives = true
		if p.Alive {
			anyAliveWithLives = true
		}
	}
	if !anyWithLives || anyAliveWithLives {
		return
	}
	for _, p := range r.players {
		if p.Lives > 0 {
			p.respawn(r.Width, r.Height)
		}
	}
}

// broadcastLocked encodes the current state and pushes it to every
// player's outbound channel. Callers must hold mu.
func (r *Room) broadcastLocked() {
	data := r.encodeSnapshotLocked()
	for _, p := range r.players {
		PushOrDropOldest(p.outbound, data)
	}
}

// SnapshotBytes returns the wire-encoded current state, for use outside
// the tick loop (join acknowledgements and manual refreshes).
func (r *Room) SnapshotBytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.encodeSnapshotLocked()
}

// encodeSnapshotLocked converts the room's domain state to wire form.
// Callers must hold mu. This is the one place the game package reaches
// into protocol; protocol never imports game, so there is no cycle.
func (r *Room) encodeSnapshotLocked() []byte {
	players := make([]protocol.PlayerSnapshot, 0, len(r.players))
	for _, p := range r.players {
		body := make([]protocol.Cell, len(p.Body))
		for i, c := range p.Body {
			body[i] = protocol.Cell{c.X, c.Y}
		}
		players = append(players, protocol.PlayerSnapshot{
			ID:    p.ID,
			Name:  p.Name,
			Body:  body,
			Alive: p.Alive,
			Score: p.Score,
			Lives: p.Lives,
		})
	}
	food := protocol.Cell{r.food.X, r.food.Y}
	return protocol.EncodeState(r.seq, r.started, food, players)
}

// Snapshot returns a deep-enough copy of the room's current state for
// inspection in tests.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]PlayerSnapshot, 0, len(r.players))
	for _, p := range r.players {
		body := make([]Cell, len(p.Body))
		copy(body, p.Body)
		players = append(players, PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Body:      body,
			Direction: p.Direction,
			Alive:     p.Alive,
			Score:     p.Score,
			Lives:     p.Lives,
		})
	}
	return Snapshot{Seq: r.seq, Started: r.started, Food: r.food, Players: players}
}

// randomEmptyCellLocked picks a cell not covered by any living player's
// body, falling back to the origin if the grid is too crowded to find one
// within maxFoodAttempts tries. Callers must hold mu.
func (r *Room) randomEmptyCellLocked() Cell {
	occ := occupied(r.players)
	for i := 0; i < maxFoodAttempts; i++ {
		c := Cell{X: r.rng.Intn(r.Width), Y: r.rng.Intn(r.Height)}
		if _, taken := occ[c]; !taken {
			return c
		}
	}
	return Cell{X: 0, Y: 0}
}

// PushOrDropOldest sends data on ch without blocking. If ch is full, the
// oldest queued message is discarded to make room, so a slow consumer
// loses stale frames rather than stalling the room's tick loop.
func PushOrDropOldest(ch chan []byte, data []byte) {
	select {
	case ch <- data:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- data:
	default:
	}
}
