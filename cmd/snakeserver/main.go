// Package main implements the multiplayer snake game server.
//
// Architecture Overview:
// - Uses WebSocket for real-time bidirectional communication with clients
// - A single background driver steps every room's simulation on a fixed
//   tick schedule
// - Each room is keyed by the name clients supply when joining, so a
//   group of friends can rendezvous in the same game
// - Wire messages are JSON objects tagged with a "type" field
//
// Connection Flow:
// 1. Client connects via WebSocket to /ws?room=<name>&name=<player>
// 2. Server assigns the player a UUID and places it in the named room
// 3. Server sends a hello message back with the assigned player ID and
//    grid parameters
// 4. Client sends input/start/respawn/restart messages; server broadcasts
//    state messages on every tick
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/snakegame/server/config"
	"github.com/snakegame/server/internal/game"
	"github.com/snakegame/server/internal/protocol"
	"github.com/snakegame/server/internal/registry"
	"github.com/snakegame/server/internal/ticker"
)

// Server is the main server instance: it owns the room registry and the
// WebSocket upgrader shared by every connection.
type Server struct {
	cfg      config.Config
	registry *registry.Registry
	upgrader websocket.Upgrader
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := loadConfig()
	server := NewServer(cfg)

	log.Printf("=================================")
	log.Printf("  Snake Game Server")
	log.Printf("=================================")
	log.Printf("  Host: %s", cfg.Host)
	log.Printf("  Port: %d", cfg.Port)
	log.Printf("  Grid: %dx%d", cfg.GridWidth, cfg.GridHeight)
	log.Printf("  Tick Rate: %d Hz", cfg.TickHz)
	log.Printf("=================================")

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadConfig reads configuration from environment variables, falling
// back to config.DefaultConfig for anything unset.
func loadConfig() config.Config {
	cfg := config.DefaultConfig()

	if host := os.Getenv("HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if w := os.Getenv("GRID_WIDTH"); w != "" {
		if n, err := strconv.Atoi(w); err == nil {
			cfg.GridWidth = n
		}
	}
	if h := os.Getenv("GRID_HEIGHT"); h != "" {
		if n, err := strconv.Atoi(h); err == nil {
			cfg.GridHeight = n
		}
	}
	if hz := os.Getenv("TICK_HZ"); hz != "" {
		if n, err := strconv.Atoi(hz); err == nil && n > 0 {
			cfg.TickHz = uint(n)
		}
	}
	if cors := os.Getenv("ENABLE_CORS"); cors == "false" {
		cfg.EnableCORS = false
	}

	return cfg
}

// NewServer constructs a Server ready to Start.
func NewServer(cfg config.Config) *Server {
	return &Server{
		cfg: cfg,
		registry: registry.New(
			cfg.GridWidth, cfg.GridHeight, cfg.TickHz,
			config.MaxPending, config.OutboundBuffer,
		),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return cfg.EnableCORS
			},
		},
	}
}

// Start runs the tick driver and the empty-room janitor in the background
// and then blocks serving HTTP. It returns only on a listener error.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driver := ticker.NewDriver(s.registry, s.cfg.TickHz)
	go driver.Run(ctx)

	go func() {
		t := time.NewTicker(config.JanitorInterval)
		defer t.Stop()
		for range t.C {
			if removed := s.registry.CleanupEmpty(); removed > 0 {
				log.Printf("janitor: removed %d empty rooms", removed)
			}
		}
	}()

	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/healthz", s.handleHealth)
	http.HandleFunc("/stats", s.handleStats)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}

// handleHealth responds to health check requests from load balancers and
// container orchestrators.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleStats reports the current room and player counts.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	rooms, players := s.registry.Stats()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"rooms":%d,"players":%d}`, rooms, players)
}

// connection is one upgraded WebSocket client paired with the room it
// joined.
type connection struct {
	ws           *websocket.Conn
	server       *Server
	room         *game.Room
	playerID     string
	outbound     chan []byte
	done         chan struct{}
	teardownOnce sync.Once
}

// handleWebSocket upgrades the HTTP connection, assigns the player a
// UUID, places it in the requested room, and spins up its read/write
// pumps.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	roomName := r.URL.Query().Get("room")
	if roomName == "" {
		roomName = "lobby"
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "Anon"
	}
	if len(name) > 20 {
		name = name[:20]
	}

	playerID := uuid.NewString()
	room, outbound := s.registry.Join(roomName, playerID, name)

	c := &connection{
		ws:       ws,
		server:   s,
		room:     room,
		playerID: playerID,
		outbound: outbound,
		done:     make(chan struct{}),
	}

	log.Printf("player %s joined room %q from %s", playerID, roomName, ws.RemoteAddr())

	go c.writePump()
	c.readPump()
}

// writePump drains the player's outbound channel onto the socket and
// keeps the connection alive with periodic pings. It runs in its own
// goroutine for the lifetime of the connection.
func (c *connection) writePump() {
	t := time.NewTicker(30 * time.Second)
	defer t.Stop()
	defer c.teardown()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.outbound:
			c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-t.C:
			c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads and dispatches messages from the client until the
// connection closes.
func (c *connection) readPump() {
	defer c.teardown()

	c.ws.SetReadLimit(1024)
	c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("read error for player %s: %v", c.playerID, err)
			}
			return
		}
		c.handleMessage(data)
	}
}

// handleMessage dispatches one decoded client message to the room it
// belongs to.
func (c *connection) handleMessage(data []byte) {
	msg, err := protocol.DecodeClientMessage(data)
	if err != nil {
		return
	}

	switch msg.Type {
	case protocol.TypeStart:
		c.room.StartAndAck(c.playerID)
	case protocol.TypeInput:
		dir, ok := game.ParseDirection(msg.Dir)
		if !ok {
			return
		}
		c.room.QueueInput(c.playerID, dir)
	case protocol.TypeRespawn:
		c.room.RespawnAndAck(c.playerID)
	case protocol.TypeRestart:
		c.room.RestartAndAck(c.playerID)
	case protocol.TypePing:
		game.PushOrDropOldest(c.outbound, protocol.EncodePong(msg.T))
	}
}

// teardown removes the player from its room and signals the write pump
// to stop. Safe to call from either pump; only the first call has effect.
func (c *connection) teardown() {
	c.teardownOnce.Do(func() {
		close(c.done)
		c.room.RemovePlayer(c.playerID)
		c.ws.Close()
	})
}
