package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/mmai/thevalley/internal/game"
)

// Server is the WebSocket front end. It upgrades connections, tracks
// them, and fans the per-player game state out to every seat in a room
// after each accepted command.
type Server struct {
	config      *Config
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	rooms       *RoomManager
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a server around the given room manager
func NewServer(config *Config, rooms *RoomManager, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		rooms:       rooms,
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
	rooms.SetTurnReminder(config.TurnTimeout(), s.notifyTurnReminder)
	return s
}

// Run starts the listener and the idle-room reaper, blocking until the
// context is cancelled or the listener fails
func (s *Server) Run(ctx context.Context) error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	httpServer := &http.Server{
		Addr:    s.config.ListenAddress(),
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", s.config.ListenAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		s.rooms.RunReaper(ctx, s.config.ReapInterval())
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.Stop()
		return httpServer.Shutdown(context.Background())
	})

	return g.Wait()
}

// Stop closes all client connections
func (s *Server) Stop() {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()

			// Free the seat so the room does not wait on a ghost.
			playerID := conn.PlayerID()
			roomID := conn.RoomID()
			if playerID != uuid.Nil && roomID != "" {
				if room, err := s.rooms.GetRoom(roomID); err == nil {
					if err := room.Leave(playerID); err == nil {
						s.SendSnapshots(room)
					}
				}
			}
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// SendSnapshots pushes each seated player their own filtered view of
// the room. Spectating connections that joined no seat see nothing.
func (s *Server) SendSnapshots(room *Room) {
	views := room.Snapshots()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		snap, ok := views[conn.PlayerID()]
		if !ok {
			continue
		}
		msg, err := NewMessage(MessageTypeGameState, GameStateData{
			RoomID:   room.ID,
			Snapshot: snap,
		})
		if err != nil {
			s.logger.Error("Failed to build state message", "error", err)
			continue
		}
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error("Failed to send state", "error", err, "player", conn.PlayerID())
		}
	}
}

// notifyTurnReminder nudges the seat that has been sitting on its turn
// past the configured timeout
func (s *Server) notifyTurnReminder(room *Room, seat game.Seat) {
	playerID, ok := room.PlayerAtSeat(seat)
	if !ok {
		return
	}
	msg, err := NewMessage(MessageTypeTurnReminder, TurnReminderData{
		RoomID:         room.ID,
		Seat:           seat,
		TimeoutSeconds: int(s.config.TurnTimeout() / time.Second),
	})
	if err != nil {
		return
	}
	if err := s.SendToPlayer(playerID, msg); err != nil {
		s.logger.Debug("Turn reminder undeliverable", "player", playerID, "error", err)
	}
}

// SendToPlayer sends a message to a specific connected player
func (s *Server) SendToPlayer(playerID uuid.UUID, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.PlayerID() == playerID {
			return conn.SendMessage(msg)
		}
	}
	return fmt.Errorf("player not connected: %s", playerID)
}

// ConnectedPlayers returns the ids of all identified connections
func (s *Server) ConnectedPlayers() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []uuid.UUID
	for conn := range s.connections {
		if id := conn.PlayerID(); id != uuid.Nil {
			players = append(players, id)
		}
	}
	return players
}

// Rooms exposes the room manager
func (s *Server) Rooms() *RoomManager {
	return s.rooms
}
