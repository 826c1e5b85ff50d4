package server

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/mmai/thevalley/internal/game"
	"github.com/mmai/thevalley/internal/roomid"
)

// ErrRoomNotFound is returned when a command names an unknown room
var ErrRoomNotFound = errors.New("room not found")

// RoomManager owns the set of live rooms. It creates them, looks them
// up for command dispatch, and reaps rooms that have sat empty past the
// idle timeout.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	clock       quartz.Clock
	idleTimeout time.Duration
	logger      *log.Logger

	turnTimeout   time.Duration
	onTurnTimeout func(*Room, game.Seat)
}

// NewRoomManager creates a manager with the given idle timeout
func NewRoomManager(clock quartz.Clock, idleTimeout time.Duration, logger *log.Logger) *RoomManager {
	return &RoomManager{
		rooms:       make(map[string]*Room),
		clock:       clock,
		idleTimeout: idleTimeout,
		logger:      logger.WithPrefix("rooms"),
	}
}

// SetTurnReminder makes every room created afterwards fire fn when its
// active seat exceeds the timeout
func (m *RoomManager) SetTurnReminder(d time.Duration, fn func(*Room, game.Seat)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnTimeout = d
	m.onTurnTimeout = fn
}

// CreateRoom creates a new room for the given variant
func (m *RoomManager) CreateRoom(name string, variant game.Variant) (*Room, error) {
	id := roomid.Generate()
	room, err := NewRoom(id, name, variant, m.clock, m.logger)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if m.turnTimeout > 0 && m.onTurnTimeout != nil {
		room.SetTurnTimeout(m.turnTimeout, m.onTurnTimeout)
	}
	m.mu.RUnlock()

	m.mu.Lock()
	m.rooms[id] = room
	m.mu.Unlock()

	m.logger.Info("Room created", "room", id, "name", name, "variant", variant)
	return room, nil
}

// GetRoom looks up a room by id
func (m *RoomManager) GetRoom(id string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// ListRooms returns lobby entries for every live room, ordered by id
func (m *RoomManager) ListRooms() []RoomInfo {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		rooms = append(rooms, room)
	}
	m.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, room.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// RoomCount returns the number of live rooms
func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// RemoveRoom drops a room from the manager
func (m *RoomManager) RemoveRoom(id string) {
	m.mu.Lock()
	delete(m.rooms, id)
	m.mu.Unlock()
}

// ReapIdle removes every room that has been empty longer than the idle
// timeout. Returns the number of rooms removed.
func (m *RoomManager) ReapIdle() int {
	cutoff := m.clock.Now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	reaped := 0
	for id, room := range m.rooms {
		if room.IdleSince(cutoff) {
			delete(m.rooms, id)
			reaped++
			m.logger.Info("Reaped idle room", "room", id)
		}
	}
	return reaped
}

// RunReaper reaps idle rooms on the given interval until the context is
// cancelled
func (m *RoomManager) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := m.clock.TickerFunc(ctx, interval, func() error {
		m.ReapIdle()
		return nil
	}, "room-reaper")
	_ = ticker.Wait()
}
