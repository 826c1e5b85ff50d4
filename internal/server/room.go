package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/mmai/thevalley/internal/deck"
	"github.com/mmai/thevalley/internal/game"
)

// Room wraps a single game engine behind a mutex. The engine itself is
// not safe for concurrent use, so every command against it goes through
// the room lock.
type Room struct {
	ID      string
	Name    string
	Variant game.Variant

	mu         sync.Mutex
	engine     *game.GameEngine
	clock      quartz.Clock
	lastActive time.Time
	logger     *log.Logger

	turnTimeout   time.Duration
	turnTimer     *quartz.Timer
	onTurnTimeout func(*Room, game.Seat)
}

// NewRoom creates a room with a fresh engine for the given variant.
// Extra engine options come after the variant; tests use them to seed
// or script the source pile.
func NewRoom(id, name string, variant game.Variant, clock quartz.Clock, logger *log.Logger, opts ...game.Option) (*Room, error) {
	if err := variant.Validate(); err != nil {
		return nil, err
	}
	engine := game.NewGameEngine(logger, append([]game.Option{game.WithVariant(variant)}, opts...)...)
	return &Room{
		ID:         id,
		Name:       name,
		Variant:    variant,
		engine:     engine,
		clock:      clock,
		lastActive: clock.Now(),
		logger:     logger.With("room", id),
	}, nil
}

func (r *Room) touch() {
	r.lastActive = r.clock.Now()
}

// SetTurnTimeout arms a reminder that fires when the active seat sits
// on its turn too long. A zero duration disables it.
func (r *Room) SetTurnTimeout(d time.Duration, fn func(*Room, game.Seat)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turnTimeout = d
	r.onTurnTimeout = fn
}

// rearmTurnTimer is called with the room lock held after every command
// that can change whose turn it is
func (r *Room) rearmTurnTimer() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
	if r.turnTimeout <= 0 || r.onTurnTimeout == nil {
		return
	}
	status := r.engine.Status()
	if status.Stage != game.StagePlaying {
		return
	}

	seat := status.ActiveSeat
	r.turnTimer = r.clock.AfterFunc(r.turnTimeout, func() {
		r.mu.Lock()
		current := r.engine.Status()
		stale := current.Stage != game.StagePlaying || current.ActiveSeat != seat
		fn := r.onTurnTimeout
		r.mu.Unlock()
		if stale || fn == nil {
			return
		}
		r.logger.Warn("Turn reminder", "seat", seat)
		fn(r, seat)
	})
}

// Join seats a player, or returns their existing seat if already joined
func (r *Room) Join(player game.PlayerInfo) (game.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	seat, err := r.engine.AddPlayer(player)
	if err != nil {
		return 0, err
	}
	r.logger.Info("player joined", "player", player.Name, "seat", seat)
	return seat, nil
}

// Leave removes a player from the table
func (r *Room) Leave(playerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if !r.engine.RemovePlayer(playerID) {
		return game.ErrUnknownPlayer
	}
	r.logger.Info("player left", "player", playerID)
	return nil
}

// SetReady marks a player ready. The returned flag reports whether the
// quorum was reached and the game just started.
func (r *Room) SetReady(playerID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	started, err := r.engine.SetReady(playerID)
	if err != nil {
		return false, err
	}
	if started {
		r.logger.Info("game started", "variant", r.Variant)
	}
	r.rearmTurnTimer()
	return started, nil
}

// SetNotReady clears a player's ready flag
func (r *Room) SetNotReady(playerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	return r.engine.SetNotReady(playerID)
}

// Play plays a card from the player's hand
func (r *Room) Play(playerID uuid.UUID, card deck.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch()

	if err := r.engine.Play(playerID, card); err != nil {
		return err
	}
	r.logger.Debug("card played", "player", playerID, "card", card)
	r.rearmTurnTimer()
	return nil
}

// Snapshot returns the requesting player's redacted view of the table
func (r *Room) Snapshot(playerID uuid.UUID) (game.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.engine.MakeSnapshot(playerID)
}

// Snapshots returns a per-player view for every seated player, keyed by
// player id. Used to fan out state after an accepted command.
func (r *Room) Snapshots() map[uuid.UUID]game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	views := make(map[uuid.UUID]game.Snapshot, len(r.engine.Players()))
	for _, id := range r.engine.Players() {
		snap, err := r.engine.MakeSnapshot(id)
		if err != nil {
			continue
		}
		views[id] = snap
	}
	return views
}

// Info returns the lobby listing entry for this room
func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	return RoomInfo{
		ID:          r.ID,
		Name:        r.Name,
		Variant:     r.Variant,
		PlayerCount: r.engine.PlayerCount(),
		Joinable:    r.engine.IsJoinable(),
		Stage:       r.engine.Status().Stage.String(),
	}
}

// PlayerAtSeat returns the id of the player holding a seat
func (r *Room) PlayerAtSeat(seat game.Seat) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.engine.PlayerAtSeat(seat)
}

// HasPlayer reports whether the player is seated in this room
func (r *Room) HasPlayer(playerID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.engine.Players() {
		if id == playerID {
			return true
		}
	}
	return false
}

// IdleSince reports whether the room has been empty and untouched since
// the given cutoff
func (r *Room) IdleSince(cutoff time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.engine.PlayerCount() == 0 && r.lastActive.Before(cutoff)
}
