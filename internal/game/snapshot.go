package game

import (
	"github.com/google/uuid"

	"github.com/mmai/thevalley/internal/deck"
)

// PlayerView is the public per-player state included in every snapshot
type PlayerView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Seat  Seat      `json:"seat"`
	Role  Role      `json:"role"`
	Ready bool      `json:"ready"`
}

// BeingView is the redacted view of a being: the face card plus one
// entry per occupied resource slot, nil while the card is concealed
type BeingView struct {
	Face      deck.Card             `json:"face"`
	Resources map[string]*deck.Card `json:"resources"`
}

// StarView is the redacted view of a star. Hand is only populated for
// the owner; everyone else gets HandSize alone.
type StarView struct {
	Seat     Seat        `json:"seat"`
	Majesty  int         `json:"majesty"`
	HandSize int         `json:"handSize"`
	Hand     deck.Hand   `json:"hand,omitempty"`
	Beings   []BeingView `json:"beings,omitempty"`
}

// Snapshot is a read-only projection of the game built for one
// requesting player. It is recomputed on demand and reveals only what
// that player is entitled to see.
type Snapshot struct {
	Players         []PlayerView `json:"players"`
	Status          Status       `json:"status"`
	Stars           []StarView   `json:"stars"`
	SourceRemaining int          `json:"sourceRemaining"`
	Hand            deck.Hand    `json:"hand"`
	CurrentTrick    *Trick       `json:"currentTrick,omitempty"`
	LastTrick       *Trick       `json:"lastTrick,omitempty"`
}

// PlayingSeat returns the seat whose turn it is, if any
func (s Snapshot) PlayingSeat() (Seat, bool) {
	if s.Status.Stage != StagePlaying {
		return 0, false
	}
	return s.Status.ActiveSeat, true
}

// SeatPlayerName returns the display name of the player at a seat
func (s Snapshot) SeatPlayerName(seat Seat) (string, bool) {
	for _, p := range s.Players {
		if p.Seat == seat {
			return p.Name, true
		}
	}
	return "", false
}
