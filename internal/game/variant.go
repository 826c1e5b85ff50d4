package game

import (
	"fmt"

	"github.com/mmai/thevalley/internal/deck"
)

// Variant fixes the table parameters for one game instance: how many
// seats the ring has and how many cards each star is dealt. It cannot
// change once a player has joined.
type Variant struct {
	SeatCount int `json:"seatCount"`
	HandSize  int `json:"handSize"`
}

// DefaultVariant is the classic two-player valley
func DefaultVariant() Variant {
	return Variant{SeatCount: 2, HandSize: 10}
}

// Validate checks the variant against the deck size. The deal must
// leave at least one full twilight round in the source pile.
func (v Variant) Validate() error {
	if v.SeatCount < 1 {
		return fmt.Errorf("seat count must be positive, got %d", v.SeatCount)
	}
	if v.HandSize < 1 {
		return fmt.Errorf("hand size must be positive, got %d", v.HandSize)
	}
	if needed := v.SeatCount * (v.HandSize + 1); needed > deck.DeckSize {
		return fmt.Errorf("variant needs %d cards, deck has %d", needed, deck.DeckSize)
	}
	return nil
}
