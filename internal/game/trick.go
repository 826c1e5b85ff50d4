package game

import "github.com/mmai/thevalley/internal/deck"

// Trick holds the cards on the table for one round of play: one
// optional slot per seat, the first seat to act, and the running
// winner. The winner only changes on a strict strength improvement, so
// the first-played card wins ties.
type Trick struct {
	Cards  []*deck.Card `json:"cards"`
	First  Seat         `json:"first"`
	Winner Seat         `json:"winner"`
}

// NewTrick creates an empty trick led by the given seat
func NewTrick(first Seat, seatCount int) *Trick {
	return &Trick{
		Cards:  make([]*deck.Card, seatCount),
		First:  first,
		Winner: first,
	}
}

// PlayCard marks the seat's slot and updates the running winner.
// Returns true if this play completes the trick, which happens when
// the seat just before the leader (in play order) has played.
func (t *Trick) PlayCard(seat Seat, card deck.Card) bool {
	c := card
	t.Cards[seat] = &c

	if seat == t.First {
		return false
	}

	if current := t.Cards[t.Winner]; current != nil && deck.Strength(card) > deck.Strength(*current) {
		t.Winner = seat
	}

	return seat == t.First.Previous(len(t.Cards))
}

// CardPlayed returns the card the seat contributed, if any
func (t *Trick) CardPlayed(seat Seat) *deck.Card {
	if int(seat) < 0 || int(seat) >= len(t.Cards) {
		return nil
	}
	return t.Cards[seat]
}

// PlayerPlayed returns the seat that contributed the card, if any
func (t *Trick) PlayerPlayed(card deck.Card) (Seat, bool) {
	for i, c := range t.Cards {
		if c != nil && *c == card {
			return Seat(i), true
		}
	}
	return 0, false
}

// Has returns true if the card is on the table in this trick
func (t *Trick) Has(card deck.Card) bool {
	_, ok := t.PlayerPlayed(card)
	return ok
}

// Clone returns an independent copy of the trick
func (t *Trick) Clone() *Trick {
	out := &Trick{
		Cards:  make([]*deck.Card, len(t.Cards)),
		First:  t.First,
		Winner: t.Winner,
	}
	for i, c := range t.Cards {
		if c != nil {
			card := *c
			out.Cards[i] = &card
		}
	}
	return out
}

// IsComplete returns true once every seat has contributed a card
func (t *Trick) IsComplete() bool {
	for _, c := range t.Cards {
		if c == nil {
			return false
		}
	}
	return true
}
