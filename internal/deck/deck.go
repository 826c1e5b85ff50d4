package deck

import (
	"errors"
	"time"

	"github.com/mmai/thevalley/internal/randutil"
)

// DeckSize is the number of cards in a full valley deck
const DeckSize = 52

// ErrExhausted is returned when drawing from an empty deck. During a
// game this indicates an engine invariant violation: the engine checks
// emptiness before every phase that draws.
var ErrExhausted = errors.New("deck exhausted")

// Deck is an ordered pile of cards, drawn from the top. It backs both
// the source pile and any scripted test piles.
type Deck struct {
	cards []Card
}

// New creates a full 52-card deck in canonical order
func New() *Deck {
	d := &Deck{cards: make([]Card, 0, DeckSize)}
	for _, suit := range Suits() {
		for rank := Rank1; rank <= King; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	return d
}

// FromCards creates a deck holding exactly the given cards, top first.
// Used to script draw order in tests.
func FromCards(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle randomizes the deck order non-deterministically
func (d *Deck) Shuffle() {
	d.ShuffleSeeded(time.Now().UnixNano())
}

// ShuffleSeeded randomizes the deck order deterministically: the same
// seed over the same cards always yields the same order.
func (d *Deck) ShuffleSeeded(seed int64) {
	rng := randutil.New(seed)
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrExhausted
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DrawN draws n cards from the top; fails if fewer remain
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrExhausted
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards, nil
}

// Cards returns a copy of the remaining cards in draw order
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Remaining returns the number of cards left
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// IsEmpty returns true if no cards are left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}
