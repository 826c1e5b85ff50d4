package game

import "github.com/mmai/thevalley/internal/deck"

// TrickResult reports what a successful play did to the running trick
type TrickResult struct {
	TrickOver bool
	Winner    Seat
	DealOver  bool
}

// DealState drives the card-play sub-game: it validates each play
// against turn order and the acting player's hand, tracks the sequence
// of tricks, and hands trick completion back to the engine for
// bookkeeping. Validation always precedes mutation, so a rejected play
// leaves every hand and trick untouched.
type DealState struct {
	seatCount int
	handSize  int
	current   Seat
	tricks    []*Trick
}

// NewDealState starts a deal with the given leader. The deal runs for
// handSize tricks.
func NewDealState(first Seat, seatCount, handSize int) *DealState {
	return &DealState{
		seatCount: seatCount,
		handSize:  handSize,
		current:   first,
		tricks:    []*Trick{NewTrick(first, seatCount)},
	}
}

// PlayCard validates and applies one play. The acting player's hand is
// passed in by the engine; on success the card moves from the hand to
// the trick. Fails with ErrTurn out of turn and ErrCardMissing when the
// hand does not hold the card.
func (d *DealState) PlayCard(seat Seat, card deck.Card, hand *deck.Hand) (TrickResult, error) {
	if seat != d.current {
		return TrickResult{}, ErrTurn
	}
	if !hand.Has(card) {
		return TrickResult{}, ErrCardMissing
	}

	trickOver := d.currentTrick().PlayCard(seat, card)
	hand.Remove(card)

	if !trickOver {
		d.current = seat.Next(d.seatCount)
		return TrickResult{}, nil
	}

	winner := d.currentTrick().Winner
	dealOver := len(d.tricks) == d.handSize
	if !dealOver {
		d.tricks = append(d.tricks, NewTrick(winner, d.seatCount))
	}
	d.current = winner

	return TrickResult{TrickOver: true, Winner: winner, DealOver: dealOver}, nil
}

// CurrentPlayer returns the seat expected to play next
func (d *DealState) CurrentPlayer() Seat {
	return d.current
}

// CurrentTrick returns the trick being played
func (d *DealState) CurrentTrick() *Trick {
	return d.currentTrick()
}

// LastTrick returns the most recently completed trick. Fails with
// ErrNoLastTrick before any trick has completed.
func (d *DealState) LastTrick() (*Trick, error) {
	// Only the final trick of the deal stays in place once complete;
	// every other completed trick is followed by a fresh one.
	if d.currentTrick().IsComplete() {
		return d.currentTrick(), nil
	}
	if len(d.tricks) > 1 {
		return d.tricks[len(d.tricks)-2], nil
	}
	return nil, ErrNoLastTrick
}

// IsOver returns true once all tricks of the deal have been played
func (d *DealState) IsOver() bool {
	return len(d.tricks) == d.handSize && d.currentTrick().IsComplete()
}

// TrickCount returns the number of completed tricks
func (d *DealState) TrickCount() int {
	n := len(d.tricks)
	if !d.currentTrick().IsComplete() {
		n--
	}
	return n
}

// TableCards returns every card played into this deal's tricks so far
func (d *DealState) TableCards() []deck.Card {
	var out []deck.Card
	for _, trick := range d.tricks {
		for _, c := range trick.Cards {
			if c != nil {
				out = append(out, *c)
			}
		}
	}
	return out
}

func (d *DealState) currentTrick() *Trick {
	return d.tricks[len(d.tricks)-1]
}
