package game

import "github.com/mmai/thevalley/internal/deck"

// Star is a seated player's board entity: a private hand, a majesty
// score and the beings summoned in front of them. The redacted view it
// produces is the only form the engine ever hands to a non-owner.
type Star struct {
	seat    Seat
	majesty int
	hand    deck.Hand
	beings  []*Being
}

// NewStar creates a star for a seat with an empty hand
func NewStar(seat Seat) *Star {
	return &Star{seat: seat}
}

// Seat returns the star's seat
func (s *Star) Seat() Seat {
	return s.seat
}

// Majesty returns the star's majesty score
func (s *Star) Majesty() int {
	return s.majesty
}

// AddMajesty adjusts the star's majesty score
func (s *Star) AddMajesty(delta int) {
	s.majesty += delta
}

// Hand returns the star's private hand
func (s *Star) Hand() deck.Hand {
	return s.hand
}

// AddToHand adds a card to the star's hand
func (s *Star) AddToHand(card deck.Card) {
	s.hand.Add(card)
}

// SummonBeing attaches a being to the star
func (s *Star) SummonBeing(being *Being) {
	s.beings = append(s.beings, being)
}

// Beings returns the star's attached beings
func (s *Star) Beings() []*Being {
	return s.beings
}

// MakeView builds the information-filtered view of the star. The owner
// sees their full hand; everyone else only its size. Being resources
// are filtered through the revealed set either way.
func (s *Star) MakeView(isOwner bool, revealed RevealedSet) StarView {
	view := StarView{
		Seat:     s.seat,
		Majesty:  s.majesty,
		HandSize: s.hand.Size(),
	}
	if isOwner {
		view.Hand = s.hand.Clone()
	}
	for _, being := range s.beings {
		view.Beings = append(view.Beings, being.MakeView(revealed))
	}
	return view
}
