package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit. In the valley each suit doubles as a
// being's resource category: hearts feed the heart slot, spades the
// weapon slot, diamonds the mind slot and clubs the power slot.
type Suit int

const (
	Hearts Suit = iota
	Spades
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the single ASCII letter used on the wire (e.g. "7h")
func (s Suit) Letter() string {
	switch s {
	case Hearts:
		return "h"
	case Spades:
		return "s"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Suits lists all four suits in resource-category order
func Suits() []Suit {
	return []Suit{Hearts, Spades, Diamonds, Clubs}
}

// Rank represents a card rank. The valley deck runs 1 through 10 plus
// the three face ranks; there is no ace.
type Rank int

const (
	Rank1 Rank = iota + 1
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	Jack
	Queen
	King
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch {
	case r >= Rank1 && r <= Rank9:
		return fmt.Sprintf("%d", int(r))
	case r == Rank10:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	default:
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the wire representation of a card (e.g. "7h", "Ts")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.Letter()
}

// IsFace returns true if the card is a face card (J, Q, K)
func (c Card) IsFace() bool {
	return c.Rank >= Jack
}

// ParseCard parses a two-character card string like "7h" or "Kc".
// Parsing is case-insensitive.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("card must be 2 characters, got %q", s)
	}

	var rank Rank
	switch r := strings.ToUpper(s[:1]); r {
	case "T":
		rank = Rank10
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	default:
		if r[0] < '1' || r[0] > '9' {
			return Card{}, fmt.Errorf("invalid rank %q in card %q", r, s)
		}
		rank = Rank(r[0] - '0')
	}

	var suit Suit
	switch strings.ToLower(s[1:]) {
	case "h":
		suit = Hearts
	case "s":
		suit = Spades
	case "d":
		suit = Diamonds
	case "c":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit %q in card %q", s[1:], s)
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses a concatenated card string like "7hKcTs"
func ParseCards(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("card string must have even length, got %d", len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
