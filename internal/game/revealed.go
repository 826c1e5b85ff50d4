package game

import "github.com/mmai/thevalley/internal/deck"

// RevealedSet is the set of cards publicly known to every player. It
// only ever grows for the lifetime of a game: cards are never
// un-revealed.
type RevealedSet map[deck.Card]struct{}

// NewRevealedSet creates an empty revealed set
func NewRevealedSet() RevealedSet {
	return RevealedSet{}
}

// Add marks a card as publicly known
func (r RevealedSet) Add(card deck.Card) {
	r[card] = struct{}{}
}

// Contains returns true if the card is publicly known
func (r RevealedSet) Contains(card deck.Card) bool {
	_, ok := r[card]
	return ok
}
