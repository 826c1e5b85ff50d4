package deck

// Hand is an ordered collection of cards held by a single player.
// Cards keep their insertion order so seeded deals stay reproducible.
type Hand []Card

// Add appends a card to the hand
func (h *Hand) Add(card Card) {
	*h = append(*h, card)
}

// Has returns true if the hand contains the card
func (h Hand) Has(card Card) bool {
	for _, c := range h {
		if c == card {
			return true
		}
	}
	return false
}

// Remove removes the first occurrence of card from the hand and
// returns true if it was present
func (h *Hand) Remove(card Card) bool {
	for i, c := range *h {
		if c == card {
			*h = append((*h)[:i], (*h)[i+1:]...)
			return true
		}
	}
	return false
}

// Size returns the number of cards in the hand
func (h Hand) Size() int {
	return len(h)
}

// Clone returns an independent copy of the hand
func (h Hand) Clone() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// String returns the wire representation of the hand (e.g. "7hKcTs")
func (h Hand) String() string {
	s := ""
	for _, c := range h {
		s += c.String()
	}
	return s
}
