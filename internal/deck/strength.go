package deck

// Strength returns the tie-break strength of a card. Numeric ranks are
// worth their face value; face cards are weak: Jack counts 1, Queen 2,
// King 3. Suit never matters.
func Strength(card Card) int {
	switch card.Rank {
	case Jack:
		return 1
	case Queen:
		return 2
	case King:
		return 3
	default:
		return int(card.Rank)
	}
}
