package game

import "github.com/mmai/thevalley/internal/deck"

// Resource category names, one per suit: hearts feed a being's heart,
// spades arm it, diamonds shape its mind, clubs grant it power.
const (
	CategoryHeart  = "heart"
	CategoryWeapon = "weapon"
	CategoryMind   = "mind"
	CategoryPower  = "power"
)

// ResourceCategory returns the category name a suit binds to
func ResourceCategory(suit deck.Suit) string {
	switch suit {
	case deck.Hearts:
		return CategoryHeart
	case deck.Spades:
		return CategoryWeapon
	case deck.Diamonds:
		return CategoryMind
	default:
		return CategoryPower
	}
}

// Being is a sub-entity attached to a star. Its face card is public;
// each of its four suit-keyed resource slots holds at most one card
// that stays concealed until the card enters the revealed set.
type Being struct {
	face      deck.Card
	resources map[deck.Suit]deck.Card
}

// NewBeing creates a being with the given public face card and no
// resources attached
func NewBeing(face deck.Card) *Being {
	return &Being{
		face:      face,
		resources: make(map[deck.Suit]deck.Card, 4),
	}
}

// Face returns the being's public face card
func (b *Being) Face() deck.Card {
	return b.face
}

// AttachResource binds a card to the slot of its own suit, replacing
// any card already there. The replaced card, if any, is returned.
func (b *Being) AttachResource(card deck.Card) (deck.Card, bool) {
	prev, had := b.resources[card.Suit]
	b.resources[card.Suit] = card
	return prev, had
}

// Resource returns the card in the slot for the given suit
func (b *Being) Resource(suit deck.Suit) (deck.Card, bool) {
	card, ok := b.resources[suit]
	return card, ok
}

// Heart returns the card in the heart slot
func (b *Being) Heart() (deck.Card, bool) { return b.Resource(deck.Hearts) }

// Weapon returns the card in the weapon slot
func (b *Being) Weapon() (deck.Card, bool) { return b.Resource(deck.Spades) }

// Mind returns the card in the mind slot
func (b *Being) Mind() (deck.Card, bool) { return b.Resource(deck.Diamonds) }

// Power returns the card in the power slot
func (b *Being) Power() (deck.Card, bool) { return b.Resource(deck.Clubs) }

// Resources returns the occupied slots keyed by suit
func (b *Being) Resources() map[deck.Suit]deck.Card {
	out := make(map[deck.Suit]deck.Card, len(b.resources))
	for suit, card := range b.resources {
		out[suit] = card
	}
	return out
}

// MakeView builds the redacted view of the being: every occupied slot
// appears under its category name, with a value only if the card is
// publicly known. The face card is always visible.
func (b *Being) MakeView(revealed RevealedSet) BeingView {
	resources := make(map[string]*deck.Card, len(b.resources))
	for suit, card := range b.resources {
		if revealed.Contains(card) {
			c := card
			resources[ResourceCategory(suit)] = &c
		} else {
			resources[ResourceCategory(suit)] = nil
		}
	}
	return BeingView{Face: b.face, Resources: resources}
}
