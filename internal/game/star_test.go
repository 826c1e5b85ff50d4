package game

import (
	"testing"

	"github.com/mmai/thevalley/internal/deck"
)

func TestBeingResourceSlots(t *testing.T) {
	being := NewBeing(mustCard(t, "Jh"))

	if _, ok := being.Heart(); ok {
		t.Error("new being should have no heart")
	}

	being.AttachResource(mustCard(t, "7h"))
	being.AttachResource(mustCard(t, "3s"))

	if heart, ok := being.Heart(); !ok || heart != mustCard(t, "7h") {
		t.Errorf("heart = %v/%v, want 7h", heart, ok)
	}
	if weapon, ok := being.Weapon(); !ok || weapon != mustCard(t, "3s") {
		t.Errorf("weapon = %v/%v, want 3s", weapon, ok)
	}
	if _, ok := being.Mind(); ok {
		t.Error("mind slot should be empty")
	}
	if _, ok := being.Power(); ok {
		t.Error("power slot should be empty")
	}

	// A slot holds at most one card; attaching again replaces it.
	prev, had := being.AttachResource(mustCard(t, "9h"))
	if !had || prev != mustCard(t, "7h") {
		t.Errorf("replaced = %v/%v, want 7h", prev, had)
	}
	if heart, _ := being.Heart(); heart != mustCard(t, "9h") {
		t.Errorf("heart = %v, want 9h", heart)
	}
}

func TestBeingRedaction(t *testing.T) {
	being := NewBeing(mustCard(t, "Qd"))
	being.AttachResource(mustCard(t, "7h"))
	being.AttachResource(mustCard(t, "4c"))

	revealed := NewRevealedSet()
	revealed.Add(mustCard(t, "7h"))

	view := being.MakeView(revealed)

	if view.Face != mustCard(t, "Qd") {
		t.Errorf("face should always be visible, got %v", view.Face)
	}
	if got := view.Resources[CategoryHeart]; got == nil || *got != mustCard(t, "7h") {
		t.Errorf("revealed heart should be visible, got %v", got)
	}
	if got := view.Resources[CategoryPower]; got != nil {
		t.Errorf("concealed power must not leak, got %v", *got)
	}
	if _, present := view.Resources[CategoryPower]; !present {
		t.Error("occupied slot should appear as concealed, not vanish")
	}
	if _, present := view.Resources[CategoryMind]; present {
		t.Error("empty slot should not appear in the view")
	}
}

func TestStarViewRedactsHand(t *testing.T) {
	star := NewStar(1)
	for _, card := range mustHand(t, "2h5sKd") {
		star.AddToHand(card)
	}
	star.AddMajesty(4)

	revealed := NewRevealedSet()

	owner := star.MakeView(true, revealed)
	if owner.Hand.Size() != 3 {
		t.Errorf("owner hand size = %d, want 3", owner.Hand.Size())
	}
	if owner.HandSize != 3 {
		t.Errorf("owner HandSize = %d, want 3", owner.HandSize)
	}
	if owner.Majesty != 4 {
		t.Errorf("majesty = %d, want 4", owner.Majesty)
	}

	other := star.MakeView(false, revealed)
	if other.Hand != nil {
		t.Errorf("non-owner must not see the hand, got %v", other.Hand)
	}
	if other.HandSize != 3 {
		t.Errorf("non-owner HandSize = %d, want 3", other.HandSize)
	}
}

func TestStarViewIsACopy(t *testing.T) {
	star := NewStar(0)
	star.AddToHand(mustCard(t, "2h"))

	view := star.MakeView(true, NewRevealedSet())
	view.Hand[0] = mustCard(t, "Kc")

	if star.Hand()[0] != mustCard(t, "2h") {
		t.Error("mutating a view must not touch the star's hand")
	}
}

func TestResourceCategories(t *testing.T) {
	tests := []struct {
		suit     deck.Suit
		category string
	}{
		{deck.Hearts, CategoryHeart},
		{deck.Spades, CategoryWeapon},
		{deck.Diamonds, CategoryMind},
		{deck.Clubs, CategoryPower},
	}
	for _, tt := range tests {
		if got := ResourceCategory(tt.suit); got != tt.category {
			t.Errorf("ResourceCategory(%v) = %q, want %q", tt.suit, got, tt.category)
		}
	}
}
