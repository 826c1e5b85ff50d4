package game

import "testing"

func TestSeatRing(t *testing.T) {
	tests := []struct {
		name      string
		seatCount int
		seat      Seat
		next      Seat
		previous  Seat
	}{
		{"two player wrap", 2, 0, 1, 1},
		{"two player from last", 2, 1, 0, 0},
		{"four player middle", 4, 1, 2, 0},
		{"four player wrap forward", 4, 3, 0, 2},
		{"four player wrap backward", 4, 0, 1, 3},
		{"single seat", 1, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seat.Next(tt.seatCount); got != tt.next {
				t.Errorf("Next() = %v, want %v", got, tt.next)
			}
			if got := tt.seat.Previous(tt.seatCount); got != tt.previous {
				t.Errorf("Previous() = %v, want %v", got, tt.previous)
			}
		})
	}
}

func TestSeatOf(t *testing.T) {
	if got := SeatOf(5, 4); got != 1 {
		t.Errorf("SeatOf(5, 4) = %v, want 1", got)
	}
	if got := SeatOf(-1, 4); got != 3 {
		t.Errorf("SeatOf(-1, 4) = %v, want 3", got)
	}
	if got := SeatOf(0, 2); got != 0 {
		t.Errorf("SeatOf(0, 2) = %v, want 0", got)
	}
}

func TestSeatCycleCoversAllSeats(t *testing.T) {
	const count = 5
	seen := map[Seat]bool{}
	s := Seat(0)
	for i := 0; i < count; i++ {
		seen[s] = true
		s = s.Next(count)
	}
	if s != 0 {
		t.Errorf("cycle of %d should return to seat 0, got %v", count, s)
	}
	if len(seen) != count {
		t.Errorf("cycle visited %d seats, want %d", len(seen), count)
	}
}
