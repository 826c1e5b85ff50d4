package game

import "fmt"

// Seat is a fixed position in the table's play-order ring, distinct
// from player identity. Valid seats are [0, seatCount).
type Seat int

// SeatOf maps an arbitrary index onto a seat, wrapping modulo seatCount
func SeatOf(index, seatCount int) Seat {
	return Seat(((index % seatCount) + seatCount) % seatCount)
}

// Next returns the seat after s in play order
func (s Seat) Next(seatCount int) Seat {
	return SeatOf(int(s)+1, seatCount)
}

// Previous returns the seat before s in play order
func (s Seat) Previous(seatCount int) Seat {
	return SeatOf(int(s)-1, seatCount)
}

// String returns the string representation of a seat
func (s Seat) String() string {
	return fmt.Sprintf("P%d", int(s))
}
