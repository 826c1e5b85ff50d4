package game

import "errors"

var (
	// ErrTurn is returned when a player acts out of turn
	ErrTurn = errors.New("not this player's turn")

	// ErrCardMissing is returned when a player plays a card they do not hold
	ErrCardMissing = errors.New("card not in player's hand")

	// ErrNoLastTrick is returned when querying the previous trick before
	// any trick has completed
	ErrNoLastTrick = errors.New("no trick has been completed yet")

	// ErrUnknownPlayer is returned for commands or snapshot requests from
	// an identity that is not seated at this table
	ErrUnknownPlayer = errors.New("unknown player")

	// ErrTableFull is returned when joining a game whose seats are all taken
	ErrTableFull = errors.New("all seats are taken")

	// ErrVariantLocked is returned when changing the variant after a
	// player has already joined
	ErrVariantLocked = errors.New("variant cannot change after players have joined")

	// ErrNotJoinable is returned when joining a game that has already started
	ErrNotJoinable = errors.New("game has already started")
)
