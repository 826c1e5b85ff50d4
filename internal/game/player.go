package game

import (
	"fmt"

	"github.com/google/uuid"
)

// PlayerInfo is the external identity the engine consumes: a stable id
// and a display name. Authentication happens outside the engine.
type PlayerInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Role tags what a seated player is doing in the current deal
type Role int

const (
	RoleUnknown Role = iota
	RolePreDeal
	RoleSpectator
)

// String returns the string representation of a role
func (r Role) String() string {
	switch r {
	case RoleUnknown:
		return "unknown"
	case RolePreDeal:
		return "pre_deal"
	case RoleSpectator:
		return "spectator"
	default:
		return "invalid"
	}
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unknown":
		*r = RoleUnknown
	case "pre_deal":
		*r = RolePreDeal
	case "spectator":
		*r = RoleSpectator
	default:
		return fmt.Errorf("unknown role %q", text)
	}
	return nil
}

// PlayerRecord is the engine's authoritative per-player state, keyed by
// identity in the engine's player map. At most one record per seat.
type PlayerRecord struct {
	Info  PlayerInfo
	Seat  Seat
	Role  Role
	Ready bool
}
