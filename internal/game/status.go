package game

import (
	"fmt"

	"github.com/mmai/thevalley/internal/deck"
)

// Stage identifies which state the game's status machine is in
type Stage int

const (
	StagePregame Stage = iota
	StageTwilight
	StagePlaying
	StageEndgame
)

// String returns the string representation of a stage
func (s Stage) String() string {
	switch s {
	case StagePregame:
		return "pregame"
	case StageTwilight:
		return "twilight"
	case StagePlaying:
		return "playing"
	case StageEndgame:
		return "endgame"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so stages appear as
// strings on the wire
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Stage) UnmarshalText(text []byte) error {
	switch string(text) {
	case "pregame":
		*s = StagePregame
	case "twilight":
		*s = StageTwilight
	case "playing":
		*s = StagePlaying
	case "endgame":
		*s = StageEndgame
	default:
		return fmt.Errorf("unknown stage %q", text)
	}
	return nil
}

// Phase is the sub-phase of an active seat's turn during play
type Phase int

const (
	PhaseInfluence Phase = iota
	PhaseAct
	PhaseSource
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseInfluence:
		return "influence"
	case PhaseAct:
		return "act"
	case PhaseSource:
		return "source"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "influence":
		*p = PhaseInfluence
	case "act":
		*p = PhaseAct
	case "source":
		*p = PhaseSource
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// DrawRound records one round of the twilight draw-off: the card each
// seat drew from the source pile
type DrawRound map[Seat]deck.Card

// Status is the game's phase machine value: a closed set of variants
// whose payload depends on the stage. Exactly one Status is current at
// any time and it is owned exclusively by the engine; every transition
// is enumerated in GameEngine.advance.
type Status struct {
	Stage Stage `json:"stage"`

	// Twilight payload
	Candidate   *Seat       `json:"candidate,omitempty"`
	DrawHistory []DrawRound `json:"drawHistory,omitempty"`

	// Playing payload
	ActiveSeat Seat  `json:"activeSeat"`
	Phase      Phase `json:"phase"`
}

// PregameStatus is the initial status
func PregameStatus() Status {
	return Status{Stage: StagePregame}
}

// TwilightStatus is the draw-off status. Candidate is nil when the
// source pile ran out before a unique maximum was drawn.
func TwilightStatus(candidate *Seat, history []DrawRound) Status {
	return Status{Stage: StageTwilight, Candidate: candidate, DrawHistory: history}
}

// PlayingStatus is the main play-loop status
func PlayingStatus(seat Seat, phase Phase) Status {
	return Status{Stage: StagePlaying, ActiveSeat: seat, Phase: phase}
}

// EndgameStatus is the terminal status
func EndgameStatus() Status {
	return Status{Stage: StageEndgame}
}

// String returns a short description for logs
func (s Status) String() string {
	switch s.Stage {
	case StageTwilight:
		if s.Candidate != nil {
			return fmt.Sprintf("twilight(first=%s, rounds=%d)", *s.Candidate, len(s.DrawHistory))
		}
		return fmt.Sprintf("twilight(unresolved, rounds=%d)", len(s.DrawHistory))
	case StagePlaying:
		return fmt.Sprintf("playing(%s, %s)", s.ActiveSeat, s.Phase)
	default:
		return s.Stage.String()
	}
}
