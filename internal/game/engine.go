package game

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mmai/thevalley/internal/deck"
)

// GameEngine is the rules engine and session state machine for one
// valley game. It owns the seat assignments, the status machine, the
// per-player stars, the source pile and the revealed set.
//
// The engine is a plain state container: it is never internally
// concurrent and must be driven by serialized commands. The owning room
// holds a lock around every call, including the snapshot computation
// that follows it.
type GameEngine struct {
	logger   *log.Logger
	variant  Variant
	players  map[uuid.UUID]*PlayerRecord
	stars    map[uuid.UUID]*Star
	source   *deck.Deck
	deal     *DealState
	status   Status
	revealed RevealedSet

	// Number of cards put in play at the deal, checked by the
	// conservation invariant. DeckSize unless the pile was injected.
	inPlay int

	seed     *int64
	scripted *deck.Deck
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithVariant sets the table variant before any player joins
func WithVariant(v Variant) Option {
	return func(e *GameEngine) { e.variant = v }
}

// WithSeed makes the source pile shuffle deterministic
func WithSeed(seed int64) Option {
	return func(e *GameEngine) { e.seed = &seed }
}

// WithSourcePile injects a prepared pile instead of a shuffled deck.
// The pile is consumed top-first: one card per seat per deal pass, then
// one card per seat per twilight round. Used to script draw order in
// tests.
func WithSourcePile(pile *deck.Deck) Option {
	return func(e *GameEngine) { e.scripted = pile }
}

// NewGameEngine creates an engine for a fresh game in the pregame state
func NewGameEngine(logger *log.Logger, opts ...Option) *GameEngine {
	e := &GameEngine{
		logger:   logger.WithPrefix("engine"),
		variant:  DefaultVariant(),
		players:  make(map[uuid.UUID]*PlayerRecord),
		stars:    make(map[uuid.UUID]*Star),
		status:   PregameStatus(),
		revealed: NewRevealedSet(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Variant returns the engine's table variant
func (e *GameEngine) Variant() Variant {
	return e.variant
}

// Status returns the current status machine value
func (e *GameEngine) Status() Status {
	return e.status
}

// PlayerCount returns the number of seated players
func (e *GameEngine) PlayerCount() int {
	return len(e.players)
}

// IsJoinable returns true while new players can still take a seat
func (e *GameEngine) IsJoinable() bool {
	return e.status.Stage == StagePregame && len(e.players) < e.variant.SeatCount
}

// SetVariant fixes the seat count and hand size for this game. It
// fails with ErrVariantLocked once any player has joined; reconciling
// assigned seats with a new seat count is not worth defining.
func (e *GameEngine) SetVariant(v Variant) error {
	if len(e.players) > 0 {
		return ErrVariantLocked
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("invalid variant: %w", err)
	}
	e.variant = v
	return nil
}

// AddPlayer seats a player at the lowest unoccupied seat. Joining again
// with a known identity returns the already-assigned seat and changes
// nothing.
func (e *GameEngine) AddPlayer(info PlayerInfo) (Seat, error) {
	if rec, ok := e.players[info.ID]; ok {
		return rec.Seat, nil
	}
	if e.status.Stage != StagePregame {
		return 0, ErrNotJoinable
	}

	seat, ok := e.lowestFreeSeat()
	if !ok {
		return 0, ErrTableFull
	}

	e.players[info.ID] = &PlayerRecord{
		Info: info,
		Seat: seat,
		Role: RoleSpectator,
	}
	e.logger.Info("Player joined", "player", info.Name, "seat", seat)
	return seat, nil
}

// Players returns the ids of all seated players
func (e *GameEngine) Players() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.players))
	for id := range e.players {
		ids = append(ids, id)
	}
	return ids
}

// PlayerAtSeat returns the id of the player holding a seat
func (e *GameEngine) PlayerAtSeat(seat Seat) (uuid.UUID, bool) {
	for id, p := range e.players {
		if p.Seat == seat {
			return id, true
		}
	}
	return uuid.Nil, false
}

// RemovePlayer frees a player's seat. Returns false for an unknown id.
func (e *GameEngine) RemovePlayer(id uuid.UUID) bool {
	rec, ok := e.players[id]
	if !ok {
		return false
	}
	delete(e.players, id)
	e.logger.Info("Player left", "player", rec.Info.Name, "seat", rec.Seat)
	return true
}

// SetReady marks a player ready. In the pregame it returns true when
// this call brought the table to quorum and started the game; during a
// game a ready signal is the explicit phase-advance trigger.
func (e *GameEngine) SetReady(id uuid.UUID) (bool, error) {
	rec, ok := e.players[id]
	if !ok {
		return false, ErrUnknownPlayer
	}

	rec.Ready = true
	if e.status.Stage != StagePregame {
		e.advance()
		return false, nil
	}

	rec.Role = RolePreDeal
	count := 0
	for _, p := range e.players {
		if p.Role == RolePreDeal {
			count++
		}
	}
	if count == e.variant.SeatCount {
		e.initGame()
		return true, nil
	}
	return false, nil
}

// SetNotReady clears a player's ready flag
func (e *GameEngine) SetNotReady(id uuid.UUID) error {
	rec, ok := e.players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	rec.Ready = false
	return nil
}

// Play applies one card play for the identified player. Validation
// precedes any mutation: a failed play leaves hands, tricks, the phase
// and the revealed set exactly as they were.
func (e *GameEngine) Play(id uuid.UUID, card deck.Card) error {
	rec, ok := e.players[id]
	if !ok {
		return ErrUnknownPlayer
	}
	if e.status.Stage != StagePlaying || e.deal == nil {
		return ErrTurn
	}

	star := e.stars[id]
	result, err := e.deal.PlayCard(rec.Seat, card, &star.hand)
	if err != nil {
		return err
	}

	// A card on the table is public knowledge from then on.
	e.revealed.Add(card)

	switch {
	case result.DealOver:
		e.endLastTrick()
		e.status = EndgameStatus()
		e.logger.Info("Deal complete", "winner", result.Winner)
	case result.TrickOver:
		e.endTrick()
		e.status = PlayingStatus(result.Winner, PhaseInfluence)
		e.logger.Debug("Trick complete", "winner", result.Winner)
	default:
		e.status = PlayingStatus(e.deal.CurrentPlayer(), PhaseInfluence)
	}

	if result.TrickOver {
		if err := e.validateCardConservation(); err != nil {
			// An engine invariant broke; surface loudly, never retry.
			e.logger.Error("Card conservation violation detected", "error", err)
			return fmt.Errorf("card conservation violation: %w", err)
		}
	}
	return nil
}

// LastTrick returns the most recently completed trick, or
// ErrNoLastTrick before the first trick has completed.
func (e *GameEngine) LastTrick() (*Trick, error) {
	if e.deal == nil {
		return nil, ErrNoLastTrick
	}
	return e.deal.LastTrick()
}

// MakeSnapshot builds the information-filtered view of the game for the
// requesting player. Fails with ErrUnknownPlayer for unseated ids.
func (e *GameEngine) MakeSnapshot(id uuid.UUID) (Snapshot, error) {
	if _, ok := e.players[id]; !ok {
		return Snapshot{}, ErrUnknownPlayer
	}

	snapshot := Snapshot{Status: e.status}

	// Seat ordering is computed here rather than maintained alongside
	// the identity-keyed maps, so there is a single source of truth.
	for _, p := range e.playersBySeat() {
		snapshot.Players = append(snapshot.Players, PlayerView{
			ID:    p.Info.ID,
			Name:  p.Info.Name,
			Seat:  p.Seat,
			Role:  p.Role,
			Ready: p.Ready,
		})
		if star, ok := e.stars[p.Info.ID]; ok {
			snapshot.Stars = append(snapshot.Stars, star.MakeView(p.Info.ID == id, e.revealed))
		}
	}

	if e.source != nil {
		snapshot.SourceRemaining = e.source.Remaining()
	}
	if star, ok := e.stars[id]; ok {
		snapshot.Hand = star.hand.Clone()
	}
	if e.deal != nil {
		snapshot.CurrentTrick = e.deal.CurrentTrick().Clone()
		if last, err := e.deal.LastTrick(); err == nil {
			snapshot.LastTrick = last.Clone()
		}
	}
	return snapshot, nil
}

// initGame deals the opening hands and runs the twilight draw-off.
// Triggered from SetReady once every seat has signalled ready.
func (e *GameEngine) initGame() {
	e.source = e.scripted
	if e.source == nil {
		e.source = deck.New()
		if e.seed != nil {
			e.source.ShuffleSeeded(*e.seed)
		} else {
			e.source.Shuffle()
		}
	}
	e.inPlay = e.source.Remaining()

	ordered := e.playersBySeat()
	for _, p := range ordered {
		e.stars[p.Info.ID] = NewStar(p.Seat)
		p.Role = RoleUnknown
	}

	// One card per star per pass, hand-size passes.
	for i := 0; i < e.variant.HandSize; i++ {
		for _, p := range ordered {
			card, err := e.source.Draw()
			if err != nil {
				e.logger.Error("Source pile exhausted during deal", "error", err)
				e.status = EndgameStatus()
				return
			}
			e.stars[p.Info.ID].AddToHand(card)
		}
	}

	candidate, history := e.runTwilight(ordered)
	e.status = TwilightStatus(candidate, history)

	if candidate != nil {
		e.logger.Info("Twilight resolved", "first", *candidate, "rounds", len(history))
	} else {
		e.logger.Warn("Twilight unresolved, source pile exhausted", "rounds", len(history))
	}

	if err := e.validateCardConservation(); err != nil {
		e.logger.Error("Card conservation violation after deal", "error", err)
	}
}

// runTwilight draws one card per seat per round until a single seat
// holds the strict strength maximum. Twilight draws land in the
// drawers' hands and are public. Returns a nil candidate if the pile
// cannot serve another full round before a unique maximum appears.
func (e *GameEngine) runTwilight(ordered []*PlayerRecord) (*Seat, []DrawRound) {
	var history []DrawRound
	var candidate *Seat

	for candidate == nil && e.source.Remaining() >= e.variant.SeatCount {
		round := DrawRound{}
		for _, p := range ordered {
			card, err := e.source.Draw()
			if err != nil {
				e.logger.Error("Source pile exhausted mid twilight round", "error", err)
				return nil, history
			}
			e.stars[p.Info.ID].AddToHand(card)
			e.revealed.Add(card)
			round[p.Seat] = card
		}
		history = append(history, round)

		best := -1
		var bestSeat Seat
		tied := false
		for _, p := range ordered {
			s := deck.Strength(round[p.Seat])
			switch {
			case s > best:
				best, bestSeat, tied = s, p.Seat, false
			case s == best:
				tied = true
			}
		}
		if !tied {
			seat := bestSeat
			candidate = &seat
		}
	}
	return candidate, history
}

// advance fires the explicit phase-advance trigger. Every transition of
// the status machine is enumerated here; Pregame and Endgame have none.
func (e *GameEngine) advance() {
	switch e.status.Stage {
	case StageTwilight:
		if e.status.Candidate == nil {
			// No first player could be determined before the pile ran
			// out. What are the odds? Straight to the endgame.
			e.status = EndgameStatus()
			return
		}
		first := *e.status.Candidate
		e.deal = NewDealState(first, e.variant.SeatCount, e.variant.HandSize)
		e.status = PlayingStatus(first, PhaseInfluence)
		e.logger.Info("Play begins", "first", first)

	case StagePlaying:
		switch e.status.Phase {
		case PhaseInfluence:
			e.status = PlayingStatus(e.status.ActiveSeat, PhaseAct)
		case PhaseAct:
			if e.source.IsEmpty() {
				e.status = EndgameStatus()
				return
			}
			e.status = PlayingStatus(e.status.ActiveSeat, PhaseSource)
		case PhaseSource:
			e.status = PlayingStatus(e.status.ActiveSeat.Next(e.variant.SeatCount), PhaseInfluence)
		}

	case StagePregame, StageEndgame:
	}
}

// endTrick resets the ready flags of everyone still in the deal, so
// the next trick waits for a fresh round of ready signals
func (e *GameEngine) endTrick() {
	for _, p := range e.players {
		if p.Role != RoleSpectator {
			p.Ready = false
		}
	}
}

// endLastTrick additionally clears roles once the deal's final trick
// has been played
func (e *GameEngine) endLastTrick() {
	for _, p := range e.players {
		if p.Role != RoleSpectator {
			p.Ready = false
			p.Role = RoleUnknown
		}
	}
}

// playersBySeat returns the player records ordered by seat
func (e *GameEngine) playersBySeat() []*PlayerRecord {
	ordered := make([]*PlayerRecord, 0, len(e.players))
	for _, p := range e.players {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seat < ordered[j].Seat })
	return ordered
}

// lowestFreeSeat finds the lowest seat not yet assigned
func (e *GameEngine) lowestFreeSeat() (Seat, bool) {
	taken := make(map[Seat]bool, len(e.players))
	for _, p := range e.players {
		taken[p.Seat] = true
	}
	for i := 0; i < e.variant.SeatCount; i++ {
		if !taken[Seat(i)] {
			return Seat(i), true
		}
	}
	return 0, false
}

// validateCardConservation checks that the source pile, every hand,
// every occupied resource slot and every card on the table together
// hold every card put in play exactly once
func (e *GameEngine) validateCardConservation() error {
	if e.source == nil {
		return nil
	}

	counts := make(map[deck.Card]int, e.inPlay)
	total := 0
	add := func(c deck.Card) {
		counts[c]++
		total++
	}

	for _, c := range e.source.Cards() {
		add(c)
	}
	for _, star := range e.stars {
		for _, c := range star.hand {
			add(c)
		}
		for _, being := range star.beings {
			add(being.face)
			for _, c := range being.resources {
				add(c)
			}
		}
	}
	if e.deal != nil {
		for _, c := range e.deal.TableCards() {
			add(c)
		}
	}

	for card, n := range counts {
		if n > 1 {
			return fmt.Errorf("card %v appears %d times", card, n)
		}
	}
	if total != e.inPlay {
		return fmt.Errorf("expected %d cards in play, found %d", e.inPlay, total)
	}
	return nil
}
