package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmai/thevalley/internal/deck"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func testPlayer(name string) PlayerInfo {
	return PlayerInfo{ID: uuid.New(), Name: name}
}

// smallVariant keeps scripted piles short: two seats, two tricks
var smallVariant = Variant{SeatCount: 2, HandSize: 2}

// scriptedEngine builds a two-player engine around a scripted pile and
// returns it with both player identities seated
func scriptedEngine(t *testing.T, pile string) (*GameEngine, PlayerInfo, PlayerInfo) {
	t.Helper()
	cards, err := deck.ParseCards(pile)
	require.NoError(t, err)

	e := NewGameEngine(testLogger(),
		WithVariant(smallVariant),
		WithSourcePile(deck.FromCards(cards...)),
	)

	p0, p1 := testPlayer("alice"), testPlayer("bob")
	seat0, err := e.AddPlayer(p0)
	require.NoError(t, err)
	require.Equal(t, Seat(0), seat0)
	seat1, err := e.AddPlayer(p1)
	require.NoError(t, err)
	require.Equal(t, Seat(1), seat1)

	return e, p0, p1
}

// startScripted readies both players, which deals the pile round-robin
// (P0, P1, P0, P1) and then runs the twilight draw-off
func startScripted(t *testing.T, e *GameEngine, p0, p1 PlayerInfo) {
	t.Helper()
	started, err := e.SetReady(p0.ID)
	require.NoError(t, err)
	require.False(t, started)
	started, err = e.SetReady(p1.ID)
	require.NoError(t, err)
	require.True(t, started, "second ready should start the game")
}

func TestIdempotentJoin(t *testing.T) {
	e := NewGameEngine(testLogger())
	p := testPlayer("alice")

	seat1, err := e.AddPlayer(p)
	require.NoError(t, err)
	seat2, err := e.AddPlayer(p)
	require.NoError(t, err)

	assert.Equal(t, seat1, seat2)
	assert.Equal(t, 1, e.PlayerCount())
}

func TestJoinAssignsLowestFreeSeat(t *testing.T) {
	e := NewGameEngine(testLogger(), WithVariant(Variant{SeatCount: 3, HandSize: 2}))

	p0, p1, p2 := testPlayer("a"), testPlayer("b"), testPlayer("c")
	for i, p := range []PlayerInfo{p0, p1, p2} {
		seat, err := e.AddPlayer(p)
		require.NoError(t, err)
		assert.Equal(t, Seat(i), seat)
	}

	// Freeing the middle seat makes it the lowest available again.
	require.True(t, e.RemovePlayer(p1.ID))
	seat, err := e.AddPlayer(testPlayer("d"))
	require.NoError(t, err)
	assert.Equal(t, Seat(1), seat)

	_, err = e.AddPlayer(testPlayer("e"))
	assert.ErrorIs(t, err, ErrTableFull)
}

func TestRemoveUnknownPlayer(t *testing.T) {
	e := NewGameEngine(testLogger())
	assert.False(t, e.RemovePlayer(uuid.New()))
}

func TestSetVariant(t *testing.T) {
	e := NewGameEngine(testLogger())

	require.NoError(t, e.SetVariant(Variant{SeatCount: 4, HandSize: 8}))
	assert.Equal(t, 4, e.Variant().SeatCount)

	err := e.SetVariant(Variant{SeatCount: 0, HandSize: 8})
	assert.Error(t, err)

	err = e.SetVariant(Variant{SeatCount: 4, HandSize: 20})
	assert.Error(t, err, "4 seats of 20 cards cannot fit the deck")

	_, err = e.AddPlayer(testPlayer("alice"))
	require.NoError(t, err)
	assert.ErrorIs(t, e.SetVariant(Variant{SeatCount: 2, HandSize: 10}), ErrVariantLocked)
}

func TestSetReadyUnknownPlayer(t *testing.T) {
	e := NewGameEngine(testLogger())
	_, err := e.SetReady(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	assert.ErrorIs(t, e.SetNotReady(uuid.New()), ErrUnknownPlayer)
}

func TestReadyQuorumStartsGame(t *testing.T) {
	// Deal: 2h 3s 4h 5s. Twilight: 9d (P0) vs 5c (P1), P0 resolves.
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s9d5c")
	startScripted(t, e, p0, p1)

	status := e.Status()
	require.Equal(t, StageTwilight, status.Stage)
	require.NotNil(t, status.Candidate)
	assert.Equal(t, Seat(0), *status.Candidate)
	assert.Len(t, status.DrawHistory, 1, "an immediate resolution draws exactly one round")

	// Two dealt cards plus one twilight draw each.
	snap, err := e.MakeSnapshot(p0.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Hand.Size())
	assert.Equal(t, 0, snap.SourceRemaining)

	assert.NoError(t, e.validateCardConservation())
}

func TestTwilightTieDrawsAnotherRound(t *testing.T) {
	// Twilight round 1 ties (7d vs 7c), round 2 resolves for P1.
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s" + "7d7c" + "2d9c")
	startScripted(t, e, p0, p1)

	status := e.Status()
	require.Equal(t, StageTwilight, status.Stage)
	require.NotNil(t, status.Candidate)
	assert.Equal(t, Seat(1), *status.Candidate)
	require.Len(t, status.DrawHistory, 2, "a tied round must be followed by another")
	assert.Equal(t, mustCard(t, "7d"), status.DrawHistory[0][0])
	assert.Equal(t, mustCard(t, "7c"), status.DrawHistory[0][1])
}

func TestTwilightExhaustionGoesToEndgame(t *testing.T) {
	// The only twilight round ties and empties the pile.
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s"+"8d8c")
	startScripted(t, e, p0, p1)

	status := e.Status()
	require.Equal(t, StageTwilight, status.Stage)
	assert.Nil(t, status.Candidate)

	// The unresolved draw-off routes straight to the endgame.
	_, err := e.SetReady(p0.ID)
	require.NoError(t, err)
	assert.Equal(t, StageEndgame, e.Status().Stage)
	_ = p1
}

func TestPhaseRotation(t *testing.T) {
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s9d5c8h8s")
	startScripted(t, e, p0, p1)

	advance := func() {
		_, err := e.SetReady(p0.ID)
		require.NoError(t, err)
	}

	advance() // twilight -> playing
	status := e.Status()
	require.Equal(t, StagePlaying, status.Stage)
	assert.Equal(t, Seat(0), status.ActiveSeat)
	assert.Equal(t, PhaseInfluence, status.Phase)

	advance()
	assert.Equal(t, PhaseAct, e.Status().Phase)

	advance() // source pile still holds 8h 8s
	status = e.Status()
	assert.Equal(t, PhaseSource, status.Phase)
	assert.Equal(t, Seat(0), status.ActiveSeat)

	advance()
	status = e.Status()
	assert.Equal(t, PhaseInfluence, status.Phase)
	assert.Equal(t, Seat(1), status.ActiveSeat, "leaving the source phase rotates the active seat")
}

func TestActPhaseWithEmptySourceEndsGame(t *testing.T) {
	// Pile is fully consumed by the deal and the twilight round.
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s9d5c")
	startScripted(t, e, p0, p1)

	snap, err := e.MakeSnapshot(p0.ID)
	require.NoError(t, err)
	require.Equal(t, 0, snap.SourceRemaining, "the scripted pile is fully consumed")

	advance := func() {
		_, err := e.SetReady(p1.ID)
		require.NoError(t, err)
	}

	advance() // twilight -> playing(P0, influence)
	advance() // influence -> act
	require.Equal(t, PhaseAct, e.Status().Phase)
	advance() // act with empty pile -> endgame
	assert.Equal(t, StageEndgame, e.Status().Stage)
}

func TestTurnOrderEnforcement(t *testing.T) {
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s9d5c")
	startScripted(t, e, p0, p1)
	_, err := e.SetReady(p0.ID) // twilight -> playing(P0)
	require.NoError(t, err)

	before, err := e.MakeSnapshot(p1.ID)
	require.NoError(t, err)

	// P1 is not the active seat.
	err = e.Play(p1.ID, mustCard(t, "3s"))
	assert.ErrorIs(t, err, ErrTurn)

	after, err := e.MakeSnapshot(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Hand, after.Hand, "a rejected play leaves the hand unchanged")
	assert.Equal(t, before.Status, after.Status, "a rejected play leaves the status unchanged")
	assert.Equal(t, before.SourceRemaining, after.SourceRemaining)
}

func TestPlayValidation(t *testing.T) {
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s9d5c")

	// Playing before the game starts is out of turn.
	_, err := e.AddPlayer(p0)
	require.NoError(t, err)
	assert.ErrorIs(t, e.Play(p0.ID, mustCard(t, "2h")), ErrTurn)

	startScripted(t, e, p0, p1)
	_, err = e.SetReady(p0.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, e.Play(uuid.New(), mustCard(t, "2h")), ErrUnknownPlayer)
	assert.ErrorIs(t, e.Play(p0.ID, mustCard(t, "Kc")), ErrCardMissing)
}

func TestTrickBookkeeping(t *testing.T) {
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s9d5c")
	startScripted(t, e, p0, p1)
	_, err := e.SetReady(p0.ID)
	require.NoError(t, err)

	_, err = e.LastTrick()
	assert.ErrorIs(t, err, ErrNoLastTrick)

	// P0 leads the 9d; P1 answers with the 5s; P0 takes the trick.
	require.NoError(t, e.Play(p0.ID, mustCard(t, "9d")))
	require.NoError(t, e.Play(p1.ID, mustCard(t, "5s")))

	status := e.Status()
	assert.Equal(t, StagePlaying, status.Stage)
	assert.Equal(t, Seat(0), status.ActiveSeat, "the trick winner leads the next trick")

	last, err := e.LastTrick()
	require.NoError(t, err)
	assert.Equal(t, Seat(0), last.Winner)

	// Trick completion resets the ready flags of everyone in the deal.
	snap, err := e.MakeSnapshot(p0.ID)
	require.NoError(t, err)
	for _, p := range snap.Players {
		assert.False(t, p.Ready, "player %s should have been reset", p.Name)
	}

	assert.NoError(t, e.validateCardConservation())
}

func TestDealOverEndsGame(t *testing.T) {
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s9d5c")
	startScripted(t, e, p0, p1)
	_, err := e.SetReady(p0.ID)
	require.NoError(t, err)

	// Trick 1: 9d beats 5s, P0 leads again.
	require.NoError(t, e.Play(p0.ID, mustCard(t, "9d")))
	require.NoError(t, e.Play(p1.ID, mustCard(t, "5s")))
	// Trick 2 of the two-trick deal: 2h loses to 3s.
	require.NoError(t, e.Play(p0.ID, mustCard(t, "2h")))
	require.NoError(t, e.Play(p1.ID, mustCard(t, "3s")))

	assert.Equal(t, StageEndgame, e.Status().Stage)

	snap, err := e.MakeSnapshot(p1.ID)
	require.NoError(t, err)
	for _, p := range snap.Players {
		assert.Equal(t, RoleUnknown, p.Role, "roles reset at the end of the deal")
		assert.False(t, p.Ready)
	}
	require.NotNil(t, snap.LastTrick)
	assert.Equal(t, Seat(1), snap.LastTrick.Winner)

	assert.NoError(t, e.validateCardConservation())
}

func TestSnapshotRedaction(t *testing.T) {
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s9d5c")
	startScripted(t, e, p0, p1)

	// Summon a being for P0 with a concealed heart resource, straight
	// on the board entity: redaction must hide it from P1 until the
	// card enters the revealed set.
	star := e.stars[p0.ID]
	concealed := mustCard(t, "4h")
	face := mustCard(t, "2h")
	star.hand.Remove(concealed)
	star.hand.Remove(face)
	being := NewBeing(face)
	being.AttachResource(concealed)
	star.SummonBeing(being)

	ownSnap, err := e.MakeSnapshot(p0.ID)
	require.NoError(t, err)
	otherSnap, err := e.MakeSnapshot(p1.ID)
	require.NoError(t, err)

	// The owner always sees their full hand.
	assert.Equal(t, ownSnap.Hand.Size(), ownSnap.Stars[0].HandSize)
	assert.NotEmpty(t, ownSnap.Hand)

	// A non-owner sees only the hand size.
	require.Len(t, otherSnap.Stars, 2)
	assert.Nil(t, otherSnap.Stars[0].Hand)
	assert.Equal(t, ownSnap.Hand.Size(), otherSnap.Stars[0].HandSize)

	// The concealed resource shows as an empty slot for everyone.
	require.Len(t, otherSnap.Stars[0].Beings, 1)
	assert.Nil(t, otherSnap.Stars[0].Beings[0].Resources[CategoryHeart])

	// Revealing the card makes the slot visible in later snapshots.
	e.revealed.Add(concealed)
	otherSnap, err = e.MakeSnapshot(p1.ID)
	require.NoError(t, err)
	got := otherSnap.Stars[0].Beings[0].Resources[CategoryHeart]
	require.NotNil(t, got)
	assert.Equal(t, concealed, *got)
}

func TestSnapshotUnknownPlayer(t *testing.T) {
	e := NewGameEngine(testLogger())
	_, err := e.MakeSnapshot(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestCardConservationWithFullDeck(t *testing.T) {
	e := NewGameEngine(testLogger(), WithSeed(7))
	p0, p1 := testPlayer("alice"), testPlayer("bob")
	_, err := e.AddPlayer(p0)
	require.NoError(t, err)
	_, err = e.AddPlayer(p1)
	require.NoError(t, err)

	_, err = e.SetReady(p0.ID)
	require.NoError(t, err)
	started, err := e.SetReady(p1.ID)
	require.NoError(t, err)
	require.True(t, started)

	require.NoError(t, e.validateCardConservation())

	status := e.Status()
	require.Equal(t, StageTwilight, status.Stage)
	rounds := len(status.DrawHistory)

	snap, err := e.MakeSnapshot(p0.ID)
	require.NoError(t, err)
	assert.Equal(t, deck.DeckSize-2*(e.Variant().HandSize+rounds), snap.SourceRemaining)
}

// TestEndToEndScenario walks the whole happy path: join, ready up,
// twilight resolution on the first round, one play, and the redacted
// snapshots along the way.
func TestEndToEndScenario(t *testing.T) {
	e, p0, p1 := scriptedEngine(t, "2h3s4h5s9d5c")
	startScripted(t, e, p0, p1)

	require.Equal(t, StageTwilight, e.Status().Stage)
	require.NotNil(t, e.Status().Candidate)
	require.Equal(t, Seat(0), *e.Status().Candidate)

	_, err := e.SetReady(p1.ID)
	require.NoError(t, err)
	status := e.Status()
	require.Equal(t, StagePlaying, status.Stage)
	require.Equal(t, Seat(0), status.ActiveSeat)
	require.Equal(t, PhaseInfluence, status.Phase)

	snap, err := e.MakeSnapshot(p0.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, mustHand(t, "2h4h9d"), snap.Hand)
	require.Len(t, snap.Stars, 2)
	assert.Nil(t, snap.Stars[1].Hand, "opponent's hand is a count only")
	assert.Equal(t, 3, snap.Stars[1].HandSize)
	assert.Len(t, snap.Players, 2)
	assert.Equal(t, "alice", snap.Players[0].Name)
	assert.Equal(t, "bob", snap.Players[1].Name)

	require.NoError(t, e.Play(p0.ID, mustCard(t, "9d")))
	snap, err = e.MakeSnapshot(p1.ID)
	require.NoError(t, err)
	require.NotNil(t, snap.CurrentTrick)
	played := snap.CurrentTrick.CardPlayed(0)
	require.NotNil(t, played)
	assert.Equal(t, mustCard(t, "9d"), *played)
	active, ok := snap.PlayingSeat()
	require.True(t, ok)
	assert.Equal(t, Seat(1), active)
}
