package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/card"
	"github.com/ttu-cr-stl/poker-bot-arena/internal/handid"
	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
)

func testSequence() *handid.Sequence {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return handid.NewSequence(func() time.Time { return ts })
}

func newTestEngine(t *testing.T, cfg TableConfig, teams ...string) *Engine {
	t.Helper()
	require.NoError(t, cfg.Validate())
	e := NewEngine(cfg, testSequence())
	for _, team := range teams {
		_, err := e.AssignSeat(team)
		require.NoError(t, err)
	}
	return e
}

// setStacks overrides seat stacks, keeping the conservation ledger in sync.
func setStacks(e *Engine, stacks ...int) {
	total := 0
	for i, n := range stacks {
		e.seats[i].Stack = n
		total += n
	}
	e.chipTotal = total
}

func apply(t *testing.T, e *Engine, seat int, action Action, amount int) []protocol.Event {
	t.Helper()
	events, err := e.ApplyAction(seat, action, amount)
	require.NoError(t, err)
	return events
}

// stackDeck lays out hole cards in deal order (one at a time, starting
// left of the button) followed by the five board cards.
func stackDeck(t *testing.T, labels ...string) HandOption {
	t.Helper()
	cards, err := card.ParseAll(labels)
	require.NoError(t, err)
	return WithDeck(card.NewStackedDeck(cards))
}

func evNames(events []protocol.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Ev
	}
	return out
}

func findEvent(events []protocol.Event, kind string) *protocol.Event {
	for i := range events {
		if events[i].Ev == kind {
			return &events[i]
		}
	}
	return nil
}

func smallConfig() TableConfig {
	cfg := DefaultConfig()
	cfg.Seats = 3
	cfg.StartingStack = 1000
	cfg.SmallBlind = 10
	cfg.BigBlind = 20
	return cfg
}

func TestAssignSeatFillsLowestFree(t *testing.T) {
	e := newTestEngine(t, smallConfig())
	a, err := e.AssignSeat("alpha")
	require.NoError(t, err)
	require.Equal(t, 0, a.Seat)
	b, err := e.AssignSeat("beta")
	require.NoError(t, err)
	require.Equal(t, 1, b.Seat)
	require.Equal(t, 1000, b.Stack)
}

func TestAssignSeatReattachesByCaseFoldedTeam(t *testing.T) {
	e := newTestEngine(t, smallConfig(), "Alpha", "beta")
	again, err := e.AssignSeat("  ALPHA ")
	require.NoError(t, err)
	require.Equal(t, 0, again.Seat)
	// The display label follows the latest spelling.
	require.Equal(t, "ALPHA", again.Team)
}

func TestAssignSeatErrors(t *testing.T) {
	e := newTestEngine(t, smallConfig(), "a", "b", "c")
	_, err := e.AssignSeat("   ")
	require.ErrorIs(t, err, ErrTeamRequired)
	_, err = e.AssignSeat("d")
	require.ErrorIs(t, err, ErrTableFull)
}

func TestStartHandNeedsTwoFundedSeats(t *testing.T) {
	e := newTestEngine(t, smallConfig(), "a")
	require.False(t, e.CanStartHand())
	require.ErrorIs(t, e.StartHand(1), ErrNotEnoughPlayers)

	_, err := e.AssignSeat("b")
	require.NoError(t, err)
	require.True(t, e.CanStartHand())
	require.NoError(t, e.StartHand(1))
	require.ErrorIs(t, e.StartHand(2), ErrHandInProgress)
}

func TestStartHandPostsBlindsAndDeals(t *testing.T) {
	e := newTestEngine(t, smallConfig(), "a", "b", "c")
	require.NoError(t, e.StartHand(99))

	pre := e.ConsumePreEvents()
	require.Len(t, pre, 1)
	blinds := pre[0]
	require.Equal(t, protocol.EvPostBlinds, blinds.Ev)
	require.Equal(t, 1, *blinds.SBSeat)
	require.Equal(t, 2, *blinds.BBSeat)
	require.Equal(t, 10, *blinds.SB)
	require.Equal(t, 20, *blinds.BB)

	require.Equal(t, 990, e.Seat(1).Stack)
	require.Equal(t, 980, e.Seat(2).Stack)
	for i := 0; i < 3; i++ {
		require.Len(t, e.Seat(i).Hole, 2)
	}
	// UTG is left of the big blind.
	require.Equal(t, 0, e.NextActor())

	payload, err := e.StartHandPayload()
	require.NoError(t, err)
	require.Equal(t, "H-20250601-00000", payload.HandID)
	require.Equal(t, int64(99), payload.Seed)
	require.Equal(t, 0, payload.Button)
	// Stacks are reported before blinds.
	require.Equal(t, []protocol.SeatStack{{Seat: 0, Stack: 1000}, {Seat: 1, Stack: 1000}, {Seat: 2, Stack: 1000}}, payload.Stacks)
}

func TestHeadsUpButtonPostsSmallBlindAndActsFirst(t *testing.T) {
	cfg := smallConfig()
	cfg.Seats = 2
	e := newTestEngine(t, cfg, "a", "b")
	require.NoError(t, e.StartHand(5))

	pre := e.ConsumePreEvents()
	require.Equal(t, 0, *pre[0].SBSeat)
	require.Equal(t, 1, *pre[0].BBSeat)
	require.Equal(t, 0, e.NextActor())
}

func TestShortBigBlindCapsCurrentBet(t *testing.T) {
	e := newTestEngine(t, smallConfig(), "a", "b", "c")
	setStacks(e, 1000, 1000, 12)
	require.NoError(t, e.StartHand(3))

	require.Equal(t, 0, e.Seat(2).Stack)
	payload, err := e.ActPayload(0, 1000)
	require.NoError(t, err)
	require.Equal(t, 12, payload.CurrentBet)
	require.Equal(t, 12, payload.You.ToCall)
}

func TestBrokeSeatSitsOut(t *testing.T) {
	e := newTestEngine(t, smallConfig(), "a", "b", "c")
	setStacks(e, 1000, 0, 1000)
	require.NoError(t, e.StartHand(4))

	require.Empty(t, e.Seat(1).Hole)
	require.True(t, e.Seat(1).Folded)
	// Two live seats play heads-up: the button posts the small blind.
	pre := e.ConsumePreEvents()
	require.Equal(t, 0, *pre[0].SBSeat)
	require.Equal(t, 2, *pre[0].BBSeat)

	// The sat-out seat still shows up in the reported stacks.
	payload, err := e.StartHandPayload()
	require.NoError(t, err)
	require.Equal(t, []protocol.SeatStack{{Seat: 0, Stack: 1000}, {Seat: 1, Stack: 0}, {Seat: 2, Stack: 1000}}, payload.Stacks)
}

func TestButtonRotatesOverEliminatedSeats(t *testing.T) {
	e := newTestEngine(t, smallConfig(), "a", "b", "c")
	require.NoError(t, e.StartHand(1))
	require.Equal(t, 0, e.hand.button)

	// End the hand by folding around, then knock seat 1 out by hand.
	apply(t, e, 0, ActionFold, 0)
	apply(t, e, 1, ActionFold, 0)
	require.True(t, e.IsHandComplete())
	e.ClearHand()
	setStacks(e, 1000, 0, 1000)

	require.NoError(t, e.StartHand(2))
	require.Equal(t, 2, e.hand.button)
}
