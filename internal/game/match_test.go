package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/randutil"
	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
)

// Plays whole matches with random legal actions. The engine's internal
// conservation check panics on any chip leak, so simply surviving the
// playout is most of the assertion.
func TestRandomPlayoutConservesChips(t *testing.T) {
	for _, players := range []int{2, 3, 6} {
		cfg := smallConfig()
		cfg.Seats = players
		teams := []string{"a", "b", "c", "d", "e", "f"}[:players]
		e := newTestEngine(t, cfg, teams...)
		rng := randutil.New(int64(players))
		total := players * cfg.StartingStack

		for hand := 0; hand < 400 && !e.IsMatchOver(); hand++ {
			require.NoError(t, e.StartHand(int64(hand)))
			e.ConsumePreEvents()

			for !e.IsHandComplete() {
				seat := e.NextActor()
				require.GreaterOrEqual(t, seat, 0, "hand %d stalled", hand)
				w, err := e.LegalActions(seat)
				require.NoError(t, err)

				action := w.Legal[rng.IntN(len(w.Legal))]
				amount := 0
				if action == ActionRaiseTo {
					amount = *w.MinRaiseTo
					if span := *w.MaxRaiseTo - *w.MinRaiseTo; span > 0 {
						amount += rng.IntN(span + 1)
					}
				}
				_, err = e.ApplyAction(seat, action, amount)
				require.NoError(t, err)
			}

			sum := 0
			for _, s := range e.Seats() {
				sum += s.Stack
			}
			require.Equal(t, total, sum, "hand %d leaked chips", hand)
			e.ClearHand()
		}
	}
}

// The same seed and the same scripted actions must produce an identical
// event stream and identical stacks.
func TestReplayDeterminism(t *testing.T) {
	run := func() ([]protocol.Event, []int) {
		e := newTestEngine(t, smallConfig(), "a", "b", "c")
		var events []protocol.Event
		script := []struct {
			seat   int
			action Action
			amount int
		}{
			{0, ActionRaiseTo, 60},
			{1, ActionCall, 0},
			{2, ActionCall, 0},
			{1, ActionCheck, 0},
			{2, ActionRaiseTo, 80},
			{0, ActionFold, 0},
			{1, ActionCall, 0},
			{1, ActionCheck, 0},
			{2, ActionCheck, 0},
			{1, ActionCheck, 0},
			{2, ActionCheck, 0},
		}
		require.NoError(t, e.StartHand(20240229))
		events = append(events, e.ConsumePreEvents()...)
		for _, step := range script {
			events = append(events, apply(t, e, step.seat, step.action, step.amount)...)
		}
		require.True(t, e.IsHandComplete())
		stacks := make([]int, 3)
		for i, s := range e.Seats() {
			stacks[i] = s.Stack
		}
		return events, stacks
	}

	eventsA, stacksA := run()
	eventsB, stacksB := run()
	require.Equal(t, eventsA, eventsB)
	require.Equal(t, stacksA, stacksB)
}

func TestMatchEndsWhenOneSeatHoldsAllChips(t *testing.T) {
	cfg := smallConfig()
	cfg.Seats = 2
	e := newTestEngine(t, cfg, "winner", "loser")
	setStacks(e, 1980, 20)
	require.NoError(t, e.StartHand(31, stackDeck(t,
		"2c", "As", // first round: seats 1, 0
		"7d", "Ad", // second round
		"3s", "8d", "Ah", // flop
		"4c", // turn
		"9c", // river
	)))
	e.ConsumePreEvents()

	// The short stack is already all-in from the blind; the button calls
	// and checks the board down.
	require.Equal(t, 0, e.NextActor())
	events := apply(t, e, 0, ActionCall, 0)
	require.Equal(t, []string{protocol.EvCall, protocol.EvFlop}, evNames(events))
	apply(t, e, 0, ActionCheck, 0)
	apply(t, e, 0, ActionCheck, 0)
	events = apply(t, e, 0, ActionCheck, 0)
	require.True(t, e.IsHandComplete())
	require.NotNil(t, findEvent(events, protocol.EvEliminated))
	require.True(t, e.IsMatchOver())

	result := e.MatchResult()
	require.NotNil(t, result.Winner)
	require.Equal(t, 0, result.Winner.Seat)
	require.Equal(t, "winner", result.Winner.Team)
	require.Len(t, result.FinalStacks, 2)
	require.Equal(t, 2000, result.FinalStacks[0].Stack)
}

func TestHandIDsAreSequential(t *testing.T) {
	cfg := smallConfig()
	cfg.Seats = 2
	e := newTestEngine(t, cfg, "a", "b")

	require.NoError(t, e.StartHand(1))
	first := e.HandID()
	e.ConsumePreEvents()
	apply(t, e, 0, ActionFold, 0)
	e.ClearHand()

	require.NoError(t, e.StartHand(2))
	second := e.HandID()
	require.Equal(t, "H-20250601-00000", first)
	require.Equal(t, "H-20250601-00001", second)
}
