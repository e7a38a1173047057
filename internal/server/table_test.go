package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func testTableConfig() Config {
	cfg := DefaultConfig()
	seats, stack, sb, bb, move := 2, 1000, 10, 20, 3000
	cfg.Table = &TableBlock{
		Seats:         &seats,
		StartingStack: &stack,
		SmallBlind:    &sb,
		BigBlind:      &bb,
		MoveTimeMS:    &move,
	}
	return cfg
}

func newTestTable(t *testing.T, cfg Config) (*Table, *quartz.Mock) {
	t.Helper()
	require.NoError(t, cfg.Validate())
	mock := quartz.NewMock(t)
	tbl := NewTable(cfg, log.New(io.Discard), mock, NewMetrics())
	t.Cleanup(tbl.Close)
	return tbl, mock
}

// seatPlayers fills seats directly, without websockets. The move timer
// runs regardless of whether a session is attached, so a disconnected
// actor cannot stall the table.
func seatPlayers(t *testing.T, tbl *Table, teams ...string) {
	t.Helper()
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	for i, team := range teams {
		_, err := tbl.engine.AssignSeat(team)
		require.NoError(t, err)
		tbl.engine.SetConnected(i, true)
	}
	tbl.maybeStartHandLocked()
}

func TestMoveTimerResolvesTurnsWithFallback(t *testing.T) {
	tbl, mock := newTestTable(t, testTableConfig())
	ctx := context.Background()
	seatPlayers(t, tbl, "a", "b")

	tbl.mu.Lock()
	inProgress := tbl.engine.HandInProgress()
	pending := tbl.pending
	firstHand := tbl.engine.HandID()
	tbl.mu.Unlock()
	require.True(t, inProgress)
	require.NotNil(t, pending)
	require.Equal(t, 0, pending.seat) // heads-up: the button opens

	// The button times out facing the blind: after the 10 posted, the
	// fallback calls the 10 still owed.
	mock.Advance(3 * time.Second).MustWait(ctx)
	tbl.mu.Lock()
	buttonStack := tbl.engine.Seat(0).Stack
	pending = tbl.pending
	tbl.mu.Unlock()
	require.Equal(t, 980, buttonStack)
	require.NotNil(t, pending)
	require.Equal(t, 1, pending.seat)

	// Expiring every turn plays the whole hand: one more pre-flop check,
	// then two checks on each street.
	for i := 0; i < 7; i++ {
		mock.Advance(3 * time.Second).MustWait(ctx)
	}

	tbl.mu.Lock()
	currentHand := tbl.engine.HandID()
	tbl.mu.Unlock()
	require.NotEqual(t, firstHand, currentHand, "next hand should have been dealt")

	require.Equal(t, float64(8), testutil.ToFloat64(tbl.metrics.TimeoutsTotal))
	require.Equal(t, float64(1), testutil.ToFloat64(tbl.metrics.HandsTotal))
}

func TestTimerDeadlineReporting(t *testing.T) {
	tbl, mock := newTestTable(t, testTableConfig())
	seatPlayers(t, tbl, "a", "b")

	tbl.mu.Lock()
	fresh := tbl.timeRemainingMSLocked()
	tbl.mu.Unlock()
	require.Equal(t, 3000, fresh)

	mock.Advance(1200 * time.Millisecond).MustWait(context.Background())
	tbl.mu.Lock()
	remaining := tbl.timeRemainingMSLocked()
	tbl.mu.Unlock()
	require.Equal(t, 1800, remaining)
}

func TestManualControlDisablesTimer(t *testing.T) {
	cfg := testTableConfig()
	cfg.ManualControl = true
	tbl, _ := newTestTable(t, cfg)
	seatPlayers(t, tbl, "a", "b")

	tbl.mu.Lock()
	pending := tbl.pending
	remaining := tbl.timeRemainingMSLocked()
	tbl.mu.Unlock()
	require.NotNil(t, pending)
	require.Nil(t, pending.timer)
	require.Equal(t, 3000, remaining)
}

func TestFirstHandWaitsForTwoConnectedPlayers(t *testing.T) {
	tbl, _ := newTestTable(t, testTableConfig())

	tbl.mu.Lock()
	_, err := tbl.engine.AssignSeat("solo")
	tbl.engine.SetConnected(0, true)
	tbl.maybeStartHandLocked()
	soloStarted := tbl.engine.HandInProgress()
	tbl.mu.Unlock()
	require.NoError(t, err)
	require.False(t, soloStarted)

	seatPlayers(t, tbl, "solo", "rival")
	tbl.mu.Lock()
	started := tbl.engine.HandInProgress()
	tbl.mu.Unlock()
	require.True(t, started)
}
