package handid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	require.Equal(t, "H-20250314-00000", Format(ts, 0))
	require.Equal(t, "H-20250314-00042", Format(ts, 42))
}

func TestSequenceIsMonotonic(t *testing.T) {
	ts := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	seq := NewSequence(func() time.Time { return ts })
	require.Equal(t, "H-20250314-00000", seq.Next())
	require.Equal(t, "H-20250314-00001", seq.Next())
	require.Equal(t, "H-20250314-00002", seq.Next())
}

func TestFormatUsesUTC(t *testing.T) {
	loc := time.FixedZone("west", -10*3600)
	ts := time.Date(2025, 3, 14, 20, 0, 0, 0, loc) // 06:00 next day UTC
	require.Equal(t, "H-20250315-00000", Format(ts, 0))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate("H-20250314-00007"))
	for _, id := range []string{"", "H-2025031-00007", "H-20250314-7", "X-20250314-00007", "H-20250314-000070"} {
		require.Error(t, Validate(id), id)
	}
}
