package card

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeckHas52DistinctCards(t *testing.T) {
	d := NewDeck(1)
	require.Equal(t, 52, d.Remaining())
	seen := make(map[Card]bool)
	cards, err := d.Deal(52)
	require.NoError(t, err)
	for _, c := range cards {
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
}

func TestDeckSeedDeterminism(t *testing.T) {
	a, err := NewDeck(42).Deal(52)
	require.NoError(t, err)
	b, err := NewDeck(42).Deal(52)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := NewDeck(43).Deal(52)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestDeckExhaustion(t *testing.T) {
	d := NewDeck(7)
	_, err := d.Deal(50)
	require.NoError(t, err)
	_, err = d.Deal(3)
	require.ErrorIs(t, err, ErrDeckExhausted)
	require.Equal(t, 2, d.Remaining())
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	want := []Card{MustParse("As"), MustParse("Kd"), MustParse("2c")}
	d := NewStackedDeck(want)
	got, err := d.Deal(3)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
