package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/card"
)

func eval(t *testing.T, labels ...string) Score {
	t.Helper()
	cards, err := card.ParseAll(labels)
	require.NoError(t, err)
	score, err := Evaluate(cards)
	require.NoError(t, err)
	return score
}

func TestCategories(t *testing.T) {
	cases := []struct {
		name  string
		cards []string
		want  Category
	}{
		{"high card", []string{"As", "Kd", "9h", "5c", "2s"}, HighCard},
		{"pair", []string{"As", "Ad", "9h", "5c", "2s"}, Pair},
		{"two pair", []string{"As", "Ad", "9h", "9c", "2s"}, TwoPair},
		{"trips", []string{"As", "Ad", "Ah", "9c", "2s"}, Trips},
		{"straight", []string{"9s", "8d", "7h", "6c", "5s"}, Straight},
		{"wheel", []string{"As", "2d", "3h", "4c", "5s"}, Straight},
		{"flush", []string{"As", "Js", "9s", "5s", "2s"}, Flush},
		{"full house", []string{"As", "Ad", "Ah", "9c", "9s"}, FullHouse},
		{"quads", []string{"As", "Ad", "Ah", "Ac", "2s"}, Quads},
		{"straight flush", []string{"9s", "8s", "7s", "6s", "5s"}, StraightFlush},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, eval(t, tc.cards...).Category())
		})
	}
}

func TestCategoryWireNames(t *testing.T) {
	require.Equal(t, "high_card", HighCard.String())
	require.Equal(t, "two_pair", TwoPair.String())
	require.Equal(t, "straight_flush", StraightFlush.String())
}

func TestWheelIsLowestStraight(t *testing.T) {
	wheel := eval(t, "As", "2d", "3h", "4c", "5s")
	sixHigh := eval(t, "2d", "3h", "4c", "5s", "6d")
	require.Less(t, wheel, sixHigh)
	require.Equal(t, []int{5}, wheel.Tiebreaks())
}

func TestKickersOrderHands(t *testing.T) {
	// Same pair, better kicker wins.
	aceKicker := eval(t, "Qs", "Qd", "Ah", "7c", "2s")
	kingKicker := eval(t, "Qh", "Qc", "Kh", "7d", "2d")
	require.Greater(t, aceKicker, kingKicker)

	// Two pair compares the high pair first.
	acesAndTwos := eval(t, "As", "Ad", "2h", "2c", "5s")
	kingsAndQueens := eval(t, "Ks", "Kd", "Qh", "Qc", "5d")
	require.Greater(t, acesAndTwos, kingsAndQueens)
}

func TestSuitsNeverBreakTies(t *testing.T) {
	a := eval(t, "As", "Kd", "9h", "5c", "2s")
	b := eval(t, "Ad", "Kh", "9c", "5s", "2d")
	require.Equal(t, a, b)
}

func TestSevenCardPicksBestFive(t *testing.T) {
	// Board pairs the hole cards into a full house among seven cards.
	score := eval(t, "As", "Ad", "Ah", "9c", "9s", "2d", "7h")
	require.Equal(t, FullHouse, score.Category())

	// Flush hidden inside seven cards.
	score = eval(t, "Ks", "Qs", "9s", "5s", "2s", "Ad", "Ah")
	require.Equal(t, Flush, score.Category())
}

func TestEvaluateRejectsBadSizes(t *testing.T) {
	cards, err := card.ParseAll([]string{"As", "Kd", "9h", "5c"})
	require.NoError(t, err)
	_, err = Evaluate(cards)
	require.Error(t, err)
}
