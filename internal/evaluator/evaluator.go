// Package evaluator ranks Texas Hold'em hands. Evaluate accepts 5 to 7 cards
// and returns a Score whose integer ordering matches poker ordering, so two
// hands compare with < and ==.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/card"
)

// Category is the hand class, ordered weakest to strongest.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
)

// String returns the stable lowercase wire name for the category.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "high_card"
	case Pair:
		return "pair"
	case TwoPair:
		return "two_pair"
	case Trips:
		return "three_of_a_kind"
	case Straight:
		return "straight"
	case Flush:
		return "flush"
	case FullHouse:
		return "full_house"
	case Quads:
		return "four_of_a_kind"
	case StraightFlush:
		return "straight_flush"
	default:
		return "unknown"
	}
}

// Score packs a category and up to five tiebreak rank values (each 2..14)
// into a single comparable integer: category in the bits above five 4-bit
// tiebreak slots, strongest slot first. Lexicographic tiebreak comparison
// therefore falls out of plain integer comparison.
type Score uint32

const tiebreakSlots = 5

// Category extracts the hand class.
func (s Score) Category() Category {
	return Category(s >> (4 * tiebreakSlots))
}

// Tiebreaks returns the non-zero tiebreak rank values, strongest first.
func (s Score) Tiebreaks() []int {
	var out []int
	for i := tiebreakSlots - 1; i >= 0; i-- {
		v := int(s>>(4*i)) & 0xF
		if v == 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (s Score) String() string {
	return fmt.Sprintf("%s %v", s.Category(), s.Tiebreaks())
}

func pack(category Category, tiebreaks ...int) Score {
	s := Score(category) << (4 * tiebreakSlots)
	for i, v := range tiebreaks {
		s |= Score(v) << (4 * (tiebreakSlots - 1 - i))
	}
	return s
}

// Evaluate returns the strength of the best 5-card hand makeable from the
// given 5 to 7 cards.
func Evaluate(cards []card.Card) (Score, error) {
	switch {
	case len(cards) < 5:
		return 0, fmt.Errorf("need at least 5 cards, got %d", len(cards))
	case len(cards) > 7:
		return 0, fmt.Errorf("at most 7 cards, got %d", len(cards))
	case len(cards) == 5:
		return evaluateFive(cards), nil
	}

	// Best over every 5-card subset (at most C(7,5)=21 combinations).
	var best Score
	var hand [5]card.Card
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						hand[0], hand[1], hand[2], hand[3], hand[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						if s := evaluateFive(hand[:]); s > best {
							best = s
						}
					}
				}
			}
		}
	}
	return best, nil
}

func evaluateFive(cards []card.Card) Score {
	values := make([]int, 5)
	flush := true
	for i, c := range cards {
		values[i] = c.Rank.Value()
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	straightHigh := straightHighCard(values)

	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	// Group values by multiplicity, then rank, both descending.
	type group struct{ value, count int }
	groups := make([]group, 0, len(counts))
	for v, c := range counts {
		groups = append(groups, group{v, c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})

	switch {
	case flush && straightHigh > 0:
		return pack(StraightFlush, straightHigh)
	case groups[0].count == 4:
		return pack(Quads, groups[0].value, groups[1].value)
	case groups[0].count == 3 && groups[1].count == 2:
		return pack(FullHouse, groups[0].value, groups[1].value)
	case flush:
		return pack(Flush, values...)
	case straightHigh > 0:
		return pack(Straight, straightHigh)
	case groups[0].count == 3:
		return pack(Trips, groups[0].value, groups[1].value, groups[2].value)
	case groups[0].count == 2 && groups[1].count == 2:
		return pack(TwoPair, groups[0].value, groups[1].value, groups[2].value)
	case groups[0].count == 2:
		return pack(Pair, groups[0].value, groups[1].value, groups[2].value, groups[3].value)
	default:
		return pack(HighCard, values...)
	}
}

// straightHighCard returns the high card of a 5-card straight, or 0. values
// must be sorted descending with no assumption of distinctness. The wheel
// A-2-3-4-5 counts with high card 5.
func straightHighCard(values []int) int {
	for i := 1; i < 5; i++ {
		if values[i] != values[i-1]-1 {
			if values[0] == 14 && values[1] == 5 && values[2] == 4 && values[3] == 3 && values[4] == 2 {
				return 5
			}
			return 0
		}
	}
	return values[0]
}
