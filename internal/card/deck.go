package card

import (
	"errors"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/randutil"
)

// ErrDeckExhausted is returned when a deal asks for more cards than remain.
var ErrDeckExhausted = errors.New("not enough cards left in deck")

// Deck is an ordered pile of cards dealt from the front.
type Deck struct {
	cards []Card
}

// NewDeck builds the 52-card deck and shuffles it with a Fisher-Yates driven
// by a PCG seeded from seed. The same seed always yields the same order, so
// hands are replayable across runs and builds.
func NewDeck(seed int64) *Deck {
	cards := make([]Card, 0, 52)
	for _, rank := range Ranks {
		for _, suit := range Suits {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}

	rng := randutil.New(seed)
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	return &Deck{cards: cards}
}

// NewStackedDeck builds a deck with a fixed card order, used by tests to
// force board and hole cards.
func NewStackedDeck(cards []Card) *Deck {
	copied := make([]Card, len(cards))
	copy(copied, cards)
	return &Deck{cards: copied}
}

// Deal pops the front n cards.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	dealt := d.cards[:n]
	d.cards = d.cards[n:]
	return dealt, nil
}

// Remaining returns how many cards are left.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
