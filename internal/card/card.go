// Package card models playing cards and the seeded table deck. Card labels
// are two characters, rank then suit ("Ah", "Td"), matching the wire format.
package card

import "fmt"

// Suit is one of the four suits, serialised as a lowercase letter.
type Suit byte

const (
	Clubs    Suit = 'c'
	Diamonds Suit = 'd'
	Hearts   Suit = 'h'
	Spades   Suit = 's'
)

// Suits in deck-construction order.
var Suits = [4]Suit{Clubs, Diamonds, Hearts, Spades}

func (s Suit) String() string {
	return string(byte(s))
}

// Valid reports whether the suit is in the legal alphabet.
func (s Suit) Valid() bool {
	switch s {
	case Clubs, Diamonds, Hearts, Spades:
		return true
	}
	return false
}

// Rank is a card rank, serialised as an uppercase character with T for ten.
type Rank byte

const (
	Two   Rank = '2'
	Three Rank = '3'
	Four  Rank = '4'
	Five  Rank = '5'
	Six   Rank = '6'
	Seven Rank = '7'
	Eight Rank = '8'
	Nine  Rank = '9'
	Ten   Rank = 'T'
	Jack  Rank = 'J'
	Queen Rank = 'Q'
	King  Rank = 'K'
	Ace   Rank = 'A'
)

// Ranks in ascending order of strength.
var Ranks = [13]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

func (r Rank) String() string {
	return string(byte(r))
}

// Valid reports whether the rank is in the legal alphabet.
func (r Rank) Valid() bool {
	switch r {
	case Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace:
		return true
	}
	return false
}

// Value returns the rank's numeric value for hand comparison. Aces are high
// (14); the evaluator additionally treats them as 1 for the wheel straight.
func (r Rank) Value() int {
	switch r {
	case Ten:
		return 10
	case Jack:
		return 11
	case Queen:
		return 12
	case King:
		return 13
	case Ace:
		return 14
	default:
		return int(r - '0')
	}
}

// Card is a single playing card. The zero value is not a valid card; use New
// or Parse.
type Card struct {
	Rank Rank
	Suit Suit
}

// New constructs a card, rejecting ranks or suits outside the alphabets.
func New(rank Rank, suit Suit) (Card, error) {
	if !rank.Valid() {
		return Card{}, fmt.Errorf("invalid rank %q", string(byte(rank)))
	}
	if !suit.Valid() {
		return Card{}, fmt.Errorf("invalid suit %q", string(byte(suit)))
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// MustParse is Parse for trusted literals; it panics on a bad label.
func MustParse(label string) Card {
	c, err := Parse(label)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a two-character label such as "As" or "Td".
func Parse(label string) (Card, error) {
	if len(label) != 2 {
		return Card{}, fmt.Errorf("invalid card label %q", label)
	}
	return New(Rank(label[0]), Suit(label[1]))
}

// Label returns the wire representation, rank then suit.
func (c Card) Label() string {
	return string([]byte{byte(c.Rank), byte(c.Suit)})
}

func (c Card) String() string {
	return c.Label()
}

// Labels converts a slice of cards to their wire labels.
func Labels(cards []Card) []string {
	labels := make([]string, len(cards))
	for i, c := range cards {
		labels[i] = c.Label()
	}
	return labels
}

// ParseAll decodes a slice of labels, failing on the first bad one.
func ParseAll(labels []string) ([]Card, error) {
	cards := make([]Card, len(labels))
	for i, label := range labels {
		c, err := Parse(label)
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}
