package game

import (
	"fmt"
	"sort"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/card"
	"github.com/ttu-cr-stl/poker-bot-arena/internal/evaluator"
	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
)

// resolveShowdown reveals the contenders' hands, builds the side-pot
// layers and pays every pot out. Elimination events follow the awards.
func (e *Engine) resolveShowdown() []protocol.Event {
	h := e.hand
	contenders := e.inHandSeats()

	scores := make(map[int]evaluator.Score, len(contenders))
	var events []protocol.Event
	for _, p := range contenders {
		cards := make([]card.Card, 0, len(p.Hole)+len(h.community))
		cards = append(cards, p.Hole...)
		cards = append(cards, h.community...)
		score, err := evaluator.Evaluate(cards)
		if err != nil {
			panic(fmt.Sprintf("game: showdown evaluation failed for seat %d: %v", p.Seat, err))
		}
		scores[p.Seat] = score
		events = append(events, evShowdown(p.Seat, p.Hole, h.community, score.Category().String()))
	}

	events = append(events, e.awardPots(scores)...)

	for _, s := range e.seats {
		if s == nil {
			continue
		}
		if s.Stack == 0 && len(s.Hole) > 0 {
			events = append(events, evEliminated(s.Seat))
		}
		s.Committed = 0
		s.TotalIn = 0
	}
	return events
}

// awardPots layers the pot at every contribution level, folded seats
// included, and pays each layer to the best hand among the seats whose
// contribution reaches it. Split remainders go one chip at a time in
// ascending seat order.
func (e *Engine) awardPots(scores map[int]evaluator.Score) []protocol.Event {
	h := e.hand

	levelSet := make(map[int]struct{})
	for _, s := range e.seats {
		if s != nil && s.TotalIn > 0 {
			levelSet[s.TotalIn] = struct{}{}
		}
	}
	levels := sortedSeatsAsc(levelSet)

	var events []protocol.Event
	prev := 0
	for _, lvl := range levels {
		value := 0
		for _, s := range e.seats {
			if s != nil && s.TotalIn > prev {
				value += min(s.TotalIn, lvl) - prev
			}
		}
		prev = lvl
		if value == 0 {
			continue
		}

		best := evaluator.Score(0)
		var winners []int
		for seat, score := range scores {
			if e.seats[seat].TotalIn < lvl {
				continue
			}
			switch {
			case score > best:
				best = score
				winners = []int{seat}
			case score == best:
				winners = append(winners, seat)
			}
		}
		if len(winners) == 0 {
			continue
		}
		sort.Ints(winners)

		share := value / len(winners)
		remainder := value % len(winners)
		for j, seat := range winners {
			amount := share
			if j < remainder {
				amount++
			}
			if amount == 0 {
				continue
			}
			e.seats[seat].Stack += amount
			h.pot -= amount
			events = append(events, evPotAward(seat, amount))
		}
	}

	if h.pot != 0 {
		panic(fmt.Sprintf("game: %d chips left unawarded after showdown", h.pot))
	}
	return events
}
