package game

import (
	"fmt"

	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
)

// NextActor returns the seat index whose turn it is, or -1 when no action
// is possible. Unactionable seats are dropped from the head of the queue.
func (e *Engine) NextActor() int {
	h := e.hand
	if h == nil || h.phase == PhaseShowdown {
		return -1
	}
	for len(h.queue) > 0 {
		s := e.seats[h.queue[0]]
		if s == nil || s.Folded || s.Stack == 0 {
			h.queue = h.queue[1:]
			continue
		}
		return h.queue[0]
	}
	return -1
}

// LegalActions computes the action window for a seat facing the current
// betting state.
func (e *Engine) LegalActions(seatIdx int) (ActionWindow, error) {
	h := e.hand
	if h == nil {
		return ActionWindow{}, ErrNoHand
	}
	p := e.Seat(seatIdx)
	if p == nil || !p.InHand() {
		return ActionWindow{}, fmt.Errorf("%w: seat %d is not in the hand", ErrInvalidAction, seatIdx)
	}

	w := ActionWindow{Legal: []Action{ActionFold}}
	toCall := h.currentBet - p.Committed
	if toCall <= 0 {
		w.Legal = append(w.Legal, ActionCheck)
	} else if p.Stack > 0 {
		w.Legal = append(w.Legal, ActionCall)
		w.CallAmount = protocol.Int(min(toCall, p.Stack))
	}

	maxRaiseTo := p.Committed + p.Stack
	minRaiseTo := h.currentBet + h.minRaiseIncrement
	if _, blocked := h.noReopen[seatIdx]; !blocked && p.Stack > 0 && maxRaiseTo > h.currentBet {
		switch {
		case maxRaiseTo >= minRaiseTo:
			w.Legal = append(w.Legal, ActionRaiseTo)
			w.MinRaiseTo = protocol.Int(minRaiseTo)
			w.MaxRaiseTo = protocol.Int(maxRaiseTo)
		default:
			// Only the all-in amount is available below a full raise.
			w.Legal = append(w.Legal, ActionRaiseTo)
			w.MinRaiseTo = protocol.Int(maxRaiseTo)
			w.MaxRaiseTo = protocol.Int(maxRaiseTo)
		}
	}
	return w, nil
}

// ApplyAction validates and applies one betting decision for the seat
// whose turn it is, returning the public events it produced. Street and
// showdown events are included when the action closes a round.
func (e *Engine) ApplyAction(seatIdx int, action Action, amount int) ([]protocol.Event, error) {
	h := e.hand
	if h == nil {
		return nil, ErrNoHand
	}
	if actor := e.NextActor(); actor != seatIdx {
		return nil, ErrOutOfTurn
	}
	p := e.seats[seatIdx]
	w, err := e.LegalActions(seatIdx)
	if err != nil {
		return nil, err
	}

	var ev protocol.Event
	switch action {
	case ActionFold:
		p.Folded = true
		delete(h.pending, seatIdx)
		ev = evFold(seatIdx)

	case ActionCheck:
		if !w.Allows(ActionCheck) {
			return nil, fmt.Errorf("%w: cannot check while facing a bet", ErrInvalidAction)
		}
		delete(h.pending, seatIdx)
		ev = evCheck(seatIdx)

	case ActionCall:
		if !w.Allows(ActionCall) {
			return nil, fmt.Errorf("%w: nothing to call", ErrInvalidAction)
		}
		moved := p.commit(h.currentBet - p.Committed)
		h.pot += moved
		delete(h.pending, seatIdx)
		ev = evCall(seatIdx, moved)

	case ActionRaiseTo:
		if !w.Allows(ActionRaiseTo) {
			return nil, fmt.Errorf("%w: raise is not available", ErrInvalidAction)
		}
		maxRaiseTo := p.Committed + p.Stack
		fullMin := h.currentBet + h.minRaiseIncrement
		switch {
		case amount <= h.currentBet:
			return nil, fmt.Errorf("%w: raise to %d does not exceed the current bet %d", ErrInvalidAction, amount, h.currentBet)
		case amount > maxRaiseTo:
			return nil, fmt.Errorf("%w: raise to %d exceeds stack (max %d)", ErrInvalidAction, amount, maxRaiseTo)
		case amount < fullMin && amount != maxRaiseTo:
			return nil, fmt.Errorf("%w: raise to %d is below the minimum %d", ErrInvalidAction, amount, fullMin)
		}
		prevBet := h.currentBet
		moved := p.commit(amount - p.Committed)
		h.pot += moved
		h.currentBet = amount
		if amount >= fullMin {
			// A full raise reopens the betting for everyone else.
			h.minRaiseIncrement = amount - prevBet
			h.lastRaiseSeat = seatIdx
			h.noReopen = make(map[int]struct{})
		}
		h.pending = make(map[int]struct{})
		for _, s := range e.seats {
			if s != nil && s.Seat != seatIdx && s.CanAct() {
				h.pending[s.Seat] = struct{}{}
			}
		}
		ev = evBet(seatIdx, moved)

	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, action)
	}

	h.noReopen[seatIdx] = struct{}{}

	events := []protocol.Event{ev}
	events = append(events, e.advanceAfterAction(seatIdx)...)
	e.assertChips("apply_action")
	return events, nil
}

// advanceAfterAction settles the table after one action: awards the pot
// uncontested, rotates the actor queue, or closes the betting round.
func (e *Engine) advanceAfterAction(actor int) []protocol.Event {
	h := e.hand

	live := e.inHandSeats()
	if len(live) == 1 {
		return e.awardUncontested(live[0])
	}

	if len(h.queue) > 0 && h.queue[0] == actor {
		h.queue = append(h.queue[1:], actor)
	}
	if len(h.pending) == 0 {
		return e.advancePhase()
	}
	return nil
}

// awardUncontested gives the whole pot to the last unfolded seat and ends
// the hand without a showdown.
func (e *Engine) awardUncontested(winner *PlayerSeat) []protocol.Event {
	h := e.hand
	amount := h.pot
	winner.Stack += amount
	h.pot = 0
	h.phase = PhaseShowdown
	h.queue = nil
	h.pending = make(map[int]struct{})

	events := []protocol.Event{evPotAward(winner.Seat, amount)}
	for _, s := range e.seats {
		if s != nil && s.Stack == 0 && len(s.Hole) > 0 {
			events = append(events, evEliminated(s.Seat))
		}
		if s != nil {
			s.Committed = 0
			s.TotalIn = 0
		}
	}
	return events
}

// advancePhase reveals streets until a betting round can open or the hand
// reaches showdown. When every remaining seat is all-in the board runs
// out without further action.
func (e *Engine) advancePhase() []protocol.Event {
	h := e.hand
	var events []protocol.Event
	for {
		for _, s := range e.seats {
			if s != nil {
				s.Committed = 0
			}
		}
		h.currentBet = 0
		h.minRaiseIncrement = e.cfg.BigBlind
		h.lastRaiseSeat = -1
		h.noReopen = make(map[int]struct{})
		h.pending = make(map[int]struct{})
		h.queue = nil

		switch h.phase {
		case PhasePreFlop:
			flop := e.mustDeal(3)
			h.community = append(h.community, flop...)
			events = append(events, evFlop(flop))
			h.phase = PhaseFlop
		case PhaseFlop:
			turn := e.mustDeal(1)
			h.community = append(h.community, turn...)
			events = append(events, evTurn(turn[0]))
			h.phase = PhaseTurn
		case PhaseTurn:
			river := e.mustDeal(1)
			h.community = append(h.community, river...)
			events = append(events, evRiver(river[0]))
			h.phase = PhaseRiver
		case PhaseRiver:
			h.phase = PhaseShowdown
			return append(events, e.resolveShowdown()...)
		default:
			return events
		}

		actionable := false
		for _, s := range e.seats {
			if s != nil && s.CanAct() {
				h.pending[s.Seat] = struct{}{}
				actionable = true
			}
		}
		if actionable {
			h.queue = e.rotationFrom(e.nextEligible(h.button))
			return events
		}
	}
}
