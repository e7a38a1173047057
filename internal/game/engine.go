// Package game implements the no-limit hold'em hand engine: seating,
// dealing, betting rounds, side pots and showdown resolution. The engine
// is a pure state machine with no I/O; the server layer serialises access
// and turns the emitted events into wire frames.
package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/card"
	"github.com/ttu-cr-stl/poker-bot-arena/internal/handid"
	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
)

var (
	ErrTeamRequired     = errors.New("team name required")
	ErrTableFull        = errors.New("table is full")
	ErrHandInProgress   = errors.New("a hand is already in progress")
	ErrNoHand           = errors.New("no hand in progress")
	ErrNotEnoughPlayers = errors.New("need at least two funded seats")
	ErrOutOfTurn        = errors.New("not this seat's turn")
	ErrInvalidAction    = errors.New("invalid action")
)

// handState holds everything that only lives for the duration of one hand.
type handState struct {
	id        string
	seed      int64
	button    int
	deck      *card.Deck
	community []card.Card
	phase     Phase
	pot       int

	currentBet        int
	minRaiseIncrement int
	lastRaiseSeat     int // -1 when no aggressor this round

	// pending holds the seats still owed a decision this round. queue is
	// the rotation order; its head is the next actor.
	pending map[int]struct{}
	queue   []int

	// noReopen holds every seat that has acted since the last full raise.
	// A short all-in adds the actor without resetting the set, so seats
	// already in it may only call or fold.
	noReopen map[int]struct{}

	startStacks []protocol.SeatStack
}

// Engine runs a single table for a whole match. It is not safe for
// concurrent use; callers serialise access.
type Engine struct {
	cfg       TableConfig
	seats     []*PlayerSeat
	button    int
	ids       *handid.Sequence
	hand      *handState
	chipTotal int
	preEvents []protocol.Event
}

// NewEngine creates an empty table. ids supplies hand identifiers.
func NewEngine(cfg TableConfig, ids *handid.Sequence) *Engine {
	return &Engine{
		cfg:    cfg,
		seats:  make([]*PlayerSeat, cfg.Seats),
		button: -1,
		ids:    ids,
	}
}

// Config returns the fixed table parameters.
func (e *Engine) Config() TableConfig { return e.cfg }

// Seats returns the seat slice; empty positions are nil.
func (e *Engine) Seats() []*PlayerSeat { return e.seats }

// Seat returns the seat at index i, or nil.
func (e *Engine) Seat(i int) *PlayerSeat {
	if i < 0 || i >= len(e.seats) {
		return nil
	}
	return e.seats[i]
}

// AssignSeat binds a team to a seat. Team identity is case-folded and
// whitespace-trimmed, so a reconnecting client resumes its existing seat;
// the display label is refreshed to the latest spelling.
func (e *Engine) AssignSeat(team string) (*PlayerSeat, error) {
	label := strings.TrimSpace(team)
	if label == "" {
		return nil, ErrTeamRequired
	}
	key := strings.ToLower(label)
	for _, s := range e.seats {
		if s != nil && s.TeamKey == key {
			s.Team = label
			return s, nil
		}
	}
	for i, s := range e.seats {
		if s == nil {
			seat := &PlayerSeat{Seat: i, Team: label, TeamKey: key, Stack: e.cfg.StartingStack}
			e.seats[i] = seat
			e.chipTotal += e.cfg.StartingStack
			return seat, nil
		}
	}
	return nil, ErrTableFull
}

// SetConnected flags a seat's connection state for lobby broadcasts.
func (e *Engine) SetConnected(seat int, connected bool) {
	if s := e.Seat(seat); s != nil {
		s.Connected = connected
	}
}

// HandInProgress reports whether a hand is currently running.
func (e *Engine) HandInProgress() bool { return e.hand != nil }

// HandID returns the identifier of the current hand, or "".
func (e *Engine) HandID() string {
	if e.hand == nil {
		return ""
	}
	return e.hand.id
}

// CurrentPhase returns the hand phase; Showdown when no hand is running.
func (e *Engine) CurrentPhase() Phase {
	if e.hand == nil {
		return PhaseShowdown
	}
	return e.hand.phase
}

// CanStartHand reports whether a new hand may be dealt: no hand running
// and at least two seats holding chips.
func (e *Engine) CanStartHand() bool {
	return e.hand == nil && len(e.fundedSeats()) >= 2
}

// IsHandComplete reports whether the current hand has fully resolved.
func (e *Engine) IsHandComplete() bool {
	return e.hand != nil && e.hand.phase == PhaseShowdown && e.hand.pot == 0
}

// ClearHand discards the completed hand state.
func (e *Engine) ClearHand() { e.hand = nil }

// IsMatchOver reports whether at most one seat still holds chips.
func (e *Engine) IsMatchOver() bool {
	seated := 0
	for _, s := range e.seats {
		if s != nil {
			seated++
		}
	}
	return seated >= 2 && len(e.fundedSeats()) <= 1
}

// HandOption adjusts hand setup; used by tests to fix the deal.
type HandOption func(*handState)

// WithDeck replaces the seeded deck with a prepared one.
func WithDeck(d *card.Deck) HandOption {
	return func(h *handState) { h.deck = d }
}

// StartHand deals a new hand: rotates the button, deals hole cards one at
// a time starting left of the button, posts blinds and opens the pre-flop
// betting round. Blind posting is queued as a pre-event for the caller to
// broadcast after the start-of-hand frame.
func (e *Engine) StartHand(seed int64, opts ...HandOption) error {
	if e.hand != nil {
		return ErrHandInProgress
	}
	funded := e.fundedSeats()
	if len(funded) < 2 {
		return ErrNotEnoughPlayers
	}

	for _, s := range e.seats {
		if s == nil {
			continue
		}
		s.Committed = 0
		s.TotalIn = 0
		s.Hole = nil
		// Broke seats sit the hand out.
		s.Folded = s.Stack == 0
	}

	if e.button < 0 {
		e.button = funded[0].Seat
	} else {
		e.button = e.nextEligible(e.button)
	}

	h := &handState{
		id:                e.ids.Next(),
		seed:              seed,
		button:            e.button,
		deck:              card.NewDeck(seed),
		phase:             PhasePreFlop,
		minRaiseIncrement: e.cfg.BigBlind,
		lastRaiseSeat:     -1,
		pending:           make(map[int]struct{}),
		noReopen:          make(map[int]struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	e.hand = h

	// Every occupied seat is reported, sat-out seats at stack zero.
	for _, s := range e.seats {
		if s != nil {
			h.startStacks = append(h.startStacks, protocol.SeatStack{Seat: s.Seat, Stack: s.Stack})
		}
	}

	// One card per seat, twice around, starting left of the button.
	order := e.rotationFrom(e.nextEligible(e.button))
	for round := 0; round < 2; round++ {
		for _, idx := range order {
			s := e.seats[idx]
			s.Hole = append(s.Hole, e.mustDeal(1)...)
		}
	}

	var sbSeat, bbSeat int
	if len(order) == 2 {
		// Heads-up: the button posts the small blind.
		sbSeat = e.button
		bbSeat = e.nextEligible(e.button)
	} else {
		sbSeat = e.nextEligible(e.button)
		bbSeat = e.nextEligible(sbSeat)
	}
	sb := e.seats[sbSeat]
	bb := e.seats[bbSeat]
	h.pot += sb.commit(e.cfg.SmallBlind)
	h.pot += bb.commit(e.cfg.BigBlind)
	h.currentBet = max(sb.Committed, bb.Committed)
	h.lastRaiseSeat = bbSeat
	e.preEvents = append(e.preEvents, evPostBlinds(sbSeat, bbSeat, e.cfg.SmallBlind, e.cfg.BigBlind))

	for _, s := range e.seats {
		if s != nil && s.CanAct() {
			h.pending[s.Seat] = struct{}{}
		}
	}
	var first int
	if len(order) == 2 {
		// Heads-up: the button acts first pre-flop.
		first = e.button
	} else {
		first = e.nextEligible(bbSeat)
	}
	h.queue = e.rotationFrom(first)

	e.assertChips("start_hand")
	return nil
}

// ConsumePreEvents returns and clears events queued during hand setup.
func (e *Engine) ConsumePreEvents() []protocol.Event {
	evs := e.preEvents
	e.preEvents = nil
	return evs
}

// fundedSeats returns seats holding chips, in seat order.
func (e *Engine) fundedSeats() []*PlayerSeat {
	var out []*PlayerSeat
	for _, s := range e.seats {
		if s != nil && s.Stack > 0 {
			out = append(out, s)
		}
	}
	return out
}

// inHandSeats returns seats still contesting the hand, in seat order.
func (e *Engine) inHandSeats() []*PlayerSeat {
	var out []*PlayerSeat
	for _, s := range e.seats {
		if s.InHand() {
			out = append(out, s)
		}
	}
	return out
}

// nextEligible returns the next seat index after from, wrapping, that is
// occupied and not folded out of the hand.
func (e *Engine) nextEligible(from int) int {
	n := len(e.seats)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if s := e.seats[idx]; s != nil && !s.Folded {
			return idx
		}
	}
	return from
}

// rotationFrom lists the indices of all unfolded seats beginning at start.
func (e *Engine) rotationFrom(start int) []int {
	n := len(e.seats)
	var out []int
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if s := e.seats[idx]; s != nil && !s.Folded {
			out = append(out, idx)
		}
	}
	return out
}

func (e *Engine) mustDeal(n int) []card.Card {
	cards, err := e.hand.deck.Deal(n)
	if err != nil {
		panic(fmt.Sprintf("game: deck exhausted mid-hand: %v", err))
	}
	return cards
}

// assertChips panics if chips were created or destroyed. The table total
// is fixed at seat assignment; stacks plus the live pot must always equal
// it.
func (e *Engine) assertChips(where string) {
	sum := 0
	for _, s := range e.seats {
		if s != nil {
			sum += s.Stack
		}
	}
	if e.hand != nil {
		sum += e.hand.pot
	}
	if sum != e.chipTotal {
		panic(fmt.Sprintf("game: chip conservation violated at %s: have %d, want %d", where, sum, e.chipTotal))
	}
}

// sortedSeatsAsc returns seat indices in ascending order.
func sortedSeatsAsc(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
