package game

import "github.com/ttu-cr-stl/poker-bot-arena/internal/card"

// PlayerSeat is one position at the table. A seat is bound to a team for
// the whole match; a reconnecting client resumes the same seat.
type PlayerSeat struct {
	Seat      int
	Team      string // display label, as first presented
	TeamKey   string // case-folded identity key
	Stack     int
	Committed int // chips committed in the current betting round
	TotalIn   int // chips committed across the whole hand
	Hole      []card.Card
	Folded    bool
	Connected bool
}

// InHand reports whether the seat was dealt into the current hand and has
// not folded.
func (p *PlayerSeat) InHand() bool {
	return p != nil && !p.Folded && len(p.Hole) > 0
}

// CanAct reports whether the seat still has chips behind to act with.
func (p *PlayerSeat) CanAct() bool {
	return p.InHand() && p.Stack > 0
}

// commit moves up to n chips from the stack into the current round. It
// returns the amount actually moved, which is capped by the stack.
func (p *PlayerSeat) commit(n int) int {
	if n > p.Stack {
		n = p.Stack
	}
	p.Stack -= n
	p.Committed += n
	p.TotalIn += n
	return n
}
