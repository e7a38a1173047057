package game

import (
	"github.com/ttu-cr-stl/poker-bot-arena/internal/card"
	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
)

func evPostBlinds(sbSeat, bbSeat, sb, bb int) protocol.Event {
	return protocol.Event{
		Ev:     protocol.EvPostBlinds,
		SBSeat: protocol.Int(sbSeat),
		BBSeat: protocol.Int(bbSeat),
		SB:     protocol.Int(sb),
		BB:     protocol.Int(bb),
	}
}

func evFold(seat int) protocol.Event {
	return protocol.Event{Ev: protocol.EvFold, Seat: protocol.Int(seat)}
}

func evCheck(seat int) protocol.Event {
	return protocol.Event{Ev: protocol.EvCheck, Seat: protocol.Int(seat)}
}

func evCall(seat, amount int) protocol.Event {
	return protocol.Event{Ev: protocol.EvCall, Seat: protocol.Int(seat), Amount: protocol.Int(amount)}
}

// evBet reports a raise; amount is the additional chips the raiser put in
// with this action, not the raise-to total.
func evBet(seat, amount int) protocol.Event {
	return protocol.Event{Ev: protocol.EvBet, Seat: protocol.Int(seat), Amount: protocol.Int(amount)}
}

func evFlop(cards []card.Card) protocol.Event {
	return protocol.Event{Ev: protocol.EvFlop, Cards: card.Labels(cards)}
}

func evTurn(c card.Card) protocol.Event {
	return protocol.Event{Ev: protocol.EvTurn, Card: c.Label()}
}

func evRiver(c card.Card) protocol.Event {
	return protocol.Event{Ev: protocol.EvRiver, Card: c.Label()}
}

func evShowdown(seat int, hole, board []card.Card, rank string) protocol.Event {
	return protocol.Event{
		Ev:    protocol.EvShowdown,
		Seat:  protocol.Int(seat),
		Hand:  card.Labels(hole),
		Board: card.Labels(board),
		Rank:  rank,
	}
}

func evPotAward(seat, amount int) protocol.Event {
	return protocol.Event{Ev: protocol.EvPotAward, Seat: protocol.Int(seat), Amount: protocol.Int(amount)}
}

func evEliminated(seat int) protocol.Event {
	return protocol.Event{Ev: protocol.EvEliminated, Seat: protocol.Int(seat)}
}
