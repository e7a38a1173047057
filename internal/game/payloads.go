package game

import (
	"github.com/ttu-cr-stl/poker-bot-arena/internal/card"
	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
)

// LobbyState lists every occupied seat for a lobby broadcast.
func (e *Engine) LobbyState() protocol.Lobby {
	var msg protocol.Lobby
	for _, s := range e.seats {
		if s == nil {
			continue
		}
		msg.Players = append(msg.Players, protocol.LobbyPlayer{
			Seat:      s.Seat,
			Team:      s.Team,
			Connected: s.Connected,
			Stack:     s.Stack,
		})
	}
	return msg
}

// StartHandPayload describes the hand that was just dealt. Stacks cover
// every occupied seat and are the values before blinds were posted.
func (e *Engine) StartHandPayload() (protocol.StartHand, error) {
	h := e.hand
	if h == nil {
		return protocol.StartHand{}, ErrNoHand
	}
	return protocol.StartHand{
		HandID: h.id,
		Seed:   h.seed,
		Button: h.button,
		Stacks: h.startStacks,
	}, nil
}

func (e *Engine) publicPlayers() []protocol.PublicPlayer {
	var out []protocol.PublicPlayer
	for _, s := range e.seats {
		if s == nil {
			continue
		}
		out = append(out, protocol.PublicPlayer{
			Seat:      s.Seat,
			Stack:     s.Stack,
			Committed: s.Committed,
			HasFolded: s.Folded,
		})
	}
	return out
}

// ActPayload builds the turn prompt for a seat, including its private
// cards and the legal action window.
func (e *Engine) ActPayload(seatIdx, timeMS int) (protocol.Act, error) {
	h := e.hand
	if h == nil {
		return protocol.Act{}, ErrNoHand
	}
	p := e.Seat(seatIdx)
	if p == nil {
		return protocol.Act{}, ErrOutOfTurn
	}
	w, err := e.LegalActions(seatIdx)
	if err != nil {
		return protocol.Act{}, err
	}
	return protocol.Act{
		HandID:            h.id,
		Seat:              seatIdx,
		Phase:             h.phase.String(),
		Pot:               h.pot,
		CurrentBet:        h.currentBet,
		MinRaiseIncrement: h.minRaiseIncrement,
		You: protocol.ActYou{
			Hole:      card.Labels(p.Hole),
			Stack:     p.Stack,
			Committed: p.Committed,
			ToCall:    max(0, h.currentBet-p.Committed),
			TimeMS:    timeMS,
		},
		Table: protocol.ActTable{
			SB:     e.cfg.SmallBlind,
			BB:     e.cfg.BigBlind,
			Seats:  e.cfg.Seats,
			Button: h.button,
		},
		Players:    e.publicPlayers(),
		Community:  card.Labels(h.community),
		Legal:      w.LegalStrings(),
		CallAmount: w.CallAmount,
		MinRaiseTo: w.MinRaiseTo,
		MaxRaiseTo: w.MaxRaiseTo,
	}, nil
}

// peekActor is NextActor without consuming unactionable queue heads.
func (e *Engine) peekActor() int {
	h := e.hand
	if h == nil || h.phase == PhaseShowdown {
		return -1
	}
	for _, idx := range h.queue {
		if s := e.seats[idx]; s != nil && !s.Folded && s.Stack > 0 {
			return idx
		}
	}
	return -1
}

// SnapshotPayload rebuilds a reconnecting seat's private view of the hand
// in progress.
func (e *Engine) SnapshotPayload(seatIdx, timeRemainingMS int) (protocol.Snapshot, error) {
	h := e.hand
	if h == nil {
		return protocol.Snapshot{}, ErrNoHand
	}
	p := e.Seat(seatIdx)
	if p == nil {
		return protocol.Snapshot{}, ErrOutOfTurn
	}
	var next *int
	if actor := e.peekActor(); actor >= 0 {
		next = protocol.Int(actor)
	}
	return protocol.Snapshot{
		AtHandID: h.id,
		Phase:    h.phase.String(),
		Pot:      h.pot,
		You: protocol.SnapshotYou{
			Seat:   seatIdx,
			Hole:   card.Labels(p.Hole),
			Stack:  p.Stack,
			ToCall: max(0, h.currentBet-p.Committed),
		},
		Players:         e.publicPlayers(),
		Community:       card.Labels(h.community),
		NextActor:       next,
		TimeMSRemaining: timeRemainingMS,
	}, nil
}

// SpectatorStateView is the omniscient table view, hole cards included.
// It returns nil when no hand is running.
func (e *Engine) SpectatorStateView(tableID string, timeRemainingMS *int) *protocol.SpectatorState {
	h := e.hand
	if h == nil {
		return nil
	}
	var seats []protocol.SpectatorSeat
	for _, s := range e.seats {
		if s == nil {
			continue
		}
		seats = append(seats, protocol.SpectatorSeat{
			Seat:      s.Seat,
			Team:      s.Team,
			Stack:     s.Stack,
			Committed: s.Committed,
			HasFolded: s.Folded,
			Connected: s.Connected,
			Hole:      card.Labels(s.Hole),
		})
	}
	var next *int
	if actor := e.peekActor(); actor >= 0 {
		next = protocol.Int(actor)
	}
	return &protocol.SpectatorState{
		TableID:         tableID,
		HandID:          h.id,
		Phase:           h.phase.String(),
		Pot:             h.pot,
		SB:              e.cfg.SmallBlind,
		BB:              e.cfg.BigBlind,
		Button:          h.button,
		Community:       card.Labels(h.community),
		Seats:           seats,
		NextActor:       next,
		TimeMSRemaining: timeRemainingMS,
	}
}

// EndHandPayload reports the stacks after the hand resolved.
func (e *Engine) EndHandPayload() (protocol.EndHand, error) {
	h := e.hand
	if h == nil {
		return protocol.EndHand{}, ErrNoHand
	}
	var stacks []protocol.SeatStack
	for _, s := range e.seats {
		if s != nil {
			stacks = append(stacks, protocol.SeatStack{Seat: s.Seat, Stack: s.Stack})
		}
	}
	return protocol.EndHand{HandID: h.id, Stacks: stacks}, nil
}

// MatchResult reports the winner, if any seat still holds chips, and the
// final stacks.
func (e *Engine) MatchResult() protocol.MatchEnd {
	var msg protocol.MatchEnd
	for _, s := range e.seats {
		if s == nil {
			continue
		}
		if s.Stack > 0 && msg.Winner == nil {
			msg.Winner = &protocol.MatchWinner{Seat: s.Seat, Team: s.Team}
		}
		msg.FinalStacks = append(msg.FinalStacks, protocol.FinalStack{
			Seat:  s.Seat,
			Team:  s.Team,
			Stack: s.Stack,
		})
	}
	return msg
}
