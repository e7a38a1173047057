// Package simulator plays hands in-process, wiring sdk strategies straight
// into the engine with no transport in between. It exists to benchmark a
// strategy against a field of opponents over many seeded hands.
package simulator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/game"
	"github.com/ttu-cr-stl/poker-bot-arena/internal/handid"
	"github.com/ttu-cr-stl/poker-bot-arena/internal/statistics"
	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
	"github.com/ttu-cr-stl/poker-bot-arena/sdk"
)

// Config describes a simulation run. The subject strategy is tracked by the
// statistics; the remaining seats are filled with the field strategy.
type Config struct {
	Hands   int
	Table   game.TableConfig
	Subject string // folder, caller, minraiser or random
	Field   string // same names, or "mixed" to cycle through them
	Seed    int64
	Logger  *log.Logger
}

// Simulator runs seeded single hands and aggregates the subject's results.
type Simulator struct {
	cfg Config
}

// New builds a simulator. The table config is validated on Run.
func New(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Run plays the configured number of hands. Every hand starts from fresh
// stacks with its own deterministic seed, and the subject rotates seats so
// positional advantage averages out. ctx cancels between hands.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if err := s.cfg.Table.Validate(); err != nil {
		return nil, err
	}
	if s.cfg.Hands <= 0 {
		return nil, fmt.Errorf("hand count must be positive, got %d", s.cfg.Hands)
	}
	if _, err := buildStrategy(s.cfg.Subject, s.cfg.Seed); err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}

	stats := statistics.New(s.cfg.Table.Seats)
	for hand := 0; hand < s.cfg.Hands; hand++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		handSeed := s.cfg.Seed + int64(hand)
		subjectSeat := hand % s.cfg.Table.Seats

		result, err := s.playHand(handSeed, subjectSeat)
		if err != nil {
			return nil, fmt.Errorf("hand %d (seed %d): %w", hand+1, handSeed, err)
		}
		stats.Add(result)
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return stats, nil
}

// stepLimit bounds actions per hand; a full table raising every turn stays
// well under it, so hitting it means the engine stopped making progress.
const stepLimit = 512

func (s *Simulator) playHand(seed int64, subjectSeat int) (statistics.HandResult, error) {
	engine := game.NewEngine(s.cfg.Table, handid.NewSequence(time.Now))

	strategies := make([]sdk.Strategy, s.cfg.Table.Seats)
	mix := fieldMix(s.cfg.Field)
	for i := 0; i < s.cfg.Table.Seats; i++ {
		name := s.cfg.Subject
		team := "subject"
		if i != subjectSeat {
			name = mix[i%len(mix)]
			team = fmt.Sprintf("opp-%d", i)
		}
		// Per-seat seed keeps a strategy's choices independent of the
		// seats its opponents happen to occupy.
		strat, err := buildStrategy(name, seed+int64(i)*7919)
		if err != nil {
			return statistics.HandResult{}, err
		}
		strategies[i] = strat
		if _, err := engine.AssignSeat(team); err != nil {
			return statistics.HandResult{}, err
		}
	}

	if err := engine.StartHand(seed); err != nil {
		return statistics.HandResult{}, err
	}

	tally := handTally{street: game.PhasePreFlop.String()}
	observe(strategies, engine.ConsumePreEvents(), &tally)

	for step := 0; ; step++ {
		if step >= stepLimit {
			return statistics.HandResult{}, fmt.Errorf("no progress after %d actions", stepLimit)
		}
		actor := engine.NextActor()
		if actor < 0 {
			break
		}
		prompt, err := engine.ActPayload(actor, s.cfg.Table.MoveTimeMS)
		if err != nil {
			return statistics.HandResult{}, err
		}

		decision := strategies[actor].Act(prompt)
		action, ok := game.ParseAction(decision.Action)
		amount := 0
		if decision.Amount != nil {
			amount = *decision.Amount
		}

		var events []protocol.Event
		if ok {
			events, err = engine.ApplyAction(actor, action, amount)
		}
		if !ok || err != nil {
			// An illegal decision resolves like an expired turn on a live
			// table: check when free, otherwise call, otherwise fold.
			w, werr := engine.LegalActions(actor)
			if werr != nil {
				return statistics.HandResult{}, werr
			}
			fallback := game.FallbackAction(w)
			if s.cfg.Logger != nil {
				s.cfg.Logger.Warn("illegal decision",
					"seat", actor, "action", decision.Action, "fallback", fallback, "err", err)
			}
			events, err = engine.ApplyAction(actor, fallback, 0)
			if err != nil {
				return statistics.HandResult{}, err
			}
		}
		observe(strategies, events, &tally)
	}

	if !engine.IsHandComplete() {
		return statistics.HandResult{}, fmt.Errorf("hand ended without resolving the pot")
	}

	net := engine.Seat(subjectSeat).Stack - s.cfg.Table.StartingStack
	bb := float64(s.cfg.Table.BigBlind)
	return statistics.HandResult{
		NetBB:          float64(net) / bb,
		Seed:           seed,
		Seat:           subjectSeat,
		WentToShowdown: tally.showdown,
		FinalPotBB:     float64(tally.awarded) / bb,
		StreetReached:  tally.street,
	}, nil
}

// handTally collects what the statistics need from the event stream.
type handTally struct {
	street   string
	showdown bool
	awarded  int
}

func observe(strategies []sdk.Strategy, events []protocol.Event, tally *handTally) {
	for _, ev := range events {
		switch ev.Ev {
		case protocol.EvFlop:
			tally.street = game.PhaseFlop.String()
		case protocol.EvTurn:
			tally.street = game.PhaseTurn.String()
		case protocol.EvRiver:
			tally.street = game.PhaseRiver.String()
		case protocol.EvShowdown:
			tally.showdown = true
		case protocol.EvPotAward:
			if ev.Amount != nil {
				tally.awarded += *ev.Amount
			}
		}
		for _, strat := range strategies {
			strat.OnEvent(ev)
		}
	}
}

func fieldMix(field string) []string {
	if field == "mixed" {
		return []string{"caller", "minraiser", "random", "folder"}
	}
	return []string{field}
}

func buildStrategy(name string, seed int64) (sdk.Strategy, error) {
	switch strings.ToLower(name) {
	case "folder":
		return sdk.Folder{}, nil
	case "caller":
		return sdk.CallingStation{}, nil
	case "minraiser":
		return sdk.MinRaiser{}, nil
	case "random":
		return sdk.NewRandom(seed), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}
