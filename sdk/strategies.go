package sdk

import (
	"math/rand/v2"

	"github.com/ttu-cr-stl/poker-bot-arena/internal/randutil"
	"github.com/ttu-cr-stl/poker-bot-arena/protocol"
)

func has(prompt protocol.Act, action string) bool {
	for _, a := range prompt.Legal {
		if a == action {
			return true
		}
	}
	return false
}

// Folder checks when it can and otherwise folds. Useful as a sparring
// dummy and for draining a table deterministically.
type Folder struct{}

func (Folder) Act(prompt protocol.Act) Decision {
	if has(prompt, "CHECK") {
		return Decision{Action: "CHECK"}
	}
	return Decision{Action: "FOLD"}
}

func (Folder) OnEvent(protocol.Event) {}

// CallingStation checks when free and calls any bet.
type CallingStation struct{}

func (CallingStation) Act(prompt protocol.Act) Decision {
	if has(prompt, "CHECK") {
		return Decision{Action: "CHECK"}
	}
	if has(prompt, "CALL") {
		return Decision{Action: "CALL"}
	}
	return Decision{Action: "FOLD"}
}

func (CallingStation) OnEvent(protocol.Event) {}

// MinRaiser raises the minimum whenever raising is legal, otherwise
// calls or checks.
type MinRaiser struct{}

func (MinRaiser) Act(prompt protocol.Act) Decision {
	if has(prompt, "RAISE_TO") && prompt.MinRaiseTo != nil {
		return Decision{Action: "RAISE_TO", Amount: prompt.MinRaiseTo}
	}
	return CallingStation{}.Act(prompt)
}

func (MinRaiser) OnEvent(protocol.Event) {}

// Random picks uniformly among the legal actions, raising to a random
// amount inside the window. A fixed seed makes a run reproducible.
type Random struct {
	rng *rand.Rand
}

// NewRandom builds a seeded random strategy.
func NewRandom(seed int64) *Random {
	return &Random{rng: randutil.New(seed)}
}

func (s *Random) Act(prompt protocol.Act) Decision {
	choice := prompt.Legal[s.rng.IntN(len(prompt.Legal))]
	if choice != "RAISE_TO" {
		return Decision{Action: choice}
	}
	lo, hi := prompt.MinRaiseTo, prompt.MaxRaiseTo
	if lo == nil || hi == nil {
		return Decision{Action: "FOLD"}
	}
	amount := *lo
	if *hi > *lo {
		amount += s.rng.IntN(*hi - *lo + 1)
	}
	return Decision{Action: "RAISE_TO", Amount: &amount}
}

func (s *Random) OnEvent(protocol.Event) {}
