package game

// Phase is a stage of a hand. Its wire form is the upper-case snake name.
type Phase int

const (
	PhasePreFlop Phase = iota
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

var phaseNames = [...]string{"PRE_FLOP", "FLOP", "TURN", "RIVER", "SHOWDOWN"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// Action is a betting decision. The values match the wire protocol.
type Action string

const (
	ActionFold    Action = "FOLD"
	ActionCheck   Action = "CHECK"
	ActionCall    Action = "CALL"
	ActionRaiseTo Action = "RAISE_TO"
)

// ParseAction maps a wire action string to an Action.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionFold, ActionCheck, ActionCall, ActionRaiseTo:
		return Action(s), true
	}
	return "", false
}

// ActionWindow describes what a seat may legally do right now. The amount
// fields are nil when the corresponding action is not available.
type ActionWindow struct {
	Legal      []Action
	CallAmount *int
	MinRaiseTo *int
	MaxRaiseTo *int
}

// Allows reports whether a is among the legal actions.
func (w ActionWindow) Allows(a Action) bool {
	for _, l := range w.Legal {
		if l == a {
			return true
		}
	}
	return false
}

// FallbackAction picks the forced action for a seat whose turn resolved
// without a usable decision: check when free, otherwise call, otherwise
// fold.
func FallbackAction(w ActionWindow) Action {
	switch {
	case w.Allows(ActionCheck):
		return ActionCheck
	case w.Allows(ActionCall):
		return ActionCall
	}
	return ActionFold
}

// LegalStrings returns the legal actions as wire strings.
func (w ActionWindow) LegalStrings() []string {
	out := make([]string, len(w.Legal))
	for i, a := range w.Legal {
		out[i] = string(a)
	}
	return out
}
