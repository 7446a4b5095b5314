package core

// State is the integer index of an environment configuration.
// Environments map their native states (card sums, grid cells) onto it.
type State int

// Action indexes into the fixed, ordered list of moves of an environment.
type Action int

// Outcome is one possible result of taking an action in a state
type Outcome struct {
	Next        State
	Reward      float64
	Probability float64
}

// Model is the side-effect free view of an environment's dynamics.
// The solver only ever talks to a Model, the simulator samples from it.
type Model interface {
	States() []State
	NumActions() int
	Initial() State
	IsTerminal(State) bool
	// Transitions returns the outcome distribution of taking the action in the state.
	// Returns an InvalidActionError when the action is not allowed.
	Transitions(State, Action) ([]Outcome, error)
}

type Environment interface {
	Reset() State
	ResetTo(State) error
	State() State
	Step(Action) (float64, State, error)
	Model() Model
}

type EnvironmentConstructor interface {
	// NewEnvironment creates a new environment with the given instance number.
	NewEnvironment(int) Environment
}

// ValidAction checks that the action lies in [0, NumActions)
func ValidAction(m Model, s State, a Action) error {
	if a < 0 || int(a) >= m.NumActions() {
		return &InvalidActionError{State: s, Action: a, Reason: "out of range"}
	}
	return nil
}

// HasState reports whether the state is one of the model's states
func HasState(m Model, s State) bool {
	for _, st := range m.States() {
		if st == s {
			return true
		}
	}
	return false
}
