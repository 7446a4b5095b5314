// Package linearworld is a one dimensional corridor that pays 1 for reaching either end.
package linearworld

import (
	"fmt"
	"strings"

	"github.com/zeu5/finite-mdp/core"
)

const (
	ActionLeft core.Action = iota
	ActionRight
)

var ActionNames = []string{"left", "right"}

type Config struct {
	Length int
}

func (c Config) Validate() error {
	if c.Length < 2 {
		return fmt.Errorf("%w: length must be at least 2, got %d", core.ErrInvalidConfig, c.Length)
	}
	return nil
}

// World is the transition model of the linear world.
// It has no terminal state: the ends bounce the agent back inwards.
type World struct {
	length int
	states []core.State
}

var _ core.Model = &World{}

func New(config Config) (*World, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	states := make([]core.State, config.Length)
	for i := range states {
		states[i] = core.State(i)
	}
	return &World{length: config.Length, states: states}, nil
}

func (w *World) Length() int {
	return w.length
}

func (w *World) States() []core.State {
	return w.states
}

func (w *World) NumActions() int {
	return 2
}

// Initial is the middle of the corridor
func (w *World) Initial() core.State {
	return core.State(w.length / 2)
}

func (w *World) IsTerminal(core.State) bool {
	return false
}

func (w *World) Transitions(s core.State, a core.Action) ([]core.Outcome, error) {
	if err := core.ValidAction(w, s, a); err != nil {
		return nil, err
	}
	if s < 0 || int(s) >= w.length {
		return nil, fmt.Errorf("%w: position %d", core.ErrInvalidState, s)
	}
	next := int(s)
	switch {
	case next == 0:
		next++
	case next == w.length-1:
		next--
	case a == ActionLeft:
		next--
	default:
		next++
	}
	reward := float64(0)
	if next == 0 || next == w.length-1 {
		reward = 1
	}
	return []core.Outcome{{Next: core.State(next), Reward: reward, Probability: 1}}, nil
}

// Render draws the corridor with an X at the given position
func (w *World) Render(pos core.State) string {
	cells := make([]string, w.length)
	for i := range cells {
		cells[i] = "_"
		if core.State(i) == pos {
			cells[i] = "X"
		}
	}
	return strings.Join(cells, " ")
}

// ParseAction accepts an action name or index
func ParseAction(s string) (core.Action, error) {
	for i, name := range ActionNames {
		if s == name || s == fmt.Sprint(i) {
			return core.Action(i), nil
		}
	}
	return 0, &core.InvalidActionError{Action: -1, Reason: fmt.Sprintf("unknown action %q", s)}
}
