package core

import (
	"fmt"
	"math"
)

// Distribution is a probability per action index
type Distribution []float64

// Validate checks length and that the probabilities sum to one
func (d Distribution) Validate(numActions int) error {
	if len(d) != numActions {
		return fmt.Errorf("%w: %d probabilities for %d actions", ErrInvalidPolicy, len(d), numActions)
	}
	sum := float64(0)
	for a, p := range d {
		if p < 0 || math.IsNaN(p) {
			return fmt.Errorf("%w: probability %v for action %d", ErrInvalidPolicy, p, a)
		}
		sum += p
	}
	if math.Abs(sum-1) > ProbabilityTolerance {
		return fmt.Errorf("%w: probabilities sum to %v", ErrInvalidPolicy, sum)
	}
	return nil
}

// OneHot is the degenerate distribution choosing a single action
func OneHot(a Action, numActions int) Distribution {
	d := make(Distribution, numActions)
	d[a] = 1
	return d
}

type Policy interface {
	Distribution(State) Distribution
}

// Choice is what a policy picks in one state: a SingleAction or an ActionSet.
// Consumers resolve it with a type switch.
type Choice interface {
	Actions() []Action
	isChoice()
}

type SingleAction Action

func (s SingleAction) Actions() []Action { return []Action{Action(s)} }
func (SingleAction) isChoice()           {}

// ActionSet holds every action with non-zero probability, in index order
type ActionSet []Action

func (s ActionSet) Actions() []Action { return s }
func (ActionSet) isChoice()           {}

// ChoiceOf collapses a distribution onto its support
func ChoiceOf(d Distribution) Choice {
	support := make(ActionSet, 0, len(d))
	for a, p := range d {
		if p > 0 {
			support = append(support, Action(a))
		}
	}
	if len(support) == 1 {
		return SingleAction(support[0])
	}
	return support
}

// DistributionOf spreads probability evenly across the actions of a choice
func DistributionOf(c Choice, numActions int) (Distribution, error) {
	actions := c.Actions()
	if len(actions) == 0 {
		return nil, fmt.Errorf("%w: empty choice", ErrInvalidPolicy)
	}
	d := make(Distribution, numActions)
	for _, a := range actions {
		if a < 0 || int(a) >= numActions {
			return nil, fmt.Errorf("%w: action %d out of range", ErrInvalidPolicy, a)
		}
		d[a] += 1 / float64(len(actions))
	}
	return d, nil
}

// Chooser is implemented by policies that can report their choice in a state
type Chooser interface {
	Choice(State) Choice
}

// ChooserOf adapts any policy to a Chooser through its distribution
func ChooserOf(p Policy) Chooser {
	if c, ok := p.(Chooser); ok {
		return c
	}
	return distChooser{p}
}

type distChooser struct {
	Policy
}

func (d distChooser) Choice(s State) Choice {
	return ChoiceOf(d.Distribution(s))
}
