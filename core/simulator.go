package core

import (
	"fmt"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Simulator is a stateful environment driven entirely by a Model.
// Step samples from the same Transitions query the solver uses.
type Simulator struct {
	model Model
	state State
	rand  erand.Source
}

var _ Environment = &Simulator{}

func NewSimulator(model Model, seed uint64) *Simulator {
	return &Simulator{
		model: model,
		state: model.Initial(),
		rand:  erand.NewSource(seed),
	}
}

func (s *Simulator) Model() Model {
	return s.model
}

func (s *Simulator) State() State {
	return s.state
}

func (s *Simulator) Reset() State {
	s.state = s.model.Initial()
	return s.state
}

// ResetTo places the simulator in an arbitrary state of the model
func (s *Simulator) ResetTo(state State) error {
	if !HasState(s.model, state) {
		return fmt.Errorf("%w: %d", ErrInvalidState, state)
	}
	s.state = state
	return nil
}

// Step takes the action from the current state and returns the reward and the new state.
// Terminal states absorb with reward 0.
func (s *Simulator) Step(a Action) (float64, State, error) {
	if err := ValidAction(s.model, s.state, a); err != nil {
		return 0, s.state, err
	}
	if s.model.IsTerminal(s.state) {
		return 0, s.state, nil
	}
	outcomes, err := s.model.Transitions(s.state, a)
	if err != nil {
		return 0, s.state, err
	}
	o, err := Sample(outcomes, s.rand)
	if err != nil {
		return 0, s.state, err
	}
	s.state = o.Next
	return o.Reward, s.state, nil
}

// Sample draws one outcome according to the outcome probabilities
func Sample(outcomes []Outcome, src erand.Source) (Outcome, error) {
	if err := ValidateOutcomes(outcomes); err != nil {
		return Outcome{}, err
	}
	if len(outcomes) == 1 {
		return outcomes[0], nil
	}
	weights := make([]float64, len(outcomes))
	for i, o := range outcomes {
		weights[i] = o.Probability
	}
	i, ok := sampleuv.NewWeighted(weights, src).Take()
	if !ok {
		return Outcome{}, fmt.Errorf("%w: nothing to sample", ErrInvalidModel)
	}
	return outcomes[i], nil
}

// SampleAction draws an action from a policy distribution
func SampleAction(d Distribution, src erand.Source) (Action, error) {
	i, ok := sampleuv.NewWeighted(d, src).Take()
	if !ok {
		return 0, fmt.Errorf("%w: nothing to sample", ErrInvalidPolicy)
	}
	return Action(i), nil
}

// SimulatorConstructor creates simulators seeded from a base seed and the instance number
type SimulatorConstructor struct {
	Model Model
	Seed  uint64
}

var _ EnvironmentConstructor = &SimulatorConstructor{}

func NewSimulatorConstructor(model Model, seed uint64) *SimulatorConstructor {
	return &SimulatorConstructor{
		Model: model,
		Seed:  seed,
	}
}

func (c *SimulatorConstructor) NewEnvironment(instance int) Environment {
	return NewSimulator(c.Model, c.Seed+uint64(instance)*0x9e3779b97f4a7c15)
}
