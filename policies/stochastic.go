package policies

import (
	"fmt"

	"github.com/zeu5/finite-mdp/core"
)

// Stochastic holds an explicit action distribution per state.
// States without an entry use the uniform random distribution.
type Stochastic struct {
	dists      map[core.State]core.Distribution
	fallback   core.Distribution
	numActions int
}

var _ core.Policy = &Stochastic{}

func NewStochastic(numActions int) *Stochastic {
	return &Stochastic{
		dists:      make(map[core.State]core.Distribution),
		fallback:   NewRandomPolicy(numActions).probabilities,
		numActions: numActions,
	}
}

func (s *Stochastic) Set(state core.State, d core.Distribution) error {
	if err := d.Validate(s.numActions); err != nil {
		return fmt.Errorf("state %d: %w", state, err)
	}
	stored := make(core.Distribution, len(d))
	copy(stored, d)
	s.dists[state] = stored
	return nil
}

// SetChoice spreads the state's probability evenly over the chosen actions
func (s *Stochastic) SetChoice(state core.State, c core.Choice) error {
	d, err := core.DistributionOf(c, s.numActions)
	if err != nil {
		return fmt.Errorf("state %d: %w", state, err)
	}
	s.dists[state] = d
	return nil
}

func (s *Stochastic) Distribution(state core.State) core.Distribution {
	if d, ok := s.dists[state]; ok {
		return d
	}
	return s.fallback
}

func (s *Stochastic) Choice(state core.State) core.Choice {
	return core.ChoiceOf(s.Distribution(state))
}
