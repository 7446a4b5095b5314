package policies

import (
	"fmt"

	"github.com/zeu5/finite-mdp/core"
	"gonum.org/v1/gonum/floats"
)

// Deterministic picks exactly one action per state.
// States without an entry fall back to action 0.
type Deterministic struct {
	Actions    map[core.State]core.Action
	numActions int
}

var _ core.Policy = &Deterministic{}

func NewDeterministic(numActions int) *Deterministic {
	return &Deterministic{
		Actions:    make(map[core.State]core.Action),
		numActions: numActions,
	}
}

func (d *Deterministic) NumActions() int {
	return d.numActions
}

func (d *Deterministic) Set(s core.State, a core.Action) {
	d.Actions[s] = a
}

func (d *Deterministic) Action(s core.State) core.Action {
	return d.Actions[s]
}

func (d *Deterministic) Distribution(s core.State) core.Distribution {
	return core.OneHot(d.Actions[s], d.numActions)
}

func (d *Deterministic) Choice(s core.State) core.Choice {
	return core.SingleAction(d.Actions[s])
}

// Equal reports whether both policies choose the same action in every state
func (d *Deterministic) Equal(other *Deterministic) bool {
	if len(d.Actions) != len(other.Actions) {
		return false
	}
	for s, a := range d.Actions {
		if oa, ok := other.Actions[s]; !ok || oa != a {
			return false
		}
	}
	return true
}

// Stochastic converts to one-hot distributions over the model's states
func (d *Deterministic) Stochastic(m core.Model) *Stochastic {
	out := NewStochastic(d.numActions)
	for _, s := range m.States() {
		out.dists[s] = d.Distribution(s)
	}
	return out
}

// ToDeterministic keeps the most likely action of the policy in every state, ties go to the lowest index
func ToDeterministic(p core.Policy, m core.Model) (*Deterministic, error) {
	out := NewDeterministic(m.NumActions())
	for _, s := range m.States() {
		dist := p.Distribution(s)
		if err := dist.Validate(m.NumActions()); err != nil {
			return nil, fmt.Errorf("state %d: %w", s, err)
		}
		out.Set(s, core.Action(floats.MaxIdx(dist)))
	}
	return out, nil
}
