package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeu5/finite-mdp/core"
	"gonum.org/v1/gonum/floats"
)

// sweeper caches the state set of a model so outcomes can be checked on every query
type sweeper struct {
	model  core.Model
	states []core.State
	known  map[core.State]bool
	gamma  float64
}

func newSweeper(model core.Model, gamma float64) (*sweeper, error) {
	states := model.States()
	if len(states) == 0 {
		return nil, fmt.Errorf("%w: no states", core.ErrInvalidModel)
	}
	if model.NumActions() <= 0 {
		return nil, fmt.Errorf("%w: no actions", core.ErrInvalidModel)
	}
	known := make(map[core.State]bool, len(states))
	for _, s := range states {
		if known[s] {
			return nil, fmt.Errorf("%w: duplicate state %d", core.ErrInvalidModel, s)
		}
		known[s] = true
	}
	return &sweeper{
		model:  model,
		states: states,
		known:  known,
		gamma:  gamma,
	}, nil
}

// actionValue is the expected reward plus discounted next-state value of one action
func (w *sweeper) actionValue(values core.ValueFunction, s core.State, a core.Action) (float64, error) {
	outcomes, err := w.model.Transitions(s, a)
	if err != nil {
		return 0, err
	}
	if err := core.ValidateOutcomes(outcomes); err != nil {
		return 0, fmt.Errorf("state %d action %d: %w", s, a, err)
	}
	q := float64(0)
	for _, o := range outcomes {
		if !w.known[o.Next] {
			return 0, fmt.Errorf("%w: state %d action %d leads to unknown state %d", core.ErrInvalidModel, s, a, o.Next)
		}
		next := values[o.Next]
		if w.model.IsTerminal(o.Next) {
			next = 0
		}
		q += o.Probability * (o.Reward + w.gamma*next)
	}
	return q, nil
}

// actionValues evaluates every action of the state. Actions the model rejects get -Inf.
func (w *sweeper) actionValues(values core.ValueFunction, s core.State) ([]float64, error) {
	n := w.model.NumActions()
	qs := make([]float64, n)
	allowed := 0
	for a := 0; a < n; a++ {
		q, err := w.actionValue(values, s, core.Action(a))
		if errors.Is(err, core.ErrInvalidAction) {
			qs[a] = math.Inf(-1)
			continue
		}
		if err != nil {
			return nil, err
		}
		qs[a] = q
		allowed++
	}
	if allowed == 0 {
		return nil, fmt.Errorf("%w: no allowed action in state %d", core.ErrInvalidModel, s)
	}
	return qs, nil
}

// best returns the first action with the largest value
func best(qs []float64) (core.Action, float64) {
	a := floats.MaxIdx(qs)
	return core.Action(a), qs[a]
}

// ActionValues returns the one-step look-ahead value of every action in the state
func ActionValues(model core.Model, values core.ValueFunction, s core.State, gamma float64) ([]float64, error) {
	w, err := newSweeper(model, gamma)
	if err != nil {
		return nil, err
	}
	if !w.known[s] {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidState, s)
	}
	return w.actionValues(values, s)
}
