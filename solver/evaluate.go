package solver

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/zeu5/finite-mdp/core"
)

// Evaluate computes the value function of a fixed policy with synchronous sweeps.
// Every sweep reads only the previous sweep's values. Terminal states stay at 0.
func Evaluate(model core.Model, policy core.Policy, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	w, err := newSweeper(model, config.Gamma)
	if err != nil {
		return nil, err
	}
	for _, s := range w.states {
		if model.IsTerminal(s) {
			continue
		}
		if err := policy.Distribution(s).Validate(model.NumActions()); err != nil {
			return nil, fmt.Errorf("state %d: %w", s, err)
		}
	}
	logger := config.logger().WithField("solver", "evaluate")

	values := core.NewValueFunction(w.states)
	delta := float64(0)
	for sweep := 1; sweep <= config.maxIterations(); sweep++ {
		next := make(core.ValueFunction, len(values))
		for _, s := range w.states {
			if model.IsTerminal(s) {
				next[s] = 0
				continue
			}
			v := float64(0)
			for a, p := range policy.Distribution(s) {
				if p == 0 {
					continue
				}
				q, err := w.actionValue(values, s, core.Action(a))
				if err != nil {
					return nil, err
				}
				v += p * q
			}
			next[s] = v
		}
		delta = next.MaxDiff(values)
		values = next
		logger.WithFields(logrus.Fields{"sweep": sweep, "delta": delta}).Debug("sweep done")

		if delta <= config.Theta {
			return &Result{
				Values: values,
				Sweeps: sweep,
				Delta:  delta,
			}, nil
		}
	}
	return nil, &core.ConvergenceError{Sweeps: config.maxIterations(), Delta: delta, Theta: config.Theta}
}
