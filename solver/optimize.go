package solver

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/policies"
)

// Optimize runs value iteration: every non-terminal state takes the best action value
// of the previous sweep. The arg-max (lowest index on ties) forms the greedy policy.
func Optimize(model core.Model, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	w, err := newSweeper(model, config.Gamma)
	if err != nil {
		return nil, err
	}
	logger := config.logger().WithField("solver", "optimize")

	values := core.NewValueFunction(w.states)
	delta := float64(0)
	for sweep := 1; sweep <= config.maxIterations(); sweep++ {
		next := make(core.ValueFunction, len(values))
		policy := policies.NewDeterministic(model.NumActions())
		qTable := policies.NewQTable(model.NumActions())
		for _, s := range w.states {
			if model.IsTerminal(s) {
				next[s] = 0
				policy.Set(s, 0)
				continue
			}
			qs, err := w.actionValues(values, s)
			if err != nil {
				return nil, err
			}
			a, v := best(qs)
			next[s] = v
			policy.Set(s, a)
			if err := qTable.SetAll(s, qs); err != nil {
				return nil, err
			}
		}
		delta = next.MaxDiff(values)
		values = next
		logger.WithFields(logrus.Fields{"sweep": sweep, "delta": delta}).Debug("sweep done")

		if delta <= config.Theta {
			return &Result{
				Values:  values,
				Policy:  policy,
				QValues: qTable,
				Sweeps:  sweep,
				Delta:   delta,
			}, nil
		}
	}
	return nil, &core.ConvergenceError{Sweeps: config.maxIterations(), Delta: delta, Theta: config.Theta}
}

// Greedy returns the policy that picks the best one-step look-ahead action
// under the given values. Terminal states get action 0.
func Greedy(model core.Model, values core.ValueFunction, gamma float64) (*policies.Deterministic, error) {
	w, err := newSweeper(model, gamma)
	if err != nil {
		return nil, err
	}
	policy := policies.NewDeterministic(model.NumActions())
	for _, s := range w.states {
		if model.IsTerminal(s) {
			policy.Set(s, 0)
			continue
		}
		qs, err := w.actionValues(values, s)
		if err != nil {
			return nil, fmt.Errorf("greedy: %w", err)
		}
		a, _ := best(qs)
		policy.Set(s, a)
	}
	return policy, nil
}

// Iterate runs policy iteration from the initial policy: evaluate, then improve
// greedily until the greedy policy stops changing.
func Iterate(model core.Model, initial core.Policy, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger := config.logger().WithField("solver", "iterate")

	current := initial
	var previous *policies.Deterministic
	var lastValues core.ValueFunction
	sweeps := 0
	for round := 1; round <= config.maxIterations(); round++ {
		eval, err := Evaluate(model, current, config)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", round, err)
		}
		sweeps += eval.Sweeps
		greedy, err := Greedy(model, eval.Values, config.Gamma)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{"round": round, "sweeps": eval.Sweeps}).Debug("policy evaluated")

		stable := previous != nil && greedy.Equal(previous)
		if !stable && lastValues != nil && eval.Values.MaxDiff(lastValues) <= config.Theta {
			stable = true
		}
		if stable {
			return &Result{
				Values: eval.Values,
				Policy: greedy,
				Sweeps: sweeps,
				Delta:  eval.Delta,
			}, nil
		}
		previous = greedy
		lastValues = eval.Values
		current = greedy
	}
	return nil, &core.ConvergenceError{Sweeps: sweeps, Theta: config.Theta}
}
