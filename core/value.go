package core

import "math"

// ValueFunction maps states to expected discounted returns
type ValueFunction map[State]float64

// NewValueFunction returns a value function with every state at zero
func NewValueFunction(states []State) ValueFunction {
	v := make(ValueFunction, len(states))
	for _, s := range states {
		v[s] = 0
	}
	return v
}

func (v ValueFunction) Copy() ValueFunction {
	out := make(ValueFunction, len(v))
	for s, val := range v {
		out[s] = val
	}
	return out
}

// MaxDiff is the largest absolute difference over the states of v
func (v ValueFunction) MaxDiff(other ValueFunction) float64 {
	delta := float64(0)
	for s, val := range v {
		delta = math.Max(delta, math.Abs(val-other[s]))
	}
	return delta
}

// Dominates reports whether v is at least other - tol at every state of v
func (v ValueFunction) Dominates(other ValueFunction, tol float64) bool {
	for s, val := range v {
		if val < other[s]-tol {
			return false
		}
	}
	return true
}
