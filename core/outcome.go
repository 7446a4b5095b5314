package core

import (
	"fmt"
	"math"
)

// ProbabilityTolerance bounds how far a distribution may sum away from 1
const ProbabilityTolerance = 1e-9

// ValidateOutcomes checks that the outcomes form a probability distribution
func ValidateOutcomes(outcomes []Outcome) error {
	if len(outcomes) == 0 {
		return fmt.Errorf("%w: empty outcome list", ErrInvalidModel)
	}
	sum := float64(0)
	for _, o := range outcomes {
		if o.Probability < 0 || o.Probability > 1 || math.IsNaN(o.Probability) {
			return fmt.Errorf("%w: probability %v of outcome to state %d", ErrInvalidModel, o.Probability, o.Next)
		}
		if math.IsNaN(o.Reward) || math.IsInf(o.Reward, 0) {
			return fmt.Errorf("%w: reward %v of outcome to state %d", ErrInvalidModel, o.Reward, o.Next)
		}
		sum += o.Probability
	}
	if math.Abs(sum-1) > ProbabilityTolerance {
		return fmt.Errorf("%w: outcome probabilities sum to %v", ErrInvalidModel, sum)
	}
	return nil
}

// Merge folds outcomes with the same next state and reward together.
// Order of first appearance is kept.
func Merge(outcomes []Outcome) []Outcome {
	type key struct {
		next   State
		reward float64
	}
	index := make(map[key]int)
	out := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		k := key{o.Next, o.Reward}
		if i, ok := index[k]; ok {
			out[i].Probability += o.Probability
			continue
		}
		index[k] = len(out)
		out = append(out, o)
	}
	return out
}

// Uniform builds equally likely outcomes, one per element
func Uniform[T any](items []T, f func(T) (State, float64)) []Outcome {
	out := make([]Outcome, len(items))
	p := 1 / float64(len(items))
	for i, item := range items {
		next, reward := f(item)
		out[i] = Outcome{Next: next, Reward: reward, Probability: p}
	}
	return out
}
