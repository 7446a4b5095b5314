package policies

import (
	"github.com/zeu5/finite-mdp/core"
)

// UniformPolicy uses the same action distribution in every state
type UniformPolicy struct {
	probabilities core.Distribution
}

var _ core.Policy = &UniformPolicy{}

func NewUniformPolicy(probabilities core.Distribution) (*UniformPolicy, error) {
	if err := probabilities.Validate(len(probabilities)); err != nil {
		return nil, err
	}
	p := make(core.Distribution, len(probabilities))
	copy(p, probabilities)
	return &UniformPolicy{probabilities: p}, nil
}

// NewRandomPolicy picks every action with equal probability
func NewRandomPolicy(numActions int) *UniformPolicy {
	p := make(core.Distribution, numActions)
	for i := range p {
		p[i] = 1 / float64(numActions)
	}
	return &UniformPolicy{probabilities: p}
}

// NewConstantPolicy always picks the same action
func NewConstantPolicy(action core.Action, numActions int) *UniformPolicy {
	return &UniformPolicy{probabilities: core.OneHot(action, numActions)}
}

func (u *UniformPolicy) Distribution(_ core.State) core.Distribution {
	return u.probabilities
}
