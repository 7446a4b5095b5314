package stackjack

import (
	"github.com/zeu5/finite-mdp/analysis"
	"github.com/zeu5/finite-mdp/common"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/policies"
)

// RandomPolicy is the fixed mixture of the policy evaluation exercise
var RandomPolicy = core.Distribution{0.3, 0.5, 0.2}

// NamedPolicies returns the fixed policies of the exercises by name
func NamedPolicies() map[string]core.Policy {
	random, _ := policies.NewUniformPolicy(RandomPolicy)
	return map[string]core.Policy{
		"stand":  policies.NewConstantPolicy(ActionStand, numActions),
		"stack1": policies.NewConstantPolicy(ActionStack1, numActions),
		"stack2": policies.NewConstantPolicy(ActionStack2, numActions),
		"random": random,
	}
}

// PrepareComparison builds a Monte-Carlo comparison of the given policies,
// all started from the same card sum.
func PrepareComparison(flags *common.Flags, game *Game, start core.State, named map[string]core.Policy) *core.Comparison {
	cmp := core.NewComparison()
	envs := core.NewSimulatorConstructor(game, flags.Seed)

	cmp.AddAnalysis("Returns", &analysis.ReturnsAnalyzerConstructor{}, flags.DatasetComparator("returns"))
	cmp.AddAnalysis("Visits", &analysis.VisitAnalyzerConstructor{}, flags.DatasetComparator("visits"))

	for name, p := range named {
		cmp.AddExperiment(&core.Experiment{
			Name:        name,
			Environment: envs,
			Policy:      p,
			Start:       start,
		})
	}
	return cmp
}
