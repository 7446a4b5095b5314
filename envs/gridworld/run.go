package gridworld

import (
	"github.com/zeu5/finite-mdp/analysis"
	"github.com/zeu5/finite-mdp/common"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/policies"
)

// DefaultGamma discounts the continuing gridworld tasks
const DefaultGamma = 0.9

// DefaultHorizon truncates Monte-Carlo episodes in worlds without terminal cells
const DefaultHorizon = 200

// PrepareComparison compares the given policy against the uniform random walk from the start cell
func PrepareComparison(flags *common.Flags, world *World, name string, policy core.Policy) *core.Comparison {
	cmp := core.NewComparison()
	envs := core.NewSimulatorConstructor(world, flags.Seed)

	cmp.AddAnalysis("Returns", &analysis.ReturnsAnalyzerConstructor{}, flags.DatasetComparator("returns"))
	cmp.AddAnalysis("Visits", &analysis.VisitAnalyzerConstructor{}, flags.DatasetComparator("visits"))

	cmp.AddExperiment(&core.Experiment{
		Name:        name,
		Environment: envs,
		Policy:      policy,
		Start:       world.Initial(),
	})
	cmp.AddExperiment(&core.Experiment{
		Name:        "random",
		Environment: envs,
		Policy:      policies.NewRandomPolicy(world.NumActions()),
		Start:       world.Initial(),
	})
	return cmp
}
