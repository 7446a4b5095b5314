package core

import (
	"context"
	"fmt"
	"sort"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// Estimate is the Monte-Carlo estimate of a policy's value at a start state
type Estimate struct {
	Start     State
	Mean      float64
	StdDev    float64
	StdErr    float64
	Episodes  int
	Truncated int
	Returns   []float64
}

type verifyContext struct {
	ctx       context.Context
	analyzers []Analyzer
	rand      erand.Source

	*RunConfig
}

// Verify estimates the value of the policy at the start state by sampling
// independent episodes, each on a fresh environment.
func Verify(ctx context.Context, envs EnvironmentConstructor, policy Policy, start State, config *RunConfig, analyzers ...Analyzer) (*Estimate, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	vCtx := &verifyContext{
		ctx:       ctx,
		analyzers: analyzers,
		rand:      erand.NewSource(config.Seed),
		RunConfig: config,
	}
	return vCtx.run(envs, policy, start)
}

func (v *verifyContext) run(envs EnvironmentConstructor, policy Policy, start State) (*Estimate, error) {
	result := &Estimate{
		Start:   start,
		Returns: make([]float64, 0, v.Episodes),
	}
	for episode := 0; episode < v.Episodes; episode++ {
		select {
		case <-v.ctx.Done():
			return nil, v.ctx.Err()
		default:
		}

		trace, err := v.episode(envs.NewEnvironment(episode), policy, start)
		if err != nil {
			return nil, fmt.Errorf("episode %d: %w", episode, err)
		}
		result.Returns = append(result.Returns, trace.Return)
		result.Episodes++
		if trace.Truncated {
			result.Truncated++
		}
		for _, a := range v.analyzers {
			a.Analyze(episode, trace)
		}

		if v.Progress != nil {
			fmt.Fprintf(
				v.Progress,
				"Start: %d, Episode %d/%d, Return: %.3f, Truncated: %d\n",
				start, episode+1, v.Episodes, trace.Return, result.Truncated,
			)
		}
	}

	result.Mean, result.StdDev = stat.MeanStdDev(result.Returns, nil)
	if result.Episodes > 1 {
		result.StdErr = stat.StdErr(result.StdDev, float64(result.Episodes))
	} else {
		result.StdDev = 0
	}
	return result, nil
}

func (v *verifyContext) episode(env Environment, policy Policy, start State) (*Trace, error) {
	if err := env.ResetTo(start); err != nil {
		return nil, err
	}
	model := env.Model()
	trace := NewTrace()
	state := start
	discount := float64(1)
	for step := 0; !model.IsTerminal(state); step++ {
		if v.Horizon > 0 && step >= v.Horizon {
			trace.Truncated = true
			break
		}
		select {
		case <-v.ctx.Done():
			return nil, v.ctx.Err()
		default:
		}

		dist := policy.Distribution(state)
		if err := dist.Validate(model.NumActions()); err != nil {
			return nil, fmt.Errorf("state %d: %w", state, err)
		}
		action, err := SampleAction(dist, v.rand)
		if err != nil {
			return nil, err
		}
		reward, next, err := env.Step(action)
		if err != nil {
			return nil, err
		}
		trace.AddStep(&Step{
			State:     state,
			Action:    action,
			Reward:    reward,
			NextState: next,
		})
		trace.Return += discount * reward
		discount *= v.Gamma
		state = next
	}
	return trace, nil
}

// ComparisonResult holds one estimate per experiment name
type ComparisonResult struct {
	Estimates map[string]*Estimate
	Datasets  map[string]map[string]DataSet
}

// Run verifies every experiment of the comparison and feeds the analyzer
// datasets to the comparators. Experiments run in name order.
func (c *Comparison) Run(ctx context.Context, config *RunConfig) (*ComparisonResult, error) {
	result := &ComparisonResult{
		Estimates: make(map[string]*Estimate),
		Datasets:  make(map[string]map[string]DataSet),
	}
	experiments := make([]*Experiment, len(c.Experiments))
	copy(experiments, c.Experiments)
	sort.SliceStable(experiments, func(i, j int) bool {
		return experiments[i].Name < experiments[j].Name
	})

	analyzerNames := make([]string, 0, len(c.Analyzers))
	for name := range c.Analyzers {
		analyzerNames = append(analyzerNames, name)
	}
	sort.Strings(analyzerNames)

	for _, e := range experiments {
		analyzers := make([]Analyzer, len(analyzerNames))
		for i, name := range analyzerNames {
			analyzers[i] = c.Analyzers[name].NewAnalyzer()
		}
		estimate, err := Verify(ctx, e.Environment, e.Policy, e.Start, config, analyzers...)
		if err != nil {
			return nil, fmt.Errorf("experiment %s: %w", e.Name, err)
		}
		result.Estimates[e.Name] = estimate
		datasets := make(map[string]DataSet)
		for i, name := range analyzerNames {
			datasets[name] = analyzers[i].DataSet()
		}
		result.Datasets[e.Name] = datasets
	}

	experimentNames := make([]string, len(experiments))
	for i, e := range experiments {
		experimentNames[i] = e.Name
	}
	for _, name := range analyzerNames {
		cmp, ok := c.Comparators[name]
		if !ok || cmp == nil {
			continue
		}
		datasets := make([]DataSet, len(experiments))
		for i, e := range experiments {
			datasets[i] = result.Datasets[e.Name][name]
		}
		if err := cmp.Compare(experimentNames, datasets); err != nil {
			return nil, err
		}
	}
	return result, nil
}
