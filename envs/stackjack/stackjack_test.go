package stackjack

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/finite-mdp/analysis"
	"github.com/zeu5/finite-mdp/common"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/solver"
)

func newGame(t *testing.T, compose BustComposition) *Game {
	t.Helper()
	config := DefaultConfig()
	config.BustComposition = compose
	game, err := New(config)
	require.NoError(t, err)
	return game
}

func TestTransitionsAreDistributions(t *testing.T) {
	game := newGame(t, ComposeAdditive)
	require.Len(t, game.States(), 28)
	for _, s := range game.States() {
		for a := 0; a < game.NumActions(); a++ {
			outcomes, err := game.Transitions(s, core.Action(a))
			require.NoError(t, err)
			require.NoError(t, core.ValidateOutcomes(outcomes), "sum %d action %d", s, a)
			for _, o := range outcomes {
				assert.True(t, core.HasState(game, o.Next))
				assert.GreaterOrEqual(t, int(o.Next), int(s))
			}
		}
	}
}

func TestStandOutcomes(t *testing.T) {
	game := newGame(t, ComposeAdditive)
	outcomes, err := game.Transitions(23, ActionStand)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	byReward := make(map[float64]float64)
	for _, o := range outcomes {
		assert.Equal(t, game.Terminal(), o.Next)
		byReward[o.Reward] = o.Probability
	}
	assert.InDelta(t, 3.0/7, byReward[10], 1e-12)
	assert.InDelta(t, 1.0/7, byReward[0], 1e-12)
	assert.InDelta(t, 3.0/7, byReward[-10], 1e-12)

	assert.Equal(t, -10.0, game.StandValue(0))
	assert.Equal(t, 0.0, game.StandValue(23))
	assert.InDelta(t, 60.0/7, game.StandValue(26), 1e-12)
}

func TestDrawAndBust(t *testing.T) {
	additive := newGame(t, ComposeAdditive)
	outcomes, err := additive.Transitions(25, ActionStack1)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, core.Outcome{Next: 26, Reward: -1, Probability: 0.2}, outcomes[0])
	assert.Equal(t, additive.Terminal(), outcomes[1].Next)
	assert.Equal(t, -21.0, outcomes[1].Reward)
	assert.InDelta(t, 0.8, outcomes[1].Probability, 1e-12)

	bustOnly := newGame(t, ComposeBustOnly)
	outcomes, err = bustOnly.Transitions(16, ActionStack2)
	require.NoError(t, err)
	for _, o := range outcomes {
		if o.Next == bustOnly.Terminal() {
			assert.Equal(t, -20.0, o.Reward)
		} else {
			assert.Equal(t, -1.0, o.Reward)
			assert.Less(t, int(o.Next), 27)
		}
	}

	// reaching exactly 27 is bust
	outcomes, err = additive.Transitions(12, ActionStack2)
	require.NoError(t, err)
	require.Len(t, outcomes, 5)
	assert.Equal(t, core.Outcome{Next: 27, Reward: -21, Probability: 0.2}, outcomes[4])
}

func TestTerminalAndInvalidAction(t *testing.T) {
	game := newGame(t, ComposeAdditive)
	outcomes, err := game.Transitions(game.Terminal(), ActionStack1)
	require.NoError(t, err)
	assert.Equal(t, []core.Outcome{{Next: game.Terminal(), Reward: 0, Probability: 1}}, outcomes)

	_, err = game.Transitions(3, 3)
	assert.ErrorIs(t, err, core.ErrInvalidAction)
	_, err = game.Transitions(40, ActionStand)
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"bust":    func(c *Config) { c.Bust = 0 },
		"stack1":  func(c *Config) { c.Stack1 = nil },
		"dealer":  func(c *Config) { c.DealerStack = []int{20, -1} },
		"compose": func(c *Config) { c.BustComposition = 5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			config := DefaultConfig()
			mutate(&config)
			_, err := New(config)
			assert.ErrorIs(t, err, core.ErrInvalidConfig)
		})
	}
}

func TestNewCopiesStacks(t *testing.T) {
	config := DefaultConfig()
	game, err := New(config)
	require.NoError(t, err)
	config.Stack1[0] = 9
	assert.Equal(t, 1, game.Config().Stack1[0])
}

func TestParseAction(t *testing.T) {
	for i, name := range ActionNames {
		a, err := ParseAction(name)
		require.NoError(t, err)
		assert.Equal(t, core.Action(i), a)
	}
	a, err := ParseAction("2")
	require.NoError(t, err)
	assert.Equal(t, ActionStack2, a)
	_, err = ParseAction("hit")
	assert.ErrorIs(t, err, core.ErrInvalidAction)
}

func TestPlay(t *testing.T) {
	game := newGame(t, ComposeAdditive)
	sim := core.NewSimulator(game, 3)

	reward, state, err := sim.Step(ActionStack2)
	require.NoError(t, err)
	assert.Equal(t, -1.0, reward)
	assert.GreaterOrEqual(t, int(state), 11)
	assert.LessOrEqual(t, int(state), 15)

	reward, state, err = sim.Step(ActionStand)
	require.NoError(t, err)
	assert.Equal(t, -10.0, reward)
	assert.Equal(t, game.Terminal(), state)

	_, _, err = sim.Step(4)
	assert.ErrorIs(t, err, core.ErrInvalidAction)
	assert.Equal(t, game.Terminal(), sim.State())
}

func TestRender(t *testing.T) {
	game := newGame(t, ComposeAdditive)
	res, err := solver.Evaluate(game, NamedPolicies()["stand"], solver.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, game.Render(&buf, res.Values, core.ChooserOf(NamedPolicies()["random"]), false))
	out := buf.String()
	assert.Contains(t, out, "sum")
	assert.Contains(t, out, "-10.000")
	assert.Contains(t, out, "stand|stack1|stack2")
	assert.Contains(t, out, "bust")
	assert.NotContains(t, out, "\x1b[")
}

func TestNamedPolicies(t *testing.T) {
	named := NamedPolicies()
	require.Len(t, named, 4)
	for name, p := range named {
		assert.NoError(t, p.Distribution(0).Validate(numActions), name)
	}
	assert.Equal(t, RandomPolicy, named["random"].Distribution(5))
}

func TestMonteCarloMatchesExactValues(t *testing.T) {
	game := newGame(t, ComposeAdditive)
	config := solver.DefaultConfig()

	optimal, err := solver.Optimize(game, config)
	require.NoError(t, err)
	named := NamedPolicies()
	exact := map[string]core.ValueFunction{}
	for name, p := range named {
		res, err := solver.Evaluate(game, p, config)
		require.NoError(t, err)
		exact[name] = res.Values
	}
	named["optimal"] = optimal.Policy
	exact["optimal"] = optimal.Values

	flags := common.DefaultFlags()
	flags.SavePath = t.TempDir()
	flags.RunID = "mc"

	start := core.State(11)
	cmp := PrepareComparison(flags, game, start, named)
	result, err := cmp.Run(context.Background(), flags.RunConfig(1, nil))
	require.NoError(t, err)

	require.Len(t, result.Estimates, 5)
	for name, e := range result.Estimates {
		assert.Equal(t, 10000, e.Episodes, name)
		assert.Zero(t, e.Truncated, name)
		bound := math.Max(0.5, 5*e.StdErr)
		assert.InDelta(t, exact[name][start], e.Mean, bound, name)
	}
	// the deterministic policies from 11 always end the same way
	assert.Equal(t, -10.0, result.Estimates["stand"].Mean)
	assert.Equal(t, -22.0, result.Estimates["stack2"].Mean)

	for _, file := range []string{"returns.json", "visits.json"} {
		_, err := os.Stat(filepath.Join(flags.SavePath, "mc", file))
		assert.NoError(t, err, file)
	}
}

func TestComparisonWithoutSavePath(t *testing.T) {
	game := newGame(t, ComposeAdditive)
	flags := common.DefaultFlags()
	flags.SavePath = ""

	cmp := PrepareComparison(flags, game, 20, map[string]core.Policy{"stand": NamedPolicies()["stand"]})
	for name, c := range cmp.Comparators {
		assert.IsType(t, &analysis.NoOpComparator{}, c, name)
	}
	result, err := cmp.Run(context.Background(), &core.RunConfig{Episodes: 50, Gamma: 1, Seed: 2})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Estimates["stand"].Episodes)
	assert.Contains(t, result.Datasets["stand"], "Returns")
}
