package solver_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/envs/gridworld"
	"github.com/zeu5/finite-mdp/envs/linearworld"
	"github.com/zeu5/finite-mdp/envs/stackjack"
	"github.com/zeu5/finite-mdp/policies"
	"github.com/zeu5/finite-mdp/solver"
	"gonum.org/v1/gonum/floats"
)

const tol = 1e-9

func newGame(t *testing.T) *stackjack.Game {
	t.Helper()
	game, err := stackjack.New(stackjack.DefaultConfig())
	require.NoError(t, err)
	return game
}

func config(gamma float64) solver.Config {
	c := solver.DefaultConfig()
	c.Gamma = gamma
	return c
}

// residual is the largest Bellman optimality error of the values
func residual(t *testing.T, model core.Model, values core.ValueFunction, gamma float64) float64 {
	t.Helper()
	worst := float64(0)
	for _, s := range model.States() {
		if model.IsTerminal(s) {
			continue
		}
		qs, err := solver.ActionValues(model, values, s, gamma)
		require.NoError(t, err)
		worst = math.Max(worst, math.Abs(floats.Max(qs)-values[s]))
	}
	return worst
}

func TestEvaluateStandMatchesClosedForm(t *testing.T) {
	game := newGame(t)
	res, err := solver.Evaluate(game, stackjack.NamedPolicies()["stand"], config(1))
	require.NoError(t, err)

	for _, s := range game.States() {
		if game.IsTerminal(s) {
			assert.Zero(t, res.Values[s])
			continue
		}
		assert.InDelta(t, game.StandValue(int(s)), res.Values[s], tol, "sum %d", s)
	}
	// every dealer card beats an empty hand
	assert.InDelta(t, -10.0, res.Values[0], tol)
	assert.InDelta(t, 0.0, res.Values[23], tol)
	assert.InDelta(t, 60.0/7, res.Values[26], tol)
	assert.Nil(t, res.Policy)
}

func TestEvaluateFixedPolicies(t *testing.T) {
	game := newGame(t)
	for name, policy := range stackjack.NamedPolicies() {
		res, err := solver.Evaluate(game, policy, config(1))
		require.NoError(t, err, name)
		assert.LessOrEqual(t, res.Delta, 1e-12, name)
		assert.Zero(t, res.Values[game.Terminal()], name)
	}
}

func TestEvaluateOneStepLookahead(t *testing.T) {
	game := newGame(t)
	policy := stackjack.NamedPolicies()["random"]
	res, err := solver.Evaluate(game, policy, config(1))
	require.NoError(t, err)

	for _, s := range game.States() {
		if game.IsTerminal(s) {
			continue
		}
		qs, err := solver.ActionValues(game, res.Values, s, 1)
		require.NoError(t, err)
		assert.InDelta(t, floats.Dot(qs, policy.Distribution(s)), res.Values[s], 1e-9, "sum %d", s)
	}
}

func TestOptimizeStackJack(t *testing.T) {
	game := newGame(t)
	res, err := solver.Optimize(game, config(1))
	require.NoError(t, err)

	assert.LessOrEqual(t, residual(t, game, res.Values, 1), tol)
	assert.Zero(t, res.Values[game.Terminal()])
	require.NotNil(t, res.Policy)
	require.NotNil(t, res.QValues)

	// 26 only draws against a dealer 26 and any card busts
	assert.Equal(t, stackjack.ActionStand, res.Policy.Action(26))
	assert.InDelta(t, 60.0/7, res.Values[26], tol)

	for name, policy := range stackjack.NamedPolicies() {
		fixed, err := solver.Evaluate(game, policy, config(1))
		require.NoError(t, err)
		assert.True(t, res.Values.Dominates(fixed.Values, tol), "optimal should dominate %s", name)
	}
}

func TestOptimizeAdditiveBustCostsMore(t *testing.T) {
	additive := newGame(t)
	bustOnlyConfig := stackjack.DefaultConfig()
	bustOnlyConfig.BustComposition = stackjack.ComposeBustOnly
	bustOnly, err := stackjack.New(bustOnlyConfig)
	require.NoError(t, err)

	a, err := solver.Optimize(additive, config(1))
	require.NoError(t, err)
	b, err := solver.Optimize(bustOnly, config(1))
	require.NoError(t, err)
	assert.True(t, b.Values.Dominates(a.Values, tol))
}

func TestIterateMatchesOptimize(t *testing.T) {
	game := newGame(t)
	optimal, err := solver.Optimize(game, config(1))
	require.NoError(t, err)

	for name, initial := range stackjack.NamedPolicies() {
		res, err := solver.Iterate(game, initial, config(1))
		require.NoError(t, err, name)
		assert.LessOrEqual(t, res.Values.MaxDiff(optimal.Values), 1e-6, name)
		assert.LessOrEqual(t, residual(t, game, res.Values, 1), 1e-6, name)
	}
}

func TestOptimizeLinearWorld(t *testing.T) {
	world, err := linearworld.New(linearworld.Config{Length: 7})
	require.NoError(t, err)

	res, err := solver.Optimize(world, config(0.9))
	require.NoError(t, err)
	assert.LessOrEqual(t, residual(t, world, res.Values, 0.9), 1e-9)

	// bouncing between an end and its neighbour pays 1 every other step
	assert.InDelta(t, 1/(1-0.81), res.Values[1], 1e-6)
	assert.InDelta(t, 1/(1-0.81), res.Values[5], 1e-6)
	assert.Equal(t, linearworld.ActionLeft, res.Policy.Action(1))
	assert.Equal(t, linearworld.ActionRight, res.Policy.Action(5))
	assert.Equal(t, linearworld.ActionLeft, res.Policy.Action(2))
	assert.Equal(t, linearworld.ActionRight, res.Policy.Action(4))
}

func TestUndiscountedContinuingTaskDoesNotConverge(t *testing.T) {
	world, err := linearworld.New(linearworld.Config{Length: 5})
	require.NoError(t, err)

	c := config(1)
	c.MaxIterations = 50
	_, err = solver.Optimize(world, c)
	require.ErrorIs(t, err, core.ErrConvergenceNotReached)
	var convErr *core.ConvergenceError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 50, convErr.Sweeps)
	assert.Greater(t, convErr.Delta, convErr.Theta)

	_, err = solver.Evaluate(world, policies.NewRandomPolicy(2), c)
	assert.ErrorIs(t, err, core.ErrConvergenceNotReached)
}

func TestOptimizeGridWorld(t *testing.T) {
	world, err := gridworld.New(gridworld.ClassroomConfig())
	require.NoError(t, err)

	res, err := solver.Optimize(world, config(gridworld.DefaultGamma))
	require.NoError(t, err)
	assert.LessOrEqual(t, residual(t, world, res.Values, gridworld.DefaultGamma), 1e-9)

	left := world.StateOf(gridworld.Position{Row: 0, Col: 2})
	right := world.StateOf(gridworld.Position{Row: 0, Col: 4})
	assert.Equal(t, gridworld.ActionRight, res.Policy.Action(left))
	assert.Equal(t, gridworld.ActionLeft, res.Policy.Action(right))

	random, err := solver.Evaluate(world, policies.NewRandomPolicy(world.NumActions()), config(gridworld.DefaultGamma))
	require.NoError(t, err)
	assert.True(t, res.Values.Dominates(random.Values, tol))
}

func TestOptimizeTeleportWorld(t *testing.T) {
	world, err := gridworld.New(gridworld.TeleportConfig())
	require.NoError(t, err)

	res, err := solver.Optimize(world, config(gridworld.DefaultGamma))
	require.NoError(t, err)
	assert.LessOrEqual(t, residual(t, world, res.Values, gridworld.DefaultGamma), 1e-9)

	// the teleport pays its reward whatever the action
	source := world.StateOf(gridworld.Position{Row: 4, Col: 1})
	target := world.StateOf(gridworld.Position{Row: 0, Col: 1})
	assert.InDelta(t, 10+gridworld.DefaultGamma*res.Values[target], res.Values[source], 1e-9)
	assert.Equal(t, gridworld.ActionUp, res.Policy.Action(source))

	for _, blocked := range []gridworld.Position{{Row: 1, Col: 1}, {Row: 1, Col: 2}} {
		_, ok := res.Values[world.StateOf(blocked)]
		assert.False(t, ok)
	}
}

// twinModel has one decision with two actions paying rewards[0] and rewards[1]
type twinModel struct {
	rewards [2]float64
}

func (twinModel) States() []core.State         { return []core.State{0, 1} }
func (twinModel) NumActions() int              { return 2 }
func (twinModel) Initial() core.State          { return 0 }
func (twinModel) IsTerminal(s core.State) bool { return s == 1 }

func (m twinModel) Transitions(s core.State, a core.Action) ([]core.Outcome, error) {
	if err := core.ValidAction(m, s, a); err != nil {
		return nil, err
	}
	return []core.Outcome{{Next: 1, Reward: m.rewards[a], Probability: 1}}, nil
}

func TestTiesGoToLowestAction(t *testing.T) {
	res, err := solver.Optimize(twinModel{rewards: [2]float64{5, 5}}, config(1))
	require.NoError(t, err)
	assert.Equal(t, core.Action(0), res.Policy.Action(0))
	assert.Equal(t, core.ActionSet{0, 1}, res.QValues.Ties(0, solver.TieTolerance))

	res, err = solver.Optimize(twinModel{rewards: [2]float64{5, 6}}, config(1))
	require.NoError(t, err)
	assert.Equal(t, core.Action(1), res.Policy.Action(0))
	assert.Equal(t, 6.0, res.Values[0])
	assert.Equal(t, 1, res.QValues.Size())
}

// brokenModel leaks probability mass or points at states it does not have
type brokenModel struct {
	twinModel
	outcomes []core.Outcome
}

func (m brokenModel) Transitions(core.State, core.Action) ([]core.Outcome, error) {
	return m.outcomes, nil
}

func TestInvalidModels(t *testing.T) {
	leaky := brokenModel{outcomes: []core.Outcome{{Next: 1, Reward: 1, Probability: 0.5}}}
	_, err := solver.Optimize(leaky, config(1))
	assert.ErrorIs(t, err, core.ErrInvalidModel)

	unknown := brokenModel{outcomes: []core.Outcome{{Next: 7, Reward: 1, Probability: 1}}}
	_, err = solver.Evaluate(unknown, policies.NewRandomPolicy(2), config(1))
	assert.ErrorIs(t, err, core.ErrInvalidModel)
}

func TestInvalidInputs(t *testing.T) {
	game := newGame(t)

	for _, c := range []solver.Config{
		{Gamma: 1.5, Theta: 1e-9},
		{Gamma: -0.1, Theta: 1e-9},
		{Gamma: 0.9, Theta: 0},
		{Gamma: 0.9, Theta: 1e-9, MaxIterations: -1},
	} {
		_, err := solver.Optimize(game, c)
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
		_, err = solver.Evaluate(game, policies.NewRandomPolicy(3), c)
		assert.ErrorIs(t, err, core.ErrInvalidConfig)
	}

	_, err := solver.Evaluate(game, policies.NewRandomPolicy(2), config(1))
	assert.ErrorIs(t, err, core.ErrInvalidPolicy)

	_, err = solver.ActionValues(game, core.NewValueFunction(game.States()), 99, 1)
	assert.ErrorIs(t, err, core.ErrInvalidState)
}
