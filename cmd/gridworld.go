package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/envs/gridworld"
	"github.com/zeu5/finite-mdp/policies"
	"github.com/zeu5/finite-mdp/solver"
)

var (
	gridConfigFile string
	gridPreset     string
	gridColors     bool
)

func GridWorldCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gridworld",
		Short: "Solve and walk gridworlds",
	}
	cmd.PersistentFlags().StringVar(&gridConfigFile, "config", "", "JSON file describing the world, overrides --preset")
	cmd.PersistentFlags().StringVar(&gridPreset, "preset", "classroom", "Built-in world: classroom or teleport")
	cmd.PersistentFlags().BoolVar(&gridColors, "colors", true, "Color the rendered grid")

	cmd.AddCommand(
		gridSolveCommand(),
		gridEvaluateCommand(),
		gridWalkCommand(),
		gridVerifyCommand(),
	)
	return cmd
}

func newGridWorld() (*gridworld.World, error) {
	if gridConfigFile != "" {
		return gridworld.Load(gridConfigFile)
	}
	switch gridPreset {
	case "classroom":
		return gridworld.New(gridworld.ClassroomConfig())
	case "teleport":
		return gridworld.New(gridworld.TeleportConfig())
	}
	return nil, fmt.Errorf("%w: unknown preset %q", core.ErrInvalidConfig, gridPreset)
}

func gridSolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "solve",
		Short: "Compute the optimal values and policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := newGridWorld()
			if err != nil {
				return err
			}
			res, err := solver.Optimize(world, flags.SolverConfig(flags.GammaOr(gridworld.DefaultGamma), logger))
			if err != nil {
				return err
			}
			logger.WithField("sweeps", res.Sweeps).Info("value iteration converged")
			snap := gridworld.Snapshot{
				Values: res.Values,
				Policy: res.QValues.TieChooser(solver.TieTolerance),
				Colors: gridColors,
			}
			if err := world.Render(cmd.OutOrStdout(), snap); err != nil {
				return err
			}
			return saveResult("gridworld_optimal", world, res)
		},
	}
}

func gridEvaluateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the uniform random walk",
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := newGridWorld()
			if err != nil {
				return err
			}
			random := policies.NewRandomPolicy(world.NumActions())
			res, err := solver.Evaluate(world, random, flags.SolverConfig(flags.GammaOr(gridworld.DefaultGamma), logger))
			if err != nil {
				return err
			}
			logger.WithField("sweeps", res.Sweeps).Info("evaluated random policy")
			if err := world.Render(cmd.OutOrStdout(), gridworld.Snapshot{Values: res.Values, Colors: gridColors}); err != nil {
				return err
			}
			return saveResult("gridworld_random", world, res)
		},
	}
}

func gridWalkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "walk MOVES...",
		Short: "Move the agent from the start cell (up, right, down, left or arrows)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := newGridWorld()
			if err != nil {
				return err
			}
			actions, err := parseActions(args, gridworld.ParseAction)
			if err != nil {
				return err
			}
			env := core.NewSimulator(world, flags.Seed)
			total, err := walk(cmd.OutOrStdout(), env, actions, gridworld.MoveLabels)
			if err != nil {
				return err
			}
			agent := world.Pos(env.State())
			fmt.Fprintf(cmd.OutOrStdout(), "Final position: %s, Total reward: %g\n", agent, total)
			return world.Render(cmd.OutOrStdout(), gridworld.Snapshot{Agent: &agent, Colors: gridColors})
		},
	}
}

func gridVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Compare the optimal and random values with Monte-Carlo estimates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()

			world, err := newGridWorld()
			if err != nil {
				return err
			}
			gamma := flags.GammaOr(gridworld.DefaultGamma)
			config := flags.SolverConfig(gamma, logger)
			optimal, err := solver.Optimize(world, config)
			if err != nil {
				return err
			}
			random, err := solver.Evaluate(world, policies.NewRandomPolicy(world.NumActions()), config)
			if err != nil {
				return err
			}
			run := flags.RunConfig(gamma, nil)
			if run.Horizon == 0 {
				run.Horizon = gridworld.DefaultHorizon
			}
			cmp := gridworld.PrepareComparison(flags, world, "optimal", optimal.Policy)
			_, err = verify(ctx, cmd.OutOrStdout(), cmp, run, map[string]core.ValueFunction{
				"optimal": optimal.Values,
				"random":  random.Values,
			})
			return err
		},
	}
}
