package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/envs/linearworld"
	"github.com/zeu5/finite-mdp/solver"
)

const linearDefaultGamma = 0.9

var linearLength int

func LinearWorldCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linearworld",
		Short: "Walk and solve the one dimensional world",
	}
	cmd.PersistentFlags().IntVar(&linearLength, "length", 9, "Number of cells in the corridor")

	cmd.AddCommand(linearWalkCommand(), linearSolveCommand())
	return cmd
}

func linearWalkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "walk ACTIONS...",
		Short: "Move the agent from the middle cell (left, right or 0-1)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := linearworld.New(linearworld.Config{Length: linearLength})
			if err != nil {
				return err
			}
			actions, err := parseActions(args, linearworld.ParseAction)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			env := core.NewSimulator(world, flags.Seed)
			fmt.Fprintln(out, world.Render(env.State()))
			total := float64(0)
			for _, a := range actions {
				reward, state, err := env.Step(a)
				if err != nil {
					return err
				}
				total += reward
				fmt.Fprintf(out, "%s  %-5s reward %g\n", world.Render(state), linearworld.ActionNames[a], reward)
			}
			fmt.Fprintf(out, "Total reward: %g\n", total)
			return nil
		},
	}
}

func linearSolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "solve",
		Short: "Compute the optimal values and policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			world, err := linearworld.New(linearworld.Config{Length: linearLength})
			if err != nil {
				return err
			}
			res, err := solver.Optimize(world, flags.SolverConfig(flags.GammaOr(linearDefaultGamma), logger))
			if err != nil {
				return err
			}
			logger.WithField("sweeps", res.Sweeps).Info("value iteration converged")
			out := cmd.OutOrStdout()
			for _, s := range world.States() {
				fmt.Fprintf(out, "%2d  %8.4f  %s\n", s, res.Values[s], linearworld.ActionNames[res.Policy.Action(s)])
			}
			return saveResult("linearworld_optimal", world, res)
		},
	}
}
