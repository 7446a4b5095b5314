package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/zeu5/finite-mdp/core"
	"github.com/zeu5/finite-mdp/envs/stackjack"
	"github.com/zeu5/finite-mdp/solver"
)

var (
	bustOnly        bool
	stackJackStart  int
	stackJackColors bool
)

func StackJackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stackjack",
		Short: "Solve and play StackJack",
	}
	cmd.PersistentFlags().BoolVar(&bustOnly, "bust-only", false, "Pay only the bust reward when going bust, without the card cost")
	cmd.PersistentFlags().BoolVar(&stackJackColors, "colors", true, "Color the rendered table")

	cmd.AddCommand(
		stackJackEvaluateCommand(),
		stackJackOptimalCommand(),
		stackJackIterateCommand(),
		stackJackVerifyCommand(),
		stackJackPlayCommand(),
	)
	return cmd
}

func newStackJack() (*stackjack.Game, error) {
	config := stackjack.DefaultConfig()
	if bustOnly {
		config.BustComposition = stackjack.ComposeBustOnly
	}
	return stackjack.New(config)
}

func stackJackPolicy(name string) (core.Policy, error) {
	p, ok := stackjack.NamedPolicies()[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown policy %q", core.ErrInvalidPolicy, name)
	}
	return p, nil
}

func stackJackEvaluateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [stand|stack1|stack2|random]",
		Short: "Evaluate a fixed policy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "stand"
			if len(args) == 1 {
				name = args[0]
			}
			game, err := newStackJack()
			if err != nil {
				return err
			}
			policy, err := stackJackPolicy(name)
			if err != nil {
				return err
			}
			res, err := solver.Evaluate(game, policy, flags.SolverConfig(flags.GammaOr(1), logger))
			if err != nil {
				return err
			}
			logger.WithField("sweeps", res.Sweeps).Infof("evaluated policy %s", name)
			if err := game.Render(cmd.OutOrStdout(), res.Values, core.ChooserOf(policy), stackJackColors); err != nil {
				return err
			}
			return saveResult("stackjack_"+name, game, res)
		},
	}
}

func stackJackOptimalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "optimal",
		Short: "Find the optimal policy with value iteration",
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := newStackJack()
			if err != nil {
				return err
			}
			res, err := solver.Optimize(game, flags.SolverConfig(flags.GammaOr(1), logger))
			if err != nil {
				return err
			}
			logger.WithField("sweeps", res.Sweeps).Info("value iteration converged")
			if err := game.Render(cmd.OutOrStdout(), res.Values, res.Policy, stackJackColors); err != nil {
				return err
			}
			return saveResult("stackjack_optimal", game, res)
		},
	}
}

func stackJackIterateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "iterate [initial policy]",
		Short: "Find the optimal policy with policy iteration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "stand"
			if len(args) == 1 {
				name = args[0]
			}
			game, err := newStackJack()
			if err != nil {
				return err
			}
			initial, err := stackJackPolicy(name)
			if err != nil {
				return err
			}
			res, err := solver.Iterate(game, initial, flags.SolverConfig(flags.GammaOr(1), logger))
			if err != nil {
				return err
			}
			logger.WithField("sweeps", res.Sweeps).Info("policy iteration converged")
			if err := game.Render(cmd.OutOrStdout(), res.Values, res.Policy, stackJackColors); err != nil {
				return err
			}
			return saveResult("stackjack_iterate", game, res)
		},
	}
}

func stackJackVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [policies...]",
		Short: "Compare exact values with Monte-Carlo estimates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()

			game, err := newStackJack()
			if err != nil {
				return err
			}
			gamma := flags.GammaOr(1)
			config := flags.SolverConfig(gamma, logger)

			optimal, err := solver.Optimize(game, config)
			if err != nil {
				return err
			}
			named := map[string]core.Policy{"optimal": optimal.Policy}
			exact := map[string]core.ValueFunction{"optimal": optimal.Values}

			if len(args) == 0 {
				for name := range stackjack.NamedPolicies() {
					args = append(args, name)
				}
				sort.Strings(args)
			}
			for _, name := range args {
				p, err := stackJackPolicy(name)
				if err != nil {
					return err
				}
				res, err := solver.Evaluate(game, p, config)
				if err != nil {
					return err
				}
				named[name] = p
				exact[name] = res.Values
			}

			start := core.State(stackJackStart)
			if !core.HasState(game, start) {
				return fmt.Errorf("%w: start %d", core.ErrInvalidState, start)
			}
			cmp := stackjack.PrepareComparison(flags, game, start, named)
			_, err = verify(ctx, cmd.OutOrStdout(), cmp, flags.RunConfig(gamma, nil), exact)
			return err
		},
	}
	cmd.Flags().IntVar(&stackJackStart, "start", 11, "Card sum the episodes start from")
	return cmd
}

func stackJackPlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play ACTIONS...",
		Short: "Play a game with the given actions (stand, stack1, stack2 or 0-2)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := newStackJack()
			if err != nil {
				return err
			}
			actions, err := parseActions(args, stackjack.ParseAction)
			if err != nil {
				return err
			}
			env := core.NewSimulator(game, flags.Seed)
			_, err = walk(cmd.OutOrStdout(), env, actions, stackjack.ActionNames)
			return err
		},
	}
}
