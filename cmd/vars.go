package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/zeu5/finite-mdp/common"
)

var (
	flags  *common.Flags = common.DefaultFlags()
	logger *logrus.Logger
)

// AddFlags binds the persistent flags to the shared flag set, resetting it to the defaults
func AddFlags(cmd *cobra.Command) {
	defaults := common.DefaultFlags()
	cmd.PersistentFlags().StringVar(&flags.SavePath, "save-path", defaults.SavePath, "Path to save results, empty to save nothing")
	cmd.PersistentFlags().StringVar(&flags.RunID, "run-id", defaults.RunID, "Name of the results directory (random uuid if empty)")
	cmd.PersistentFlags().Float64Var(&flags.Gamma, "gamma", defaults.Gamma, "Discount factor, negative for the environment default")
	cmd.PersistentFlags().Float64Var(&flags.Theta, "theta", defaults.Theta, "Convergence threshold")
	cmd.PersistentFlags().IntVar(&flags.MaxIterations, "max-iterations", defaults.MaxIterations, "Maximum number of sweeps")
	cmd.PersistentFlags().IntVar(&flags.Episodes, "episodes", defaults.Episodes, "Number of Monte-Carlo episodes")
	cmd.PersistentFlags().IntVar(&flags.Horizon, "horizon", defaults.Horizon, "Steps after which an episode is truncated, 0 for none")
	cmd.PersistentFlags().Uint64Var(&flags.Seed, "seed", defaults.Seed, "Random seed")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", defaults.Debug, "Log every sweep")
}

// setup applies MDP_* environment overrides for flags not given on the command line
func setup(cmd *cobra.Command) error {
	if err := flags.LoadEnv(func(name string) bool { return cmd.Flags().Changed(name) }); err != nil {
		return err
	}
	logger = flags.NewLogger(cmd.ErrOrStderr())
	flags.EnsureRunID()
	logger.WithField("run", flags.RunID).Debug("configuration loaded")
	return nil
}
