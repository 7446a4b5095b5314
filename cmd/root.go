package cmd

import "github.com/spf13/cobra"

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mdp",
		Short:         "Solve and simulate small finite MDPs",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		StackJackCommand(),
		GridWorldCommand(),
		LinearWorldCommand(),
	)

	return cmd
}
