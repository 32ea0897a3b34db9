package cmd

import (
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	flags := &experimentFlags{}
	cmd := &cobra.Command{
		Use:   "plan " + experimentArgsUsage,
		Short: "Print the relay assignment table and the host scripts without running anything",
		Long: `Reads the host lists exactly like run does and prints the node to relay
assignment together with the script every remote shell would receive. No host
is contacted. When the relays cannot cover every node id the table is still
printed, the missing relays are marked and the command fails.`,
		Args: experimentArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.noTUI = true
			application, err := flags.application(cmd, args)
			if err != nil {
				return err
			}
			return application.Plan(cmd.OutOrStdout())
		},
	}
	flags.register(cmd.Flags())
	return cmd
}
