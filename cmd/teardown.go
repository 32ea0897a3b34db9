package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newTeardownCmd() *cobra.Command {
	flags := &experimentFlags{}
	cmd := &cobra.Command{
		Use:   "teardown " + experimentArgsUsage,
		Short: "Kill leftover node and relay processes on every listed host",
		Long: `Sends pkill for the node archive to every node host and for the relay
archive to every relay host. Use it to clean up after a run that was killed
before it could tear down on its own. Hosts without matching processes are
not an error.`,
		Args: experimentArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.noTUI = true
			application, err := flags.application(cmd, args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return application.Teardown(ctx)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}
