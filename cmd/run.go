package cmd

import (
	"context"
	"fmt"

	"relayctl/internal/app"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	flags := &experimentFlags{}
	cmd := &cobra.Command{
		Use:   "run " + experimentArgsUsage,
		Short: "Launch relays and nodes, keep the experiment running, then tear it down",
		Long: `Runs one experiment end to end:

  1. Reads the node and relay host lists and the optional extra arguments file.
  2. Launches one relay per relay host entry and waits for them to settle.
  3. Splits the node ids into contiguous ranges, one per relay.
  4. Launches every node with the address of its relay and waits again.
  5. Keeps the experiment running for --duration, or until Enter is pressed.
  6. Kills every node and relay process on every listed host.

It can run in two modes:

1. Interactive TUI Mode (default): shows the lifecycle state, a countdown of
   the run window and the live log. Press Enter or q to end the run window,
   Ctrl+C to abort.

2. Non-TUI / CLI Mode (using --no-tui flag): logs to stderr. Enter on stdin
   ends the run window; SIGINT and SIGTERM abort and tear down.

Arguments:
  <jar>:         Node archive on the remote hosts.
  <nodes>:       Number of node processes to launch.
  [relays]:      Number of relay processes (default 1, or the profile value).
  <node-list>:   File with one host:port per line for nodes.
  <relay-list>:  File with one host:port per line for relays.`,
		Args: experimentArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := flags.application(cmd, args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return application.Run(ctx)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

// application builds the experiment from the flags and bootstraps the app.
func (f *experimentFlags) application(cmd *cobra.Command, args []string) (*app.Application, error) {
	exp, err := f.experiment(cmd.Flags(), args)
	if err != nil {
		return nil, err
	}
	application, err := app.NewApplication(app.NewConfig(exp, f.noTUI, f.debug))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}
