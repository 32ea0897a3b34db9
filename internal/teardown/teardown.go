// Package teardown stops benchmark processes left on a fleet of machines.
//
// Processes are matched by the base name of the archive they were started
// from, so a kill reaches every process of a role on a host regardless of
// which run launched it. Killing is idempotent: a host with nothing to kill
// succeeds.
package teardown

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"unicode/utf8"

	"relayctl/internal/command"
	"relayctl/internal/inventory"
	"relayctl/pkg/logging"
)

const subsystem = "Teardown"

// Runner runs host scripts to completion.
type Runner interface {
	Run(ctx context.Context, scripts []command.Script, parallelism int) error
}

// Reconciler kills processes host by host.
type Reconciler struct {
	runner      Runner
	parallelism int
}

// NewReconciler returns a reconciler running at most parallelism hosts at
// once. parallelism <= 1 kills host by host in inventory order.
func NewReconciler(runner Runner, parallelism int) *Reconciler {
	return &Reconciler{runner: runner, parallelism: parallelism}
}

// Pattern turns an archive path into the pkill expression matching processes
// started from it. The first character is bracketed so the expression does
// not match the command line of the shell running pkill.
func Pattern(archive string) string {
	base := filepath.Base(archive)
	if base == "" || base == "." || base == string(filepath.Separator) {
		return ""
	}
	first, size := utf8.DecodeRuneInString(base)
	return "[" + regexp.QuoteMeta(string(first)) + "]" + regexp.QuoteMeta(base[size:])
}

// KillCommand is the per-host kill step. A host without a matching process
// still succeeds.
func KillCommand(pattern string) command.Command {
	cmd := command.New("pkill", "-f", "--", pattern)
	cmd.IgnoreFailure = true
	return cmd
}

// Scripts builds one kill script per distinct address of inv.
func Scripts(inv *inventory.Inventory, pattern string) []command.Script {
	addresses := inv.Addresses()
	scripts := make([]command.Script, 0, len(addresses))
	for _, address := range addresses {
		scripts = append(scripts, command.Script{
			Address: address,
			Steps:   []command.Command{KillCommand(pattern)},
		})
	}
	return scripts
}

// Kill runs pkill with pattern on every host of inv and waits for all of them.
// Per-host failures are joined into the returned error.
func (r *Reconciler) Kill(ctx context.Context, inv *inventory.Inventory, pattern string) error {
	if pattern == "" {
		return fmt.Errorf("empty process pattern")
	}
	scripts := Scripts(inv, pattern)
	if len(scripts) == 0 {
		return nil
	}

	logging.Info(subsystem, "Killing %q on %d host(s)", pattern, len(scripts))
	if err := r.runner.Run(ctx, scripts, r.parallelism); err != nil {
		return fmt.Errorf("teardown of %q incomplete: %w", pattern, err)
	}
	return nil
}
