package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"relayctl/internal/command"
	"relayctl/internal/extraargs"
	"relayctl/internal/inventory"
	"relayctl/internal/partition"
	"relayctl/internal/remote"
	"relayctl/internal/teardown"
	"relayctl/pkg/logging"
)

// Plan is everything a run would launch, computed without touching a host.
type Plan struct {
	Table        *partition.Table
	Extras       *extraargs.Table
	RelayScripts []command.Script
	NodeScripts  []command.Script
}

// Plan builds the partition table and every host script. When node scripts
// cannot be built, for instance on a coverage error, the partial plan is
// returned along with the error.
func (o *Orchestrator) Plan() (*Plan, error) {
	table, err := partition.Compute(o.exp.Nodes, o.exp.Relays, o.relays)
	if err != nil {
		return nil, err
	}
	plan := &Plan{
		Table:        table,
		RelayScripts: command.RelayScripts(o.relays, o.exp),
	}
	if plan.Extras, err = o.loadExtras(); err != nil {
		return plan, err
	}
	if plan.NodeScripts, err = command.NodeScripts(o.nodes, o.exp, table, plan.Extras); err != nil {
		return plan, err
	}
	return plan, nil
}

func (o *Orchestrator) loadExtras() (*extraargs.Table, error) {
	if o.exp.ExtraArgsFile == "" {
		return nil, nil
	}
	extras, err := extraargs.Load(o.exp.ExtraArgsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load extra arguments: %w", err)
	}
	return extras, nil
}

// Run executes the whole lifecycle:
//
//	INIT -> TEARDOWN_PRIOR -> RELAYS_LAUNCHING -> RELAYS_SETTLING ->
//	PARTITION_COMPUTED -> [EXTRA_ARGS_LOADED] -> NODES_LAUNCHING ->
//	NODES_SETTLING -> RUN_WINDOW -> TEARDOWN_NODES -> TEARDOWN_RELAYS -> DONE
//
// A fatal error, or ctx ending before the run window, tears down what was
// launched, enters ABORTED and returns the error. ctx ending during the run
// window only ends the window.
func (o *Orchestrator) Run(ctx context.Context) error {
	// Teardown must reach every host even after an interrupt.
	detached := context.WithoutCancel(ctx)

	logging.Info(subsystem, "Starting run: %d node(s), %d relay(s), shell %s", o.exp.Nodes, o.exp.Relays, o.exp.Shell)

	o.enter(StateTeardownPrior)
	o.killNodes(detached)
	o.killRelays(detached)
	if err := ctx.Err(); err != nil {
		o.enter(StateAborted)
		return err
	}

	o.enter(StateRelaysLaunching)
	relayBatch := o.launcher.Launch(ctx, command.RelayScripts(o.relays, o.exp))

	o.enter(StateRelaysSettling)
	if err := o.settle(ctx, o.relayWaiter, o.relays.Entries()); err != nil {
		return o.abort(detached, err, false, relayBatch)
	}
	o.join("relay", relayBatch)

	o.enter(StatePartitionComputed)
	table, err := partition.Compute(o.exp.Nodes, o.exp.Relays, o.relays)
	if err != nil {
		return o.abort(detached, err, false)
	}
	for _, a := range table.Assignments() {
		logging.Debug(subsystem, "Relay %d (%s) owns nodes %s", a.Index, a.Relay, a.Range)
	}

	var extras *extraargs.Table
	if o.exp.ExtraArgsFile != "" {
		if extras, err = o.loadExtras(); err != nil {
			return o.abort(detached, err, false)
		}
		o.enter(StateExtraArgsLoaded)
		logging.Debug(subsystem, "Loaded extra arguments for %d host(s)", extras.Len())
	}

	// Every node command is built before the first node is spawned.
	nodeScripts, err := command.NodeScripts(o.nodes, o.exp, table, extras)
	if err != nil {
		var coverage *partition.CoverageError
		if errors.As(err, &coverage) {
			logging.Error(subsystem, err, "Relay ranges do not cover every node; no node was launched")
		}
		return o.abort(detached, err, false)
	}

	o.enter(StateNodesLaunching)
	nodeBatch := o.launcher.Launch(ctx, nodeScripts)

	o.enter(StateNodesSettling)
	if err := o.settle(ctx, o.nodeWaiter, o.nodes.Entries()); err != nil {
		return o.abort(detached, err, true, nodeBatch)
	}
	o.join("node", nodeBatch)

	o.enter(StateRunWindow)
	o.waitRunWindow(ctx)

	o.enter(StateTeardownNodes)
	o.killNodes(detached)
	o.enter(StateTeardownRelays)
	o.killRelays(detached)
	o.enter(StateDone)
	return nil
}

// abort tears down whatever may be running, reaps pending batches and
// returns cause.
func (o *Orchestrator) abort(ctx context.Context, cause error, nodesLaunched bool, pending ...*remote.Batch) error {
	logging.Error(subsystem, cause, "Aborting run")
	if nodesLaunched {
		o.enter(StateTeardownNodes)
		o.killNodes(ctx)
	}
	o.enter(StateTeardownRelays)
	o.killRelays(ctx)
	for _, b := range pending {
		o.join("pending", b)
	}
	o.enter(StateAborted)
	return cause
}

// Teardown runs only the kill phase: nodes first, then relays.
func (o *Orchestrator) Teardown(ctx context.Context) error {
	o.enter(StateTeardownNodes)
	nodesErr := o.killNodes(ctx)
	o.enter(StateTeardownRelays)
	relaysErr := o.killRelays(ctx)
	o.enter(StateDone)
	return errors.Join(nodesErr, relaysErr)
}

func (o *Orchestrator) killNodes(ctx context.Context) error {
	return o.kill(ctx, "node", o.nodes, o.exp.Jar)
}

func (o *Orchestrator) killRelays(ctx context.Context) error {
	return o.kill(ctx, "relay", o.relays, o.exp.Relay.Jar)
}

// kill is best-effort: failures are logged for the caller to ignore or report.
func (o *Orchestrator) kill(ctx context.Context, role string, inv *inventory.Inventory, archive string) error {
	if err := o.killer.Kill(ctx, inv, teardown.Pattern(archive)); err != nil {
		logging.Warn(subsystem, "Teardown of %s processes incomplete: %v", role, err)
		return err
	}
	return nil
}
