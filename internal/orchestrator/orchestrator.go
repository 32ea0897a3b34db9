package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"relayctl/internal/command"
	"relayctl/internal/config"
	"relayctl/internal/inventory"
	"relayctl/internal/readiness"
	"relayctl/internal/remote"
	"relayctl/internal/teardown"
	"relayctl/pkg/logging"

	"k8s.io/utils/clock"
)

const subsystem = "Orchestrator"

// Launcher issues host scripts without waiting for them.
type Launcher interface {
	Launch(ctx context.Context, scripts []command.Script) *remote.Batch
}

// Killer stops every process matching pattern on the hosts of an inventory.
type Killer interface {
	Kill(ctx context.Context, inv *inventory.Inventory, pattern string) error
}

// Config wires an Orchestrator. Experiment, Relays and Nodes are required;
// every other field has a default derived from Experiment.
type Config struct {
	Experiment config.Experiment
	Relays     *inventory.Inventory
	Nodes      *inventory.Inventory

	Launcher    Launcher
	Killer      Killer
	RelayWaiter readiness.Waiter
	NodeWaiter  readiness.Waiter
	Clock       clock.Clock

	// EndSignal ends the run window when it receives or is closed.
	EndSignal <-chan struct{}
	Observer  Observer
}

// Orchestrator drives one benchmark run through its lifecycle. All steps run
// on the goroutine calling Run; parallelism lives in the remote sessions.
type Orchestrator struct {
	exp    config.Experiment
	relays *inventory.Inventory
	nodes  *inventory.Inventory

	launcher    Launcher
	killer      Killer
	relayWaiter readiness.Waiter
	nodeWaiter  readiness.Waiter
	clock       clock.Clock
	endSignal   <-chan struct{}
	observer    Observer

	mu    sync.RWMutex
	state State
}

// New fills the defaults of cfg: an ssh/oarsh executor, a pkill reconciler
// and the waiters selected by the experiment's readiness strategy.
func New(cfg Config) *Orchestrator {
	exp := cfg.Experiment

	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	var executor *remote.Executor
	defaultExecutor := func() *remote.Executor {
		if executor == nil {
			executor = remote.NewExecutor(remote.NewExecSpawner(exp.Verbose), exp.Shell, exp.OARJobID, exp.Verbose)
		}
		return executor
	}

	launcher := cfg.Launcher
	if launcher == nil {
		launcher = defaultExecutor()
	}
	killer := cfg.Killer
	if killer == nil {
		killer = teardown.NewReconciler(defaultExecutor(), exp.TeardownParallelism)
	}

	relayWaiter, nodeWaiter := cfg.RelayWaiter, cfg.NodeWaiter
	if relayWaiter == nil {
		relayWaiter = defaultWaiter(exp, exp.RelaySettle(), clk)
	}
	if nodeWaiter == nil {
		nodeWaiter = defaultWaiter(exp, exp.NodeSettle(), clk)
	}

	return &Orchestrator{
		exp:         exp,
		relays:      cfg.Relays,
		nodes:       cfg.Nodes,
		launcher:    launcher,
		killer:      killer,
		relayWaiter: relayWaiter,
		nodeWaiter:  nodeWaiter,
		clock:       clk,
		endSignal:   cfg.EndSignal,
		observer:    cfg.Observer,
		state:       StateInit,
	}
}

func defaultWaiter(exp config.Experiment, settle time.Duration, clk clock.Clock) readiness.Waiter {
	if exp.Readiness == config.ReadinessProbe {
		return readiness.NewProbeWaiter(exp.Timing.ProbeTimeout, exp.Timing.ProbeInterval)
	}
	return readiness.NewTimerWaiter(settle, clk)
}

// State is the current lifecycle step.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

func (o *Orchestrator) enter(next State) {
	o.mu.Lock()
	prev := o.state
	o.state = next
	o.mu.Unlock()

	logging.Info(subsystem, "%s -> %s", prev, next)
	if o.observer != nil {
		o.observer(prev, next)
	}
}

// settle waits on w and tells the caller whether the run may go on. A probe
// that gives up is only a warning.
func (o *Orchestrator) settle(ctx context.Context, w readiness.Waiter, targets []inventory.HostEntry) error {
	err := w.Wait(ctx, targets)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var notReady *readiness.NotReadyError
	if errors.As(err, &notReady) {
		logging.Warn(subsystem, "Proceeding although %v", err)
		return nil
	}
	return err
}

// join reaps a launch batch. Host failures were logged as they happened.
func (o *Orchestrator) join(what string, b *remote.Batch) {
	if b == nil {
		return
	}
	if err := b.Wait(); err != nil {
		logging.Warn(subsystem, "Some %s sessions failed; continuing with the rest of the fleet", what)
	}
}

// waitRunWindow returns when the configured duration elapses, the end signal
// fires or ctx is done, whichever comes first.
func (o *Orchestrator) waitRunWindow(ctx context.Context) {
	var timeout <-chan time.Time
	if d := o.exp.Timing.Duration; d > 0 {
		logging.Info(subsystem, "Running for %s", d)
		t := o.clock.NewTimer(d)
		defer t.Stop()
		timeout = t.C()
	} else {
		logging.Info(subsystem, "Running until the end signal")
	}

	select {
	case <-timeout:
		logging.Info(subsystem, "Run window elapsed")
	case <-o.endSignal:
		logging.Info(subsystem, "End signal received")
	case <-ctx.Done():
		logging.Info(subsystem, "Interrupted; ending the run window")
	}
}
