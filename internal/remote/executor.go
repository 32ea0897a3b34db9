package remote

import (
	"context"
	"errors"
	"sync"

	"relayctl/internal/command"
	"relayctl/internal/config"
	"relayctl/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// Executor turns host scripts into remote sessions.
type Executor struct {
	spawner  Spawner
	protocol config.Protocol
	jobID    string
	verbose  bool
}

// NewExecutor returns an executor connecting with protocol. An empty protocol
// means oarsh.
func NewExecutor(spawner Spawner, protocol config.Protocol, jobID string, verbose bool) *Executor {
	if protocol == "" {
		protocol = config.ProtocolOARSH
	}
	return &Executor{spawner: spawner, protocol: protocol, jobID: jobID, verbose: verbose}
}

// Protocol is the connector program in use.
func (e *Executor) Protocol() config.Protocol {
	return e.protocol
}

func (e *Executor) invocation(s command.Script) Invocation {
	return Invocation{
		Protocol: e.protocol,
		Address:  s.Address,
		Script:   s.Render(),
		JobID:    e.jobID,
	}
}

// Batch is a set of sessions spawned together.
type Batch struct {
	group errgroup.Group

	mu   sync.Mutex
	errs []error
}

func (b *Batch) record(address string, err error) {
	execErr := &ExecutionError{Address: address, Err: err}
	logging.HostError(subsystem, address, err, "Remote session failed")

	b.mu.Lock()
	b.errs = append(b.errs, execErr)
	b.mu.Unlock()
}

// Wait reaps every session of the batch. The result joins one
// *ExecutionError per failed host; a failure never interrupts the other
// sessions.
func (b *Batch) Wait() error {
	_ = b.group.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	return errors.Join(b.errs...)
}

// Launch spawns one session per script, in order, and returns without waiting
// for any of them. Spawn failures are recorded in the batch.
func (e *Executor) Launch(ctx context.Context, scripts []command.Script) *Batch {
	b := &Batch{}
	for _, s := range scripts {
		inv := e.invocation(s)
		if e.verbose {
			logging.HostDebug(subsystem, s.Address, "Script:\n%s", inv.Script)
		}

		proc, err := e.spawner.Spawn(ctx, inv)
		if err != nil {
			b.record(s.Address, err)
			continue
		}
		logging.HostDebug(subsystem, s.Address, "Session started (%d steps)", s.Len())

		address := s.Address
		b.group.Go(func() error {
			if err := proc.Wait(); err != nil {
				b.record(address, err)
			}
			return nil
		})
	}
	return b
}

// Run spawns and reaps each script's session, at most parallelism at a time.
// parallelism <= 1 runs the hosts one after the other in order.
func (e *Executor) Run(ctx context.Context, scripts []command.Script, parallelism int) error {
	b := &Batch{}
	if parallelism < 1 {
		parallelism = 1
	}
	b.group.SetLimit(parallelism)

	for _, s := range scripts {
		inv := e.invocation(s)
		if e.verbose {
			logging.HostDebug(subsystem, s.Address, "Script:\n%s", inv.Script)
		}
		b.group.Go(func() error {
			proc, err := e.spawner.Spawn(ctx, inv)
			if err != nil {
				b.record(inv.Address, err)
				return nil
			}
			if err := proc.Wait(); err != nil {
				b.record(inv.Address, err)
			}
			return nil
		})
	}
	return b.Wait()
}
