// Package orchestrator drives a benchmark run from first launch to final
// teardown.
//
// # Lifecycle
//
// A run is a linear state machine:
//
//  1. TEARDOWN_PRIOR kills leftovers of earlier runs on every node and relay host.
//  2. RELAYS_LAUNCHING issues one remote session per relay host.
//  3. RELAYS_SETTLING waits for the relays to come up.
//  4. PARTITION_COMPUTED splits node ids between relays.
//  5. EXTRA_ARGS_LOADED reads the per-host extra arguments, when a file is given.
//  6. NODES_LAUNCHING builds every node command, then issues one session per node host.
//  7. NODES_SETTLING waits for the nodes to come up.
//  8. RUN_WINDOW lasts for the configured duration or until the end signal.
//  9. TEARDOWN_NODES and TEARDOWN_RELAYS kill the fleet, nodes first.
//
// The run ends in DONE, or in ABORTED after a fatal error. An aborted run still
// tears down what it launched. Teardown always runs on a context detached from
// the caller's, so an interrupt cannot leave processes behind.
//
// # Readiness
//
// Settle windows are timers by default. The relay window is 7s, 8s more when
// the relay GC is disabled, plus a fifth of a second per GiB of minimum relay
// heap in that case. The node window is the base settle plus one stagger step
// per node. With the probe strategy both windows are replaced by TCP connect
// probes; a probe that times out is logged and the run continues.
//
// # Usage
//
//	orch := orchestrator.New(orchestrator.Config{
//	    Experiment: exp,
//	    Relays:     relays,
//	    Nodes:      nodes,
//	    EndSignal:  done,
//	})
//	if err := orch.Run(ctx); err != nil {
//	    return err
//	}
package orchestrator
