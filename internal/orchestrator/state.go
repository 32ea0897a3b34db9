package orchestrator

// State is a step of the benchmark lifecycle. States only move forward.
type State int

const (
	StateInit State = iota
	StateTeardownPrior
	StateRelaysLaunching
	StateRelaysSettling
	StatePartitionComputed
	StateExtraArgsLoaded
	StateNodesLaunching
	StateNodesSettling
	StateRunWindow
	StateTeardownNodes
	StateTeardownRelays
	StateDone
	// StateAborted ends a run stopped by a fatal error or an interrupt, after
	// whatever was launched has been torn down.
	StateAborted
)

var stateNames = [...]string{
	StateInit:              "INIT",
	StateTeardownPrior:     "TEARDOWN_PRIOR",
	StateRelaysLaunching:   "RELAYS_LAUNCHING",
	StateRelaysSettling:    "RELAYS_SETTLING",
	StatePartitionComputed: "PARTITION_COMPUTED",
	StateExtraArgsLoaded:   "EXTRA_ARGS_LOADED",
	StateNodesLaunching:    "NODES_LAUNCHING",
	StateNodesSettling:     "NODES_SETTLING",
	StateRunWindow:         "RUN_WINDOW",
	StateTeardownNodes:     "TEARDOWN_NODES",
	StateTeardownRelays:    "TEARDOWN_RELAYS",
	StateDone:              "DONE",
	StateAborted:           "ABORTED",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// Terminal reports whether no transition follows s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}

// Observer is told about every transition. It is called from the
// orchestrator goroutine and must not block.
type Observer func(from, to State)
