package config

import "time"

const (
	// DefaultRelayJar and DefaultRelayMainClass name the relay distribution.
	DefaultRelayJar       = "relay.jar"
	DefaultRelayMainClass = "StartRelay"

	relayNoGCExtraSettle = 8 * time.Second
)

// GetDefaultConfig returns the built-in experiment defaults. Counts and paths
// have no default and must come from a profile or the command line.
func GetDefaultConfig() Experiment {
	return Experiment{
		Relays: 1,
		Shell:  ProtocolOARSH,
		Java:   "java",
		Node: NodeSettings{
			MainClass:  "Main",
			ConfigFile: "config.properties",
		},
		Relay: RelaySettings{
			Jar:       DefaultRelayJar,
			MainClass: DefaultRelayMainClass,
		},
		LogFolder: "logs/",
		Timing: Timing{
			RelaySettle:   7 * time.Second,
			NodeSettle:    5 * time.Second,
			ProbeTimeout:  60 * time.Second,
			ProbeInterval: time.Second,
		},
		Readiness: ReadinessTimer,
	}
}

// RelaySettle is the wait after launching relays. Disabling the relay GC adds
// time for heap pre-touching, proportional to the minimum heap.
func (e Experiment) RelaySettle() time.Duration {
	d := e.Timing.RelaySettle
	if e.Relay.NoGC {
		d += relayNoGCExtraSettle
		if e.Relay.Xms > 0 {
			d += time.Duration(float64(time.Second) * float64(e.Relay.Xms) / 5)
		}
	}
	return d
}

// NodeSettle is the wait after launching nodes, including the worst case
// stagger of every node.
func (e Experiment) NodeSettle() time.Duration {
	return e.Timing.NodeSettle + time.Duration(e.Nodes)*e.Timing.Stagger
}
