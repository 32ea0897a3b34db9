package command

import (
	"fmt"
	"strconv"

	"relayctl/internal/config"
	"relayctl/internal/extraargs"
	"relayctl/internal/inventory"
	"relayctl/internal/partition"
)

// noGCFlags switch the JVM to the Epsilon no-op collector and pre-touch the
// heap so collection never pauses the benchmark.
var noGCFlags = []string{"-XX:+UnlockExperimentalVMOptions", "-XX:+UseEpsilonGC", "-XX:+AlwaysPreTouch"}

func jvmFlags(xms, xmx int, noGC bool) []string {
	var args []string
	if xms > 0 {
		args = append(args, fmt.Sprintf("-Xms%dg", xms))
	}
	if xmx > 0 {
		args = append(args, fmt.Sprintf("-Xmx%dg", xmx))
	}
	if noGC {
		args = append(args, noGCFlags...)
	}
	return args
}

// Relay builds the launch command of the relay at global index.
func Relay(relay inventory.HostEntry, index int, cfg config.Experiment) Command {
	args := jvmFlags(cfg.Relay.Xms, cfg.Relay.Xmx, false)
	if cfg.Relay.MaxDirectMemory != "" {
		args = append(args, "-XX:MaxDirectMemorySize="+cfg.Relay.MaxDirectMemory)
	}
	if cfg.Relay.NoGC {
		args = append(args, noGCFlags...)
	}
	args = append(args,
		fmt.Sprintf("-DlogFilename=%srelay-%d", cfg.LogFolder, index),
		"-cp", cfg.Relay.Jar, cfg.Relay.MainClass,
		strconv.Itoa(cfg.Nodes), strconv.Itoa(cfg.Relays), strconv.Itoa(index),
		cfg.NodeList, cfg.RelayList,
		"-a", relay.Address,
		"-p", strconv.Itoa(relay.Port),
	)
	if cfg.LatencyMatrix != "" {
		args = append(args, "-lm", cfg.LatencyMatrix)
	}
	if cfg.BandwidthConfig != "" {
		args = append(args, "-bc", cfg.BandwidthConfig)
	}
	if cfg.Relay.ConnectDelay > 0 {
		args = append(args, "-s", strconv.FormatInt(cfg.Relay.ConnectDelay.Milliseconds(), 10))
	}

	return Command{Program: cfg.Java, Args: args, Background: true}
}

// Node builds the launch command of the node at global index. The node is
// pointed at the relay owning index in table; an index without owner yields
// the table's *partition.CoverageError. extras may be nil.
func Node(node inventory.HostEntry, index int, cfg config.Experiment, table *partition.Table, extras *extraargs.Table) (Command, error) {
	relay, err := table.Owner(index)
	if err != nil {
		return Command{}, fmt.Errorf("node %s: %w", node, err)
	}

	args := jvmFlags(cfg.Node.Xms, cfg.Node.Xmx, cfg.Node.NoGC)
	args = append(args,
		fmt.Sprintf("-DlogFilename=%snode-%d", cfg.LogFolder, index),
		"-cp", cfg.Jar, cfg.Node.MainClass,
		"-conf", cfg.Node.ConfigFile,
		"address="+node.Address,
		"port="+strconv.Itoa(node.Port),
		"relay_address="+relay.Address,
		"relay_port="+strconv.Itoa(relay.Port),
	)
	args = append(args, cfg.ExtraArgs...)
	args = append(args, extras.Lookup(node.Key())...)

	return Command{Program: cfg.Java, Args: args, Background: true}, nil
}
