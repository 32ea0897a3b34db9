package cmd

import (
	"fmt"
	"strconv"
	"time"

	"relayctl/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const experimentArgsUsage = "<jar> <nodes> [relays] <node-list> <relay-list>"

// experimentFlags are the flags shared by run, plan and teardown. A flag only
// overrides the loaded profile when it was set on the command line.
type experimentFlags struct {
	ssh                 bool
	workDir             string
	oarJobID            string
	java                string
	mainClass           string
	configFile          string
	xmsNodes            int
	xmxNodes            int
	noGCNodes           bool
	relayJar            string
	relayMainClass      string
	xmsRelays           int
	xmxRelays           int
	noGCRelays          bool
	maxBufferRelays     string
	relayConnectDelay   time.Duration
	logFolder           string
	latencyMatrix       string
	bandwidthConfig     string
	extraArgs           []string
	extraArgsFile       string
	duration            time.Duration
	stagger             time.Duration
	nodeSettle          time.Duration
	readiness           string
	probeTimeout        time.Duration
	teardownParallelism int
	verbose             bool

	profile string
	noTUI   bool
	debug   bool
}

func (f *experimentFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.ssh, "ssh", false, "Connect with ssh instead of oarsh")
	fs.StringVar(&f.workDir, "cd", "", "Directory to change to on every host before launching")
	fs.StringVar(&f.oarJobID, "oar-job-id", "", "OAR job id exported as OAR_JOB_ID to the remote shell")
	fs.StringVar(&f.java, "java", "java", "JVM launcher on the remote hosts")
	fs.StringVarP(&f.mainClass, "main-class", "m", "Main", "Main class of the node jar")
	fs.StringVar(&f.configFile, "config-file", "config.properties", "Config file passed to nodes")
	fs.IntVar(&f.xmsNodes, "xms-nodes", 0, "Minimum node heap in GiB")
	fs.IntVar(&f.xmxNodes, "xmx-nodes", 0, "Maximum node heap in GiB")
	fs.BoolVar(&f.noGCNodes, "no-gc-nodes", false, "Disable the garbage collector in nodes")
	fs.StringVar(&f.relayJar, "relay-jar", config.DefaultRelayJar, "Relay jar on the remote hosts")
	fs.StringVar(&f.relayMainClass, "relay-main-class", config.DefaultRelayMainClass, "Main class of the relay jar")
	fs.IntVar(&f.xmsRelays, "xms-relays", 0, "Minimum relay heap in GiB")
	fs.IntVar(&f.xmxRelays, "xmx-relays", 0, "Maximum relay heap in GiB")
	fs.BoolVar(&f.noGCRelays, "no-gc-relays", false, "Disable the garbage collector in relays")
	fs.StringVar(&f.maxBufferRelays, "max-buffer-relays", "", "Relay direct buffer limit, e.g. 2g")
	fs.DurationVar(&f.relayConnectDelay, "relay-connect-delay", 0, "Delay before relays connect to each other")
	fs.StringVar(&f.logFolder, "log-folder", "logs/", "Log folder prefix on the remote hosts")
	fs.StringVar(&f.latencyMatrix, "latency-matrix", "", "Latency matrix file for relays")
	fs.StringVar(&f.bandwidthConfig, "bandwidth-config", "", "Bandwidth configuration file for relays")
	fs.StringArrayVarP(&f.extraArgs, "extra-args", "e", nil, "Extra argument appended to every node command (repeatable)")
	fs.StringVar(&f.extraArgsFile, "extra-args-file", "", "File with per-host extra node arguments")
	fs.DurationVar(&f.duration, "duration", 0, "Run window length; 0 waits for Enter")
	fs.DurationVar(&f.stagger, "stagger", 0, "Pause between node launches on one host")
	fs.DurationVar(&f.nodeSettle, "node-settle", 5*time.Second, "Base wait after launching nodes")
	fs.StringVar(&f.readiness, "readiness", string(config.ReadinessTimer), "Readiness strategy: timer or probe")
	fs.DurationVar(&f.probeTimeout, "probe-timeout", 60*time.Second, "Give up on the readiness probe after this long")
	fs.IntVar(&f.teardownParallelism, "teardown-parallelism", 0, "Hosts torn down concurrently; 0 or 1 is sequential")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Log host scripts and remote shell output")

	fs.StringVar(&f.profile, "profile", "", "YAML experiment profile layered over the user and project profiles")
	fs.BoolVar(&f.noTUI, "no-tui", false, "Disable the terminal UI and log to stderr")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
}

// parsePositionals fills the positional arguments into exp. The relay count is
// optional; with four arguments the profile value is kept.
func parsePositionals(args []string, exp *config.Experiment) error {
	var err error
	exp.Jar = args[0]
	if exp.Nodes, err = strconv.Atoi(args[1]); err != nil {
		return fmt.Errorf("invalid node count %q: %w", args[1], err)
	}
	rest := args[2:]
	if len(args) == 5 {
		if exp.Relays, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("invalid relay count %q: %w", args[2], err)
		}
		rest = args[3:]
	}
	exp.NodeList, exp.RelayList = rest[0], rest[1]
	return nil
}

// experiment loads the profiles, then applies positionals and changed flags.
func (f *experimentFlags) experiment(fs *pflag.FlagSet, args []string) (config.Experiment, error) {
	exp, err := config.Load(f.profile)
	if err != nil {
		return config.Experiment{}, err
	}
	if err := parsePositionals(args, &exp); err != nil {
		return config.Experiment{}, err
	}

	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "ssh":
			if f.ssh {
				exp.Shell = config.ProtocolSSH
			} else {
				exp.Shell = config.ProtocolOARSH
			}
		case "cd":
			exp.WorkDir = f.workDir
		case "oar-job-id":
			exp.OARJobID = f.oarJobID
		case "java":
			exp.Java = f.java
		case "main-class":
			exp.Node.MainClass = f.mainClass
		case "config-file":
			exp.Node.ConfigFile = f.configFile
		case "xms-nodes":
			exp.Node.Xms = f.xmsNodes
		case "xmx-nodes":
			exp.Node.Xmx = f.xmxNodes
		case "no-gc-nodes":
			exp.Node.NoGC = f.noGCNodes
		case "relay-jar":
			exp.Relay.Jar = f.relayJar
		case "relay-main-class":
			exp.Relay.MainClass = f.relayMainClass
		case "xms-relays":
			exp.Relay.Xms = f.xmsRelays
		case "xmx-relays":
			exp.Relay.Xmx = f.xmxRelays
		case "no-gc-relays":
			exp.Relay.NoGC = f.noGCRelays
		case "max-buffer-relays":
			exp.Relay.MaxDirectMemory = f.maxBufferRelays
		case "relay-connect-delay":
			exp.Relay.ConnectDelay = f.relayConnectDelay
		case "log-folder":
			exp.LogFolder = f.logFolder
		case "latency-matrix":
			exp.LatencyMatrix = f.latencyMatrix
		case "bandwidth-config":
			exp.BandwidthConfig = f.bandwidthConfig
		case "extra-args":
			exp.ExtraArgs = append([]string(nil), f.extraArgs...)
		case "extra-args-file":
			exp.ExtraArgsFile = f.extraArgsFile
		case "duration":
			exp.Timing.Duration = f.duration
		case "stagger":
			exp.Timing.Stagger = f.stagger
		case "node-settle":
			exp.Timing.NodeSettle = f.nodeSettle
		case "readiness":
			exp.Readiness = config.ReadinessStrategy(f.readiness)
		case "probe-timeout":
			exp.Timing.ProbeTimeout = f.probeTimeout
		case "teardown-parallelism":
			exp.TeardownParallelism = f.teardownParallelism
		case "verbose":
			exp.Verbose = f.verbose
		}
	})
	return exp, nil
}

func experimentArgs() cobra.PositionalArgs {
	return cobra.RangeArgs(4, 5)
}
