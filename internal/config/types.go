package config

import (
	"time"
)

// Protocol selects the remote shell used to reach a host.
type Protocol string

const (
	// ProtocolOARSH is the OAR scheduler's ssh wrapper. It is the default since
	// relayctl usually runs inside an OAR job.
	ProtocolOARSH Protocol = "oarsh"
	// ProtocolSSH is plain OpenSSH.
	ProtocolSSH Protocol = "ssh"
)

// ReadinessStrategy selects how settle windows are waited out.
type ReadinessStrategy string

const (
	// ReadinessTimer sleeps for the computed settle duration.
	ReadinessTimer ReadinessStrategy = "timer"
	// ReadinessProbe polls TCP connects to every launched host:port.
	ReadinessProbe ReadinessStrategy = "probe"
)

// Experiment is the complete parameter set of one benchmark run. It is built
// once by Load plus command line overrides and then only read.
type Experiment struct {
	Jar       string `yaml:"jar,omitempty"`       // node process archive
	Nodes     int    `yaml:"nodes,omitempty"`     // N
	Relays    int    `yaml:"relays,omitempty"`    // R
	NodeList  string `yaml:"nodeList,omitempty"`  // host list for nodes
	RelayList string `yaml:"relayList,omitempty"` // host list for relays

	Shell    Protocol `yaml:"shell,omitempty"`
	WorkDir  string   `yaml:"workDir,omitempty"`  // cd target after connecting
	OARJobID string   `yaml:"oarJobId,omitempty"` // exported as OAR_JOB_ID
	Java     string   `yaml:"java,omitempty"`     // JVM launcher on the remote hosts

	Node  NodeSettings  `yaml:"node"`
	Relay RelaySettings `yaml:"relay"`

	LogFolder       string `yaml:"logFolder,omitempty"`
	LatencyMatrix   string `yaml:"latencyMatrix,omitempty"`
	BandwidthConfig string `yaml:"bandwidthConfig,omitempty"`

	ExtraArgs     []string `yaml:"extraArgs,omitempty"`
	ExtraArgsFile string   `yaml:"extraArgsFile,omitempty"`

	Timing              Timing            `yaml:"timing"`
	Readiness           ReadinessStrategy `yaml:"readiness,omitempty"`
	TeardownParallelism int               `yaml:"teardownParallelism,omitempty"`
	Verbose             bool              `yaml:"verbose,omitempty"`
}

// NodeSettings configures the benchmarked node processes.
type NodeSettings struct {
	MainClass  string `yaml:"mainClass,omitempty"`
	ConfigFile string `yaml:"configFile,omitempty"`
	Xms        int    `yaml:"xms,omitempty"` // GiB, 0 leaves the JVM default
	Xmx        int    `yaml:"xmx,omitempty"` // GiB
	NoGC       bool   `yaml:"noGC,omitempty"`
}

// RelaySettings configures the relay processes.
type RelaySettings struct {
	Jar             string        `yaml:"jar,omitempty"`
	MainClass       string        `yaml:"mainClass,omitempty"`
	Xms             int           `yaml:"xms,omitempty"` // GiB
	Xmx             int           `yaml:"xmx,omitempty"` // GiB
	NoGC            bool          `yaml:"noGC,omitempty"`
	MaxDirectMemory string        `yaml:"maxDirectMemory,omitempty"` // passed verbatim, e.g. "2g"
	ConnectDelay    time.Duration `yaml:"connectDelay,omitempty"`    // wait before relays dial each other
}

// Timing holds every wait of the lifecycle.
type Timing struct {
	RelaySettle   time.Duration `yaml:"relaySettle,omitempty"` // base, before GC adjustments
	NodeSettle    time.Duration `yaml:"nodeSettle,omitempty"`  // base, before stagger
	Stagger       time.Duration `yaml:"stagger,omitempty"`     // between node launches on one host
	Duration      time.Duration `yaml:"duration,omitempty"`    // run window; 0 waits for the end signal
	ProbeTimeout  time.Duration `yaml:"probeTimeout,omitempty"`
	ProbeInterval time.Duration `yaml:"probeInterval,omitempty"`
}

// Clone returns a copy that shares no slices with e.
func (e Experiment) Clone() Experiment {
	out := e
	if e.ExtraArgs != nil {
		out.ExtraArgs = append([]string{}, e.ExtraArgs...)
	}
	return out
}
