package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"relayctl/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseExperiment registers the experiment flags on a scratch command, parses
// argv and builds the experiment with no user profile in the way.
func parseExperiment(t *testing.T, argv ...string) (config.Experiment, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	flags := &experimentFlags{}
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(argv))
	return flags.experiment(cmd.Flags(), cmd.Flags().Args())
}

func TestExperiment_FourPositionalsKeepDefaultRelays(t *testing.T) {
	exp, err := parseExperiment(t, "app.jar", "10", "nodes.txt", "relays.txt")
	require.NoError(t, err)

	assert.Equal(t, "app.jar", exp.Jar)
	assert.Equal(t, 10, exp.Nodes)
	assert.Equal(t, 1, exp.Relays)
	assert.Equal(t, "nodes.txt", exp.NodeList)
	assert.Equal(t, "relays.txt", exp.RelayList)
	assert.Equal(t, config.ProtocolOARSH, exp.Shell)
	assert.Equal(t, "Main", exp.Node.MainClass)
	assert.Equal(t, config.DefaultRelayJar, exp.Relay.Jar)
}

func TestExperiment_FivePositionals(t *testing.T) {
	exp, err := parseExperiment(t, "app.jar", "10", "3", "nodes.txt", "relays.txt")
	require.NoError(t, err)

	assert.Equal(t, 3, exp.Relays)
	assert.Equal(t, "nodes.txt", exp.NodeList)
	assert.Equal(t, "relays.txt", exp.RelayList)
}

func TestExperiment_BadCounts(t *testing.T) {
	_, err := parseExperiment(t, "app.jar", "ten", "nodes.txt", "relays.txt")
	assert.ErrorContains(t, err, `invalid node count "ten"`)

	_, err = parseExperiment(t, "app.jar", "10", "x", "nodes.txt", "relays.txt")
	assert.ErrorContains(t, err, `invalid relay count "x"`)
}

func TestExperiment_ChangedFlagsOverride(t *testing.T) {
	exp, err := parseExperiment(t,
		"--ssh", "--cd", "/srv/bench", "--oar-job-id", "4242",
		"--xms-nodes", "2", "--xmx-nodes", "4", "--no-gc-relays", "--xms-relays", "10",
		"--max-buffer-relays", "2g", "--relay-connect-delay", "1500ms",
		"-e", "-Dfoo=bar", "-e", "--flag with space",
		"--extra-args-file", "extras.txt",
		"--duration", "2m", "--stagger", "250ms",
		"--readiness", "probe", "--teardown-parallelism", "8", "-v",
		"app.jar", "10", "2", "nodes.txt", "relays.txt")
	require.NoError(t, err)

	assert.Equal(t, config.ProtocolSSH, exp.Shell)
	assert.Equal(t, "/srv/bench", exp.WorkDir)
	assert.Equal(t, "4242", exp.OARJobID)
	assert.Equal(t, 2, exp.Node.Xms)
	assert.Equal(t, 4, exp.Node.Xmx)
	assert.True(t, exp.Relay.NoGC)
	assert.Equal(t, 10, exp.Relay.Xms)
	assert.Equal(t, "2g", exp.Relay.MaxDirectMemory)
	assert.Equal(t, 1500*time.Millisecond, exp.Relay.ConnectDelay)
	assert.Equal(t, []string{"-Dfoo=bar", "--flag with space"}, exp.ExtraArgs)
	assert.Equal(t, "extras.txt", exp.ExtraArgsFile)
	assert.Equal(t, 2*time.Minute, exp.Timing.Duration)
	assert.Equal(t, 250*time.Millisecond, exp.Timing.Stagger)
	assert.Equal(t, config.ReadinessProbe, exp.Readiness)
	assert.Equal(t, 8, exp.TeardownParallelism)
	assert.True(t, exp.Verbose)
}

func TestExperiment_ProfileUnderFlags(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("shell: ssh\nrelays: 4\nnode:\n  mainClass: Bench\ntiming:\n  stagger: 1s\n"), 0644))

	exp, err := parseExperiment(t, "--profile", profile, "--stagger", "2s",
		"app.jar", "10", "nodes.txt", "relays.txt")
	require.NoError(t, err)

	assert.Equal(t, config.ProtocolSSH, exp.Shell)
	assert.Equal(t, 4, exp.Relays, "four positionals keep the profile relay count")
	assert.Equal(t, "Bench", exp.Node.MainClass)
	assert.Equal(t, 2*time.Second, exp.Timing.Stagger)
}

func TestExperiment_UnchangedFlagsKeepProfile(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("java: /opt/jdk/bin/java\nlogFolder: out/\n"), 0644))

	exp, err := parseExperiment(t, "--profile", profile, "app.jar", "10", "nodes.txt", "relays.txt")
	require.NoError(t, err)

	assert.Equal(t, "/opt/jdk/bin/java", exp.Java)
	assert.Equal(t, "out/", exp.LogFolder)
}

func TestExperimentArgs(t *testing.T) {
	args := experimentArgs()
	assert.Error(t, args(nil, []string{"a", "b", "c"}))
	assert.NoError(t, args(nil, []string{"a", "b", "c", "d"}))
	assert.NoError(t, args(nil, []string{"a", "b", "c", "d", "e"}))
	assert.Error(t, args(nil, []string{"a", "b", "c", "d", "e", "f"}))
}
