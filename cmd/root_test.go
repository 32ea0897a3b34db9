package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", rootCmd.Version)
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "relayctl", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "plan", "teardown", "version"})
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "relayctl version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	require.NoError(t, testCmd.Execute())

	assert.Equal(t, "relayctl version 1.0.0\n", buf.String())
}

func TestVersionCommand(t *testing.T) {
	SetVersion("0.4.0")
	cmd := newVersionCmd()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.Run(cmd, nil)

	assert.Equal(t, "relayctl version 0.4.0\n", buf.String())
}

func TestPlanCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	nodes := filepath.Join(dir, "nodes.txt")
	relays := filepath.Join(dir, "relays.txt")
	require.NoError(t, os.WriteFile(nodes, []byte("n1:9000\nn1:9001\nn2:9000\nn2:9001\n"), 0644))
	require.NoError(t, os.WriteFile(relays, []byte("r1:7000\nr2:7000\n"), 0644))

	cmd := newPlanCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--ssh", "app.jar", "4", "2", nodes, relays})
	require.NoError(t, cmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "4 node(s), 2 relay(s), shell ssh")
	assert.Contains(t, out, "# relay session: ssh r1")
	assert.Contains(t, out, "# node session: ssh n2")
}

func TestPlanCommand_RejectsWrongArgCount(t *testing.T) {
	cmd := newPlanCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"app.jar", "4"})
	assert.Error(t, cmd.Execute())
}
