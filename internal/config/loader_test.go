package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withProfilePaths points the user and project layers at dir for one test.
func withProfilePaths(t *testing.T, userPath, projectPath string) {
	t.Helper()
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	})

	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) { return projectPath, nil }
}

func writeProfile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	withProfilePaths(t,
		filepath.Join(tempDir, "non-existent-user.yaml"),
		filepath.Join(tempDir, "non-existent-project.yaml"),
	)

	exp, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), exp)
}

func TestLoad_LayersOverrideKeyByKey(t *testing.T) {
	tempDir := t.TempDir()
	userPath := filepath.Join(tempDir, "home", userConfigDir, profileFileName)
	projectPath := filepath.Join(tempDir, "project", projectConfigDir, profileFileName)
	explicitPath := filepath.Join(tempDir, "run.yaml")
	withProfilePaths(t, userPath, projectPath)

	writeProfile(t, userPath, `
shell: ssh
workDir: /home/me
node:
  xmx: 4
`)
	writeProfile(t, projectPath, `
workDir: /srv/bench
timing:
  stagger: 250ms
`)
	writeProfile(t, explicitPath, `
jar: app.jar
relay:
  noGC: true
  xms: 10
timing:
  duration: 2m
`)

	exp, err := Load(explicitPath)
	require.NoError(t, err)

	assert.Equal(t, ProtocolSSH, exp.Shell, "user layer")
	assert.Equal(t, "/srv/bench", exp.WorkDir, "project layer overrides user layer")
	assert.Equal(t, 4, exp.Node.Xmx)
	assert.Equal(t, "Main", exp.Node.MainClass, "default survives partial node section")
	assert.Equal(t, 250*time.Millisecond, exp.Timing.Stagger)
	assert.Equal(t, 2*time.Minute, exp.Timing.Duration)
	assert.Equal(t, 7*time.Second, exp.Timing.RelaySettle, "default survives partial timing section")
	assert.Equal(t, "app.jar", exp.Jar)
	assert.True(t, exp.Relay.NoGC)
	assert.Equal(t, DefaultRelayJar, exp.Relay.Jar)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tempDir := t.TempDir()
	withProfilePaths(t, filepath.Join(tempDir, "u.yaml"), filepath.Join(tempDir, "p.yaml"))

	bad := filepath.Join(tempDir, "bad.yaml")
	writeProfile(t, bad, "timing: [not, a, map]\n")

	_, err := Load(bad)
	assert.Error(t, err)
}

func TestLoad_MissingExplicitProfile(t *testing.T) {
	tempDir := t.TempDir()
	withProfilePaths(t, filepath.Join(tempDir, "u.yaml"), filepath.Join(tempDir, "p.yaml"))

	_, err := Load(filepath.Join(tempDir, "absent.yaml"))
	assert.Error(t, err)
}

func TestGetUserConfigDir(t *testing.T) {
	original := osUserHomeDir
	defer func() { osUserHomeDir = original }()
	osUserHomeDir = func() (string, error) { return "/home/tester", nil }

	dir, err := GetUserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", userConfigDir), dir)
}
