package config

import (
	"fmt"
	"os"
	"path/filepath"

	"relayctl/pkg/logging"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/relayctl"
	projectConfigDir = ".relayctl"
	profileFileName  = "profile.yaml"
)

// Load layers the default experiment, the user profile, the project profile
// and finally the explicit profile at path (if not empty). Each layer only
// overrides the keys it sets.
func Load(path string) (Experiment, error) {
	exp := GetDefaultConfig()

	userPath, err := getUserConfigPath()
	if err != nil {
		logging.Warn("Config", "Could not determine user profile path: %v", err)
	} else if err := overlayIfExists(userPath, &exp); err != nil {
		return Experiment{}, err
	}

	projectPath, err := getProjectConfigPath()
	if err != nil {
		logging.Warn("Config", "Could not determine project profile path: %v", err)
	} else if err := overlayIfExists(projectPath, &exp); err != nil {
		return Experiment{}, err
	}

	if path != "" {
		if err := overlayFromFile(path, &exp); err != nil {
			return Experiment{}, err
		}
		logging.Debug("Config", "Loaded profile %s", path)
	}

	return exp, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, profileFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, profileFileName), nil
}

func overlayIfExists(path string, exp *Experiment) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := overlayFromFile(path, exp); err != nil {
		return err
	}
	logging.Debug("Config", "Applied profile layer %s", path)
	return nil
}

// overlayFromFile decodes a YAML profile on top of exp. yaml.v3 leaves struct
// fields that are absent from the document untouched.
func overlayFromFile(path string, exp *Experiment) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error loading profile from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, exp); err != nil {
		return fmt.Errorf("error parsing profile %s: %w", path, err)
	}
	return nil
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
