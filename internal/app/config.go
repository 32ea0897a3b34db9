package app

import (
	"relayctl/internal/config"
)

// Config holds the application configuration
type Config struct {
	// UI mode
	NoTUI bool

	// Debug settings
	Debug bool

	// Experiment is the validated run description
	Experiment config.Experiment
}

// NewConfig creates a new application configuration
func NewConfig(exp config.Experiment, noTUI, debug bool) *Config {
	return &Config{
		NoTUI:      noTUI,
		Debug:      debug,
		Experiment: exp,
	}
}
