package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"relayctl/internal/color"
	"relayctl/internal/orchestrator"
	"relayctl/pkg/logging"
)

// Application is the main application structure that bootstraps and runs relayctl
type Application struct {
	config   *Config
	services *Services
}

// NewApplication validates the experiment and reads the host lists.
func NewApplication(cfg *Config) (*Application, error) {
	// Configure logging based on debug flag
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	// Initialize logging for CLI output (will be replaced for TUI mode)
	logging.InitForCLI(appLogLevel, os.Stderr)

	color.Configure()

	if err := cfg.Experiment.Validate(); err != nil {
		logging.Error("Bootstrap", err, "Invalid experiment")
		return nil, err
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to read host lists")
		return nil, err
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Run executes the full lifecycle in the appropriate mode
func (a *Application) Run(ctx context.Context) error {
	if a.config.NoTUI {
		return runCLIMode(ctx, a.config, a.services)
	}
	return runTUIMode(ctx, a.config, a.services)
}

// Plan writes the partition table and every host script to w without
// contacting any host.
func (a *Application) Plan(w io.Writer) error {
	orch := orchestrator.New(a.services.orchestratorConfig(a.config))
	plan, err := orch.Plan()
	if plan != nil {
		renderPlan(w, a.config.Experiment, plan)
	}
	if err != nil {
		return fmt.Errorf("plan is incomplete: %w", err)
	}
	return nil
}

// Teardown kills every node and relay process on the listed hosts.
func (a *Application) Teardown(ctx context.Context) error {
	orch := orchestrator.New(a.services.orchestratorConfig(a.config))
	return orch.Teardown(ctx)
}
