package app

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"relayctl/internal/orchestrator"
	"relayctl/internal/tui"
	"relayctl/pkg/logging"
)

// closeOnLine closes end once a full line was read from r. EOF without a line
// leaves end open, so a detached stdin never ends the run.
func closeOnLine(r io.Reader, end chan<- struct{}) {
	reader := bufio.NewReader(r)
	if _, err := reader.ReadString('\n'); err == nil {
		close(end)
	}
}

// runCLIMode executes the non-interactive command line mode
func runCLIMode(ctx context.Context, config *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("CLI", "Running in no-TUI mode.")

	end := make(chan struct{})
	go closeOnLine(os.Stdin, end)
	if config.Experiment.Timing.Duration > 0 {
		logging.Info("CLI", "Run window lasts %s. Press Enter to end it early, Ctrl+C to abort.", config.Experiment.Timing.Duration)
	} else {
		logging.Info("CLI", "Press Enter to end the run window, Ctrl+C to abort.")
	}

	orchConfig := services.orchestratorConfig(config)
	orchConfig.EndSignal = end
	if err := orchestrator.New(orchConfig).Run(ctx); err != nil {
		logging.Error("CLI", err, "Run failed")
		return err
	}
	logging.Info("CLI", "Run complete.")
	return nil
}

// runTUIMode executes the interactive terminal UI mode
func runTUIMode(ctx context.Context, config *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Switch logging to channel-based system for TUI integration
	logLevel := logging.LevelInfo
	if config.Debug {
		logLevel = logging.LevelDebug
	}
	logChan := logging.InitForTUI(logLevel)
	defer logging.CloseTUIChannel()

	exp := config.Experiment
	end := make(chan struct{})
	model := tui.NewModel(tui.Config{
		Summary: tui.Summary{
			Nodes:      services.Nodes.Len(),
			NodeHosts:  len(services.Nodes.Groups()),
			Relays:     exp.Relays,
			RelayHosts: len(services.Relays.Groups()),
			Shell:      string(exp.Shell),
			Duration:   exp.Timing.Duration,
		},
		LogChan: logChan,
		EndRun:  func() { close(end) },
		Abort:   cancel,
	})
	p := tui.NewProgram(model)

	orchConfig := services.orchestratorConfig(config)
	orchConfig.EndSignal = end
	orchConfig.Observer = func(from, to orchestrator.State) {
		p.Send(tui.StateChangedMsg{From: from, To: to})
	}
	orch := orchestrator.New(orchConfig)

	result := make(chan error, 1)
	go func() {
		err := orch.Run(ctx)
		p.Send(tui.RunFinishedMsg{Err: err})
		result <- err
	}()

	if _, err := p.Run(); err != nil {
		logging.Error("TUI-Lifecycle", err, "Error running TUI program")
		cancel()
		<-result
		return err
	}
	return <-result
}
