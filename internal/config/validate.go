package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError lists every problem found in an Experiment.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid experiment configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks e and returns a *ValidationError when something is wrong.
func (e Experiment) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if e.Jar == "" {
		add("node jar is required")
	}
	if e.Nodes < 1 {
		add("node count must be at least 1, got %d", e.Nodes)
	}
	if e.Relays < 1 {
		add("relay count must be at least 1, got %d", e.Relays)
	}
	if e.NodeList == "" {
		add("node list path is required")
	}
	if e.RelayList == "" {
		add("relay list path is required")
	}
	switch e.Shell {
	case ProtocolSSH, ProtocolOARSH:
	default:
		add("unknown remote shell %q (want %q or %q)", e.Shell, ProtocolSSH, ProtocolOARSH)
	}
	switch e.Readiness {
	case ReadinessTimer, ReadinessProbe:
	default:
		add("unknown readiness strategy %q (want %q or %q)", e.Readiness, ReadinessTimer, ReadinessProbe)
	}
	if e.Java == "" {
		add("java launcher must not be empty")
	}
	if e.Relay.Jar == "" || e.Relay.MainClass == "" {
		add("relay jar and main class must not be empty")
	}
	if e.Node.MainClass == "" {
		add("node main class must not be empty")
	}
	if e.Node.Xms < 0 || e.Node.Xmx < 0 || e.Relay.Xms < 0 || e.Relay.Xmx < 0 {
		add("heap sizes must not be negative")
	}
	if e.Node.Xms > 0 && e.Node.Xmx > 0 && e.Node.Xms > e.Node.Xmx {
		add("node xms (%d) exceeds xmx (%d)", e.Node.Xms, e.Node.Xmx)
	}
	if e.Relay.Xms > 0 && e.Relay.Xmx > 0 && e.Relay.Xms > e.Relay.Xmx {
		add("relay xms (%d) exceeds xmx (%d)", e.Relay.Xms, e.Relay.Xmx)
	}
	t := e.Timing
	if t.RelaySettle < 0 || t.NodeSettle < 0 || t.Stagger < 0 || t.Duration < 0 || e.Relay.ConnectDelay < 0 {
		add("durations must not be negative")
	}
	if e.Readiness == ReadinessProbe && (t.ProbeTimeout <= 0 || t.ProbeInterval <= 0) {
		add("probe readiness needs a positive probe timeout and interval")
	}
	if e.TeardownParallelism < 0 {
		add("teardown parallelism must not be negative")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
