package remote

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"relayctl/pkg/logging"
)

const subsystem = "Remote"

// Process is a started remote session.
type Process interface {
	// Wait blocks until the session exits.
	Wait() error
}

// Spawner starts remote sessions. Spawn must not wait for the session to
// finish.
type Spawner interface {
	Spawn(ctx context.Context, inv Invocation) (Process, error)
}

// ExecSpawner runs the connector program as a local child process.
type ExecSpawner struct {
	// Verbose streams the session's stdout and stderr lines into the log.
	Verbose bool
}

// NewExecSpawner returns a spawner backed by os/exec.
func NewExecSpawner(verbose bool) *ExecSpawner {
	return &ExecSpawner{Verbose: verbose}
}

func buildCmd(ctx context.Context, inv Invocation) *exec.Cmd {
	argv := inv.Argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if extra := inv.Env(); len(extra) > 0 {
		cmd.Env = append(os.Environ(), extra...)
	}
	return cmd
}

// Spawn starts the session and returns as soon as the child is running.
func (s *ExecSpawner) Spawn(ctx context.Context, inv Invocation) (Process, error) {
	cmd := buildCmd(ctx, inv)
	p := &execProcess{cmd: cmd}

	if s.Verbose {
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			return nil, fmt.Errorf("failed to get stderr pipe: %w", err)
		}
		p.streams.Add(2)
		go p.stream(inv.Address, stdout, false)
		go p.stream(inv.Address, stderr, true)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", inv.Protocol, err)
	}
	return p, nil
}

type execProcess struct {
	cmd     *exec.Cmd
	streams sync.WaitGroup
}

func (p *execProcess) stream(address string, r io.Reader, isStderr bool) {
	defer p.streams.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isStderr {
			logging.HostInfo(subsystem, address, "stderr: %s", line)
		} else {
			logging.HostDebug(subsystem, address, "stdout: %s", line)
		}
	}
}

// Wait drains the output streams before reaping the child, as os/exec
// requires when pipes are in use.
func (p *execProcess) Wait() error {
	p.streams.Wait()
	return p.cmd.Wait()
}
