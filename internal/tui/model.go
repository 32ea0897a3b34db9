package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"relayctl/internal/orchestrator"
	"relayctl/pkg/logging"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/stopwatch"
	"github.com/charmbracelet/bubbles/timer"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// MaxLogLines bounds the log kept by the view.
const MaxLogLines = 500

// Summary describes the run shown in the header.
type Summary struct {
	Nodes      int
	NodeHosts  int
	Relays     int
	RelayHosts int
	Shell      string
	Duration   time.Duration // zero when the run window waits for the end signal
}

// Config wires a Model to the run it displays.
type Config struct {
	Summary Summary
	LogChan <-chan logging.LogEntry
	// EndRun closes the orchestrator's end signal. Called at most once.
	EndRun func()
	// Abort cancels the run context.
	Abort context.CancelFunc
}

// Model is the run-window view.
type Model struct {
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	elapsed stopwatch.Model
	remain  timer.Model
	logView viewport.Model

	summary Summary
	logChan <-chan logging.LogEntry
	endRun  func()
	abort   context.CancelFunc

	state        orchestrator.State
	logLines     []logLine
	endRequested bool
	aborting     bool
	finished     bool
	err          error

	width  int
	height int
}

// NewModel returns a model in the INIT state.
func NewModel(cfg Config) Model {
	var once sync.Once
	endRun := func() {}
	if cfg.EndRun != nil {
		endRun = func() { once.Do(cfg.EndRun) }
	}
	abort := cfg.Abort
	if abort == nil {
		abort = func() {}
	}

	return Model{
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(titleStyle)),
		elapsed: stopwatch.NewWithInterval(time.Second),
		remain:  timer.NewWithInterval(cfg.Summary.Duration, time.Second),
		logView: viewport.New(80, 10),
		summary: cfg.Summary,
		logChan: cfg.LogChan,
		endRun:  endRun,
		abort:   abort,
		state:   orchestrator.StateInit,
	}
}

// Init starts the spinner and the log listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, listenForLogs(m.logChan))
}

// State is the last lifecycle state reported to the view.
func (m Model) State() orchestrator.State {
	return m.state
}

// Finished reports whether the run returned, and with which error.
func (m Model) Finished() (bool, error) {
	return m.finished, m.err
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Abort):
			if m.finished {
				return m, tea.Quit
			}
			if !m.aborting {
				m.aborting = true
				m.appendLog(logging.LevelWarn, "Aborting; tearing down the fleet")
				m.abort()
			}
			return m, nil
		case key.Matches(msg, m.keys.End):
			if m.finished {
				return m, tea.Quit
			}
			if !m.endRequested {
				m.endRequested = true
				m.appendLog(logging.LevelInfo, "End of run requested")
				m.endRun()
			}
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		}
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case StateChangedMsg:
		m.state = msg.To
		if msg.To == orchestrator.StateRunWindow {
			cmds = append(cmds, m.elapsed.Init())
			if m.summary.Duration > 0 {
				cmds = append(cmds, m.remain.Init())
			}
		}
		if msg.From == orchestrator.StateRunWindow {
			cmds = append(cmds, m.elapsed.Stop(), m.remain.Stop())
		}
		return m, tea.Batch(cmds...)

	case RunFinishedMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit

	case logEntryMsg:
		m.appendEntry(logging.LogEntry(msg))
		return m, listenForLogs(m.logChan)

	case logChannelClosedMsg:
		m.logChan = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)
	m.elapsed, cmd = m.elapsed.Update(msg)
	cmds = append(cmds, cmd)
	m.remain, cmd = m.remain.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) appendEntry(e logging.LogEntry) {
	var b strings.Builder
	b.WriteString(e.Timestamp.Format("15:04:05"))
	fmt.Fprintf(&b, " %-5s [%s]", e.Level, e.Subsystem)
	if e.Host != "" {
		fmt.Fprintf(&b, " %s:", e.Host)
	}
	b.WriteString(" ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	m.addLine(e.Level, b.String())
}

func (m *Model) appendLog(level logging.LogLevel, text string) {
	m.appendEntry(logging.LogEntry{Timestamp: time.Now(), Level: level, Subsystem: "TUI", Message: text})
}

type logLine struct {
	level logging.LogLevel
	text  string
}

func (m *Model) addLine(level logging.LogLevel, text string) {
	m.logLines = append(m.logLines, logLine{level: level, text: text})
	if len(m.logLines) > MaxLogLines {
		m.logLines = m.logLines[len(m.logLines)-MaxLogLines:]
	}
	atBottom := m.logView.AtBottom()
	m.refreshLog()
	if atBottom {
		m.logView.GotoBottom()
	}
}
