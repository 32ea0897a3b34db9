package tui

import (
	"relayctl/internal/orchestrator"
	"relayctl/pkg/logging"

	tea "github.com/charmbracelet/bubbletea"
)

// StateChangedMsg reports a lifecycle transition.
type StateChangedMsg struct {
	From orchestrator.State
	To   orchestrator.State
}

// RunFinishedMsg is sent once the orchestrator returned. The view quits on it.
type RunFinishedMsg struct {
	Err error
}

type logEntryMsg logging.LogEntry

type logChannelClosedMsg struct{}

// listenForLogs reads one entry; Update re-issues it after every entry.
func listenForLogs(ch <-chan logging.LogEntry) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return logChannelClosedMsg{}
		}
		return logEntryMsg(entry)
	}
}
