package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NewProgram creates the full-screen program for m. Run state reaches it
// through Program.Send with StateChangedMsg and RunFinishedMsg.
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}
