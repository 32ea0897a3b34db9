package tui

import (
	"relayctl/internal/orchestrator"
	"relayctl/pkg/logging"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}
	colorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#404040"}
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	valueStyle = lipgloss.NewStyle().Bold(true)

	stateStyle         = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorInfo)
	stateRunningStyle  = stateStyle.Foreground(colorSuccess)
	stateAbortedStyle  = stateStyle.Foreground(colorError)
	stateTeardownStyle = stateStyle.Foreground(colorWarning)

	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	logPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false).
			BorderForeground(colorBorder)

	logErrorStyle = lipgloss.NewStyle().Foreground(colorError)
	logWarnStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	logDebugStyle = lipgloss.NewStyle().Foreground(colorMuted)
	logInfoStyle  = lipgloss.NewStyle()

	footerStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

func styleForState(s orchestrator.State) lipgloss.Style {
	switch s {
	case orchestrator.StateRunWindow, orchestrator.StateDone:
		return stateRunningStyle
	case orchestrator.StateAborted:
		return stateAbortedStyle
	case orchestrator.StateTeardownPrior, orchestrator.StateTeardownNodes, orchestrator.StateTeardownRelays:
		return stateTeardownStyle
	default:
		return stateStyle
	}
}

func styleForLevel(l logging.LogLevel) lipgloss.Style {
	switch l {
	case logging.LevelError:
		return logErrorStyle
	case logging.LevelWarn:
		return logWarnStyle
	case logging.LevelDebug:
		return logDebugStyle
	default:
		return logInfoStyle
	}
}
