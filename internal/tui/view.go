package tui

import (
	"fmt"
	"strings"

	"relayctl/internal/orchestrator"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// refreshLog truncates lines to the panel width before styling, so escape
// sequences are never cut.
func (m *Model) refreshLog() {
	width := m.logView.Width
	out := make([]string, len(m.logLines))
	for i, l := range m.logLines {
		text := l.text
		if width > 1 && runewidth.StringWidth(text) > width {
			text = runewidth.Truncate(text, width-1, "") + "…"
		}
		out[i] = styleForLevel(l.level).Render(text)
	}
	m.logView.SetContent(strings.Join(out, "\n"))
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	chrome := lipgloss.Height(m.headerView()) + lipgloss.Height(m.footerView()) + logPanelStyle.GetVerticalFrameSize()
	height := m.height - chrome
	if height < 1 {
		height = 1
	}
	m.logView.Width = m.width
	m.logView.Height = height
	m.refreshLog()
	m.logView.GotoBottom()
}

func (m Model) headerView() string {
	title := titleStyle.Render("relayctl")
	if !m.state.Terminal() && !m.finished {
		title = m.spinner.View() + " " + title
	}
	state := styleForState(m.state).Render(m.state.String())

	fleet := fmt.Sprintf("%s %s  %s %s  %s %s",
		labelStyle.Render("nodes"), valueStyle.Render(fmt.Sprintf("%d on %d host(s)", m.summary.Nodes, m.summary.NodeHosts)),
		labelStyle.Render("relays"), valueStyle.Render(fmt.Sprintf("%d on %d host(s)", m.summary.Relays, m.summary.RelayHosts)),
		labelStyle.Render("shell"), valueStyle.Render(m.summary.Shell),
	)

	clock := labelStyle.Render("run window not started")
	if m.state >= orchestrator.StateRunWindow {
		clock = labelStyle.Render("elapsed ") + valueStyle.Render(m.elapsed.View())
		if m.summary.Duration > 0 {
			clock += "  " + labelStyle.Render("remaining ") + valueStyle.Render(m.remain.View())
		} else if m.state == orchestrator.StateRunWindow {
			clock += "  " + labelStyle.Render("until enter/q")
		}
	}

	lines := []string{title + "  " + state, fleet, clock}
	if m.err != nil {
		lines = append(lines, logErrorStyle.Render("error: "+m.err.Error()))
	}
	return headerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) footerView() string {
	return footerStyle.Render(m.help.View(m.keys))
}

// View renders the header, the log panel and the key help.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		logPanelStyle.Render(m.logView.View()),
		m.footerView(),
	)
}
