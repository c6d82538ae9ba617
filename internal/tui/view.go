package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render("steady · " + m.dash.Day)
	summary := summaryStyle.Render(m.summaryLine())
	if m.stale {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, summary,
			staleStyle.Render("(store unreachable, showing last known data)"))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		summary,
		docStyle.Render(m.list.View()),
		m.help.View(m.keys),
	)
}

func (m Model) summaryLine() string {
	if m.dash.Active == 0 {
		return "no active trackers"
	}
	line := fmt.Sprintf("%d/%d done today", m.dash.DoneToday, m.dash.Active)
	if m.dash.BestStreak > 0 {
		line += fmt.Sprintf(" · best streak %d", m.dash.BestStreak)
	}
	return line
}
