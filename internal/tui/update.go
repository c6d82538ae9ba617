package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/steadyhq/steady/internal/tui/components/trackerlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case dashboardMsg:
		m.dash = msg.dash
		m.stale = msg.stale
		items := make([]trackerlist.Item, len(msg.dash.Views))
		for i, v := range msg.dash.Views {
			items[i] = trackerlist.Item{View: v, Today: len(m.repo.EntriesToday(v.ID))}
		}
		m.list.SetItems(items)
		return m, nil

	case changedMsg:
		return m, tea.Batch(m.buildDashboard, m.waitForChange)

	case trackerlist.LogMsg:
		return m, m.logOne(msg.TrackerID)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.buildDashboard
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}
