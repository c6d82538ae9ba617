package trackerlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/steadyhq/steady/internal/lifecycle"
	"github.com/steadyhq/steady/internal/repository"
)

type LogMsg struct {
	TrackerID string
}

type Item struct {
	View repository.TrackerView
	// Today is how many entries were logged against the tracker today.
	Today int
}

func (i Item) Title() string {
	mark := "· "
	if i.View.PeriodDone {
		mark = "✓ "
	}
	return mark + i.View.Name
}

func (i Item) Description() string {
	v := i.View
	switch v.State {
	case lifecycle.StateActiveOngoing:
		return fmt.Sprintf("ongoing | streak %d (best %d)%s",
			v.Streak.Current, v.Streak.Longest, todaySuffix(i.Today))
	case lifecycle.StateActiveChallenge:
		if v.Expired {
			return "challenge over | extend, complete, or convert"
		}
		return fmt.Sprintf("%d days left (%d%%) | streak %d (best %d)%s",
			v.DaysRemaining, v.Progress, v.Streak.Current, v.Streak.Longest, todaySuffix(i.Today))
	case lifecycle.StatePaused:
		return "paused"
	case lifecycle.StateCompleted:
		return fmt.Sprintf("completed | %d entries", v.EntryCount)
	default:
		return string(v.State)
	}
}

func (i Item) FilterValue() string { return i.View.Name }

func todaySuffix(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf(" | %d today", n)
}

type KeyMap struct {
	Log key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Log: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "log 1"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Trackers"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Log}
	}
	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, m.keys.Log) {
			if i, ok := m.list.SelectedItem().(Item); ok {
				state := i.View.State
				if state == lifecycle.StateActiveChallenge || state == lifecycle.StateActiveOngoing {
					return m, func() tea.Msg { return LogMsg{TrackerID: i.View.ID} }
				}
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No trackers yet.\n  Run 'steady tracker add' to create one."
	}
	return m.list.View()
}
