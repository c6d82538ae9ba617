package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/steadyhq/steady/internal/models"
	"github.com/steadyhq/steady/internal/reconcile"
	"github.com/steadyhq/steady/internal/repository"
	"github.com/steadyhq/steady/internal/tui/components/trackerlist"
)

// dashboardMsg carries a freshly built dashboard into Update.
type dashboardMsg struct {
	dash  repository.Dashboard
	stale bool
}

// changedMsg fires when the store signals a committed mutation.
type changedMsg struct{}

type Model struct {
	repo   *repository.Repository
	rec    *reconcile.Reconciler
	userID string

	keys    KeyMap
	help    help.Model
	list    trackerlist.Model
	dash    repository.Dashboard
	stale   bool
	updates <-chan []models.Tracker
	cancel  func()

	quitting bool
	width    int
	height   int
}

func NewModel(repo *repository.Repository, rec *reconcile.Reconciler, userID string) Model {
	updates, cancel := repo.Watch()
	return Model{
		repo:    repo,
		rec:     rec,
		userID:  userID,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		list:    trackerlist.New(nil, 0, 0),
		updates: updates,
		cancel:  cancel,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.buildDashboard, m.waitForChange)
}

// waitForChange blocks on the repository's watch channel; the payload
// itself is discarded because buildDashboard re-reads with streaks.
func (m Model) waitForChange() tea.Msg {
	if _, ok := <-m.updates; !ok {
		return nil
	}
	return changedMsg{}
}

func (m Model) buildDashboard() tea.Msg {
	dash, err := m.repo.BuildDashboard()
	return dashboardMsg{dash: dash, stale: err != nil}
}

// logOne records a single unit against the tracker. The store signal it
// triggers refreshes the dashboard.
func (m Model) logOne(trackerID string) tea.Cmd {
	return func() tea.Msg {
		m.rec.LogEntry(reconcile.EntryParams{TrackerID: trackerID, UserID: m.userID, Value: 1})
		return nil
	}
}
