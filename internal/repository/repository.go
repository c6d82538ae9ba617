package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/steadyhq/steady/internal/dateutil"
	"github.com/steadyhq/steady/internal/lifecycle"
	"github.com/steadyhq/steady/internal/logger"
	"github.com/steadyhq/steady/internal/models"
	"github.com/steadyhq/steady/internal/storage"
	"github.com/steadyhq/steady/internal/streak"
)

// Repository serves the tracker list as a live sequence. Reads always go
// to the store first; when a read fails the last successful snapshot is
// served instead, and before any read has succeeded the list is simply
// empty. Watch re-queries whenever the store signals a committed change.
type Repository struct {
	store  storage.Provider
	engine *streak.Engine
	now    func() time.Time

	mu      sync.RWMutex
	userID  string
	last    []models.Tracker
	entries map[string][]models.TrackerEntry // trackerID -> today's entries
	day     string
	loaded  bool
}

func New(store storage.Provider, engine *streak.Engine, userID string) *Repository {
	return &Repository{
		store:  store,
		engine: engine,
		now:    time.Now,
		userID: userID,
	}
}

// Trackers returns the current snapshot without touching the store.
// Callers that need freshness should Refresh first or use Watch.
func (r *Repository) Trackers() []models.Tracker {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Tracker(nil), r.last...)
}

// Refresh re-queries the store. On failure the previous snapshot stays
// in place and is returned alongside the error, so callers can keep
// rendering stale-but-real data.
func (r *Repository) Refresh() ([]models.Tracker, error) {
	r.mu.RLock()
	userID := r.userID
	r.mu.RUnlock()
	if userID == "" {
		return nil, nil
	}

	trackers, err := r.store.GetTrackersForUser(userID)
	if err != nil {
		logger.Warn("tracker refresh failed, serving last snapshot", "err", err)
		return r.Trackers(), fmt.Errorf("refreshing trackers: %w", err)
	}

	day := dateutil.Day(r.now())
	todays, err := r.store.GetEntriesOnDay(userID, day)
	if err != nil {
		logger.Warn("today's entries unavailable", "err", err)
		todays = nil
	}
	byTracker := make(map[string][]models.TrackerEntry, len(trackers))
	for _, e := range todays {
		byTracker[e.TrackerID] = append(byTracker[e.TrackerID], e)
	}

	r.mu.Lock()
	r.last = trackers
	r.entries = byTracker
	r.day = day
	r.loaded = true
	r.mu.Unlock()
	return append([]models.Tracker(nil), trackers...), nil
}

// EntriesToday returns the cached entries logged today for one tracker.
// The cache is scoped to the day it was built; crossing midnight forces
// a re-query on the next Refresh.
func (r *Repository) EntriesToday(trackerID string) []models.TrackerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.day != dateutil.Day(r.now()) {
		return nil
	}
	return append([]models.TrackerEntry(nil), r.entries[trackerID]...)
}

// Watch emits a fresh snapshot now and after every store change until
// cancel is called. Emits are coalesced; a slow consumer sees the latest
// list, not every intermediate one.
func (r *Repository) Watch() (<-chan []models.Tracker, func()) {
	signals, unsubscribe := r.store.Subscribe()
	out := make(chan []models.Tracker, 1)
	done := make(chan struct{})

	emit := func() {
		trackers, err := r.Refresh()
		if err != nil {
			trackers = r.Trackers()
		}
		select {
		case out <- trackers:
		default:
			select {
			case <-out:
			default:
			}
			out <- trackers
		}
	}

	go func() {
		defer close(out)
		emit()
		for {
			select {
			case <-done:
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			unsubscribe()
			close(done)
		})
	}
	return out, cancel
}

// SignOut drops every cached snapshot. The repository keeps working but
// serves empty lists until a user is attached again.
func (r *Repository) SignOut() {
	r.setUser("")
}

// setUser attaches a user and clears state belonging to the previous
// one. Refresh repopulates on the next call.
func (r *Repository) setUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userID = userID
	r.last = nil
	r.entries = nil
	r.day = ""
	r.loaded = false
}

// TrackerView is a tracker joined with everything the list and dashboard
// screens derive from it.
type TrackerView struct {
	models.Tracker
	State         lifecycle.State
	Streak        streak.Result
	PeriodDone    bool
	Expired       bool
	DaysRemaining int
	Progress      int
}

// Dashboard is the aggregate over all of a user's trackers for one day.
type Dashboard struct {
	Day        string
	Views      []TrackerView
	Active     int
	DoneToday  int
	BestStreak int
}

// BuildDashboard computes per-tracker streaks and period completion from
// full entry history. It reads through Refresh first so the numbers
// reflect the store when reachable and the last snapshot when not.
func (r *Repository) BuildDashboard() (Dashboard, error) {
	trackers, err := r.Refresh()
	if err != nil {
		trackers = r.Trackers()
	}

	now := r.now()
	dash := Dashboard{Day: dateutil.Day(now)}
	for _, t := range trackers {
		entries, err := r.store.GetEntriesForTracker(t.ID)
		if err != nil {
			logger.Warn("entries unavailable for streaks", "tracker", t.ID, "err", err)
		}
		view := TrackerView{
			Tracker:       t,
			State:         lifecycle.StateOf(t),
			Streak:        r.engine.Compute(t, entries, now),
			PeriodDone:    r.engine.PeriodComplete(t, entries, now),
			Expired:       lifecycle.IsExpired(t, now),
			DaysRemaining: lifecycle.DaysRemaining(t, now),
			Progress:      lifecycle.ProgressPercent(t, now),
		}
		dash.Views = append(dash.Views, view)
		if view.State == lifecycle.StateActiveChallenge || view.State == lifecycle.StateActiveOngoing {
			dash.Active++
			if view.PeriodDone {
				dash.DoneToday++
			}
		}
		if view.Streak.Current > dash.BestStreak {
			dash.BestStreak = view.Streak.Current
		}
	}
	return dash, nil
}

// Expiring returns active challenges ending within the given number of
// days, soonest first. Ongoing trackers never appear.
func (r *Repository) Expiring(withinDays int) []TrackerView {
	dash, _ := r.BuildDashboard()
	var out []TrackerView
	for _, v := range dash.Views {
		if v.State != lifecycle.StateActiveChallenge {
			continue
		}
		if v.DaysRemaining >= 0 && v.DaysRemaining <= withinDays {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DaysRemaining < out[j].DaysRemaining })
	return out
}
