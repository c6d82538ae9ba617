package repository

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/steadyhq/steady/internal/models"
	"github.com/steadyhq/steady/internal/reconcile"
	"github.com/steadyhq/steady/internal/storage"
	"github.com/steadyhq/steady/internal/streak"
)

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "steady.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedTracker(t *testing.T, store storage.Provider, id, userID, name string) models.Tracker {
	t.Helper()
	now := time.Now()
	tracker := models.Tracker{
		ID:           id,
		UserID:       userID,
		Name:         name,
		Category:     models.CategoryBody,
		Type:         models.TypeCount,
		Frequency:    models.FrequencyDaily,
		Target:       1,
		DurationDays: models.DefaultDurationDays,
		StartDate:    now,
		EndDate:      now.AddDate(0, 0, models.DefaultDurationDays),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.AddTracker(tracker); err != nil {
		t.Fatalf("failed to seed tracker: %v", err)
	}
	return tracker
}

// flakyStore lets tests flip the tracker query into a failure mode after
// a snapshot has been taken.
type flakyStore struct {
	storage.Provider
	fail bool
}

func (f *flakyStore) GetTrackersForUser(userID string) ([]models.Tracker, error) {
	if f.fail {
		return nil, errors.New("store unreachable")
	}
	return f.Provider.GetTrackersForUser(userID)
}

func TestEmptyBeforeFirstLoad(t *testing.T) {
	store := newTestStore(t)
	seedTracker(t, store, "t1", "u1", "Run")
	repo := New(store, streak.NewEngine(), "u1")

	if got := repo.Trackers(); len(got) != 0 {
		t.Errorf("expected empty snapshot before first refresh, got %d", len(got))
	}
}

func TestRefreshAndSnapshot(t *testing.T) {
	store := newTestStore(t)
	seedTracker(t, store, "t1", "u1", "Run")
	seedTracker(t, store, "t2", "u1", "Read")
	seedTracker(t, store, "t3", "someone-else", "Hidden")
	repo := New(store, streak.NewEngine(), "u1")

	trackers, err := repo.Refresh()
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(trackers) != 2 {
		t.Fatalf("expected 2 trackers for u1, got %d", len(trackers))
	}
	if got := repo.Trackers(); len(got) != 2 {
		t.Errorf("expected snapshot of 2, got %d", len(got))
	}
}

func TestFallbackToLastSnapshot(t *testing.T) {
	store := newTestStore(t)
	seedTracker(t, store, "t1", "u1", "Run")
	flaky := &flakyStore{Provider: store}
	repo := New(flaky, streak.NewEngine(), "u1")

	if _, err := repo.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	flaky.fail = true
	trackers, err := repo.Refresh()
	if err == nil {
		t.Fatal("expected refresh error")
	}
	if len(trackers) != 1 || trackers[0].ID != "t1" {
		t.Errorf("expected last good snapshot, got %+v", trackers)
	}
	if got := repo.Trackers(); len(got) != 1 {
		t.Errorf("expected cached snapshot intact, got %d", len(got))
	}
}

func TestFailureBeforeAnySnapshot(t *testing.T) {
	store := newTestStore(t)
	seedTracker(t, store, "t1", "u1", "Run")
	repo := New(&flakyStore{Provider: store, fail: true}, streak.NewEngine(), "u1")

	trackers, err := repo.Refresh()
	if err == nil {
		t.Fatal("expected refresh error")
	}
	if len(trackers) != 0 {
		t.Errorf("expected empty list when nothing ever loaded, got %d", len(trackers))
	}
}

func TestWatchEmitsOnChange(t *testing.T) {
	store := newTestStore(t)
	seedTracker(t, store, "t1", "u1", "Run")
	repo := New(store, streak.NewEngine(), "u1")

	updates, cancel := repo.Watch()
	defer cancel()

	select {
	case trackers := <-updates:
		if len(trackers) != 1 {
			t.Fatalf("expected initial snapshot of 1, got %d", len(trackers))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	seedTracker(t, store, "t2", "u1", "Read")

	deadline := time.After(time.Second)
	for {
		select {
		case trackers := <-updates:
			if len(trackers) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for updated snapshot")
		}
	}
}

func TestSignOutPurges(t *testing.T) {
	store := newTestStore(t)
	seedTracker(t, store, "t1", "u1", "Run")
	repo := New(store, streak.NewEngine(), "u1")

	if _, err := repo.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	repo.SignOut()
	if got := repo.Trackers(); len(got) != 0 {
		t.Errorf("expected empty snapshot after sign out, got %d", len(got))
	}
	if trackers, err := repo.Refresh(); err != nil || len(trackers) != 0 {
		t.Errorf("expected no-op refresh after sign out, got %v %v", trackers, err)
	}
}

func TestBuildDashboard(t *testing.T) {
	store := newTestStore(t)
	tracker := seedTracker(t, store, "t1", "u1", "Run")
	seedTracker(t, store, "t2", "u1", "Read")
	rec := reconcile.New(store)

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	for _, day := range []string{"2026-08-13", "2026-08-14", "2026-08-15"} {
		if _, err := rec.LogEntry(reconcile.EntryParams{TrackerID: tracker.ID, UserID: "u1", Day: day, Value: 1}); err != nil {
			t.Fatalf("LogEntry failed: %v", err)
		}
	}

	repo := New(store, streak.NewEngine(), "u1")
	repo.now = func() time.Time { return now }

	dash, err := repo.BuildDashboard()
	if err != nil {
		t.Fatalf("BuildDashboard failed: %v", err)
	}
	if dash.Day != "2026-08-15" {
		t.Errorf("expected day 2026-08-15, got %s", dash.Day)
	}
	if len(dash.Views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(dash.Views))
	}
	if dash.Active != 2 {
		t.Errorf("expected 2 active, got %d", dash.Active)
	}
	if dash.DoneToday != 1 {
		t.Errorf("expected 1 done today, got %d", dash.DoneToday)
	}
	if dash.BestStreak != 3 {
		t.Errorf("expected best streak 3, got %d", dash.BestStreak)
	}

	for _, v := range dash.Views {
		if v.ID != tracker.ID {
			continue
		}
		if v.Streak.Current != 3 || !v.PeriodDone {
			t.Errorf("unexpected view for logged tracker: %+v", v)
		}
	}
}

func TestEntriesTodayScopedToDay(t *testing.T) {
	store := newTestStore(t)
	tracker := seedTracker(t, store, "t1", "u1", "Run")
	rec := reconcile.New(store)

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	if _, err := rec.LogEntry(reconcile.EntryParams{TrackerID: tracker.ID, UserID: "u1", Day: "2026-08-15", Value: 1}); err != nil {
		t.Fatalf("LogEntry failed: %v", err)
	}

	repo := New(store, streak.NewEngine(), "u1")
	repo.now = func() time.Time { return now }
	if _, err := repo.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := repo.EntriesToday(tracker.ID); len(got) != 1 {
		t.Fatalf("expected 1 entry today, got %d", len(got))
	}

	// Midnight passes; the cache no longer applies.
	repo.now = func() time.Time { return now.AddDate(0, 0, 1) }
	if got := repo.EntriesToday(tracker.ID); len(got) != 0 {
		t.Errorf("expected stale day cache to be ignored, got %d", len(got))
	}
}

func TestExpiring(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	soon := seedTracker(t, store, "t1", "u1", "Soon")
	soon.EndDate = now.AddDate(0, 0, 2)
	if err := store.UpdateTracker(soon); err != nil {
		t.Fatalf("UpdateTracker failed: %v", err)
	}
	far := seedTracker(t, store, "t2", "u1", "Far")
	far.EndDate = now.AddDate(0, 0, 20)
	if err := store.UpdateTracker(far); err != nil {
		t.Fatalf("UpdateTracker failed: %v", err)
	}
	ongoing := seedTracker(t, store, "t3", "u1", "Ongoing")
	ongoing.IsOngoing = true
	if err := store.UpdateTracker(ongoing); err != nil {
		t.Fatalf("UpdateTracker failed: %v", err)
	}

	repo := New(store, streak.NewEngine(), "u1")
	views := repo.Expiring(7)
	if len(views) != 1 {
		t.Fatalf("expected 1 expiring tracker, got %d", len(views))
	}
	if views[0].ID != "t1" {
		t.Errorf("expected t1 expiring, got %s", views[0].ID)
	}
}
