package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/steadyhq/steady/internal/models"
)

func setupTestSQLiteStore(t *testing.T) *SQLiteStore {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func setupTestJSONStore(t *testing.T) *JSONStore {
	path := filepath.Join(t.TempDir(), "test.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	return store
}

func testTracker(id, userID string, createdAt time.Time) models.Tracker {
	return models.Tracker{
		ID:           id,
		UserID:       userID,
		Name:         "Meditation",
		Category:     models.CategoryMind,
		Type:         models.TypeDuration,
		Frequency:    models.FrequencyDaily,
		Target:       10,
		Unit:         "minutes",
		DurationDays: 28,
		StartDate:    createdAt,
		EndDate:      createdAt.AddDate(0, 0, 28),
		IsActive:     true,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func testEntry(id, trackerID, userID, day string) models.TrackerEntry {
	return models.TrackerEntry{
		ID:        id,
		TrackerID: trackerID,
		UserID:    userID,
		Day:       day,
		Value:     1,
		CreatedAt: time.Now().UTC(),
	}
}

func eachStore(t *testing.T, fn func(t *testing.T, store Provider)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, setupTestSQLiteStore(t)) })
	t.Run("json", func(t *testing.T) { fn(t, setupTestJSONStore(t)) })
}

func TestTrackerRoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		tracker := testTracker("t1", "u1", now)

		if err := store.AddTracker(tracker); err != nil {
			t.Fatalf("AddTracker failed: %v", err)
		}

		got, err := store.GetTracker("t1")
		if err != nil {
			t.Fatalf("GetTracker failed: %v", err)
		}
		if got.Name != tracker.Name || got.Frequency != tracker.Frequency || got.Target != tracker.Target {
			t.Errorf("round-tripped tracker differs: got %+v", got)
		}
		if !got.StartDate.Equal(tracker.StartDate) || !got.EndDate.Equal(tracker.EndDate) {
			t.Errorf("round-tripped dates differ: got %v/%v", got.StartDate, got.EndDate)
		}
		if got.ArchivedAt != nil {
			t.Error("archived_at should be nil for a fresh tracker")
		}
	})
}

func TestTrackerNotFound(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		if _, err := store.GetTracker("missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTrackersOrderedByCreation(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		// Insert out of creation order.
		for _, tc := range []struct {
			id     string
			offset time.Duration
		}{
			{"t2", time.Hour},
			{"t1", 0},
			{"t3", 2 * time.Hour},
		} {
			if err := store.AddTracker(testTracker(tc.id, "u1", base.Add(tc.offset))); err != nil {
				t.Fatalf("AddTracker(%s) failed: %v", tc.id, err)
			}
		}

		trackers, err := store.GetTrackersForUser("u1")
		if err != nil {
			t.Fatalf("GetTrackersForUser failed: %v", err)
		}
		if len(trackers) != 3 {
			t.Fatalf("expected 3 trackers, got %d", len(trackers))
		}
		for i, want := range []string{"t1", "t2", "t3"} {
			if trackers[i].ID != want {
				t.Errorf("position %d: got %s, want %s", i, trackers[i].ID, want)
			}
		}
	})
}

func TestEntryCountDeltaComposes(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		now := time.Now().UTC()
		if err := store.AddTracker(testTracker("t1", "u1", now)); err != nil {
			t.Fatalf("AddTracker failed: %v", err)
		}

		for _, delta := range []int{1, 1, 1, -1} {
			if err := store.AddEntryCountDelta("t1", delta); err != nil {
				t.Fatalf("AddEntryCountDelta(%d) failed: %v", delta, err)
			}
		}

		got, err := store.GetTracker("t1")
		if err != nil {
			t.Fatalf("GetTracker failed: %v", err)
		}
		if got.EntryCount != 2 {
			t.Errorf("entry_count = %d, want 2", got.EntryCount)
		}
	})
}

func TestDeltaOnMissingTracker(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		if err := store.AddEntryCountDelta("missing", 1); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteEntriesBatchAllOrNothing(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		now := time.Now().UTC()
		if err := store.AddTracker(testTracker("t1", "u1", now)); err != nil {
			t.Fatalf("AddTracker failed: %v", err)
		}
		for _, id := range []string{"e1", "e2"} {
			if err := store.AddEntry(testEntry(id, "t1", "u1", "2024-03-01")); err != nil {
				t.Fatalf("AddEntry(%s) failed: %v", id, err)
			}
		}

		// One id does not exist: nothing may be deleted.
		if err := store.DeleteEntriesBatch([]string{"e1", "ghost"}); err == nil {
			t.Fatal("expected batch delete with a missing id to fail")
		}
		entries, err := store.GetEntriesForTracker("t1")
		if err != nil {
			t.Fatalf("GetEntriesForTracker failed: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("failed batch should leave all entries intact, found %d", len(entries))
		}

		// A fully valid batch removes everything.
		if err := store.DeleteEntriesBatch([]string{"e1", "e2"}); err != nil {
			t.Fatalf("valid batch delete failed: %v", err)
		}
		entries, err = store.GetEntriesForTracker("t1")
		if err != nil {
			t.Fatalf("GetEntriesForTracker failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no entries after batch delete, found %d", len(entries))
		}
	})
}

func TestCountEntries(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		now := time.Now().UTC()
		if err := store.AddTracker(testTracker("t1", "u1", now)); err != nil {
			t.Fatalf("AddTracker failed: %v", err)
		}
		for i, id := range []string{"e1", "e2", "e3"} {
			day := time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
			if err := store.AddEntry(testEntry(id, "t1", "u1", day)); err != nil {
				t.Fatalf("AddEntry(%s) failed: %v", id, err)
			}
		}

		count, err := store.CountEntries("t1")
		if err != nil {
			t.Fatalf("CountEntries failed: %v", err)
		}
		if count != 3 {
			t.Errorf("CountEntries = %d, want 3", count)
		}
	})
}

func TestSubscribeSignalsOnMutation(t *testing.T) {
	eachStore(t, func(t *testing.T, store Provider) {
		ch, cancel := store.Subscribe()
		defer cancel()

		if err := store.AddTracker(testTracker("t1", "u1", time.Now().UTC())); err != nil {
			t.Fatalf("AddTracker failed: %v", err)
		}

		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("expected a change signal after AddTracker")
		}
	})
}

func TestSettingsPersist(t *testing.T) {
	store := setupTestSQLiteStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.UserID == "" {
		t.Error("Init should assign a user id")
	}
	if settings.DefaultDurationDays != models.DefaultDurationDays {
		t.Errorf("default duration = %d, want %d", settings.DefaultDurationDays, models.DefaultDurationDays)
	}

	settings.GracePeriods = 2
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.GracePeriods != 2 {
		t.Errorf("grace_periods = %d, want 2", got.GracePeriods)
	}
}
