package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/steadyhq/steady/internal/models"
	"github.com/steadyhq/steady/internal/reconcile"
	"github.com/steadyhq/steady/internal/storage"
)

var (
	ErrOngoingExtend = errors.New("ongoing trackers have no end date to extend")
	ErrNotOngoing    = errors.New("tracker is not ongoing")
	ErrNotCompleted  = errors.New("tracker is not completed")
	ErrArchived      = errors.New("tracker is archived")
	ErrEmptyName     = errors.New("tracker name is required")
)

// Manager owns tracker lifecycle transitions. Every mutation stamps
// UpdatedAt and persists through the store, which signals subscribers.
type Manager struct {
	store storage.Provider
	rec   *reconcile.Reconciler
	now   func() time.Time
}

func NewManager(store storage.Provider, rec *reconcile.Reconciler) *Manager {
	return &Manager{store: store, rec: rec, now: time.Now}
}

// CreateParams holds the user-supplied fields of a new tracker. Zero
// values fall back to sensible defaults (count type, daily frequency,
// target 1, the standard challenge duration).
type CreateParams struct {
	UserID       string
	Name         string
	Category     models.TrackerCategory
	Type         models.TrackerType
	Frequency    models.TrackerFrequency
	Target       float64
	Unit         string
	DurationDays int
	IsOngoing    bool
}

func (m *Manager) Create(p CreateParams) (models.Tracker, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.Tracker{}, ErrEmptyName
	}
	if p.Type == "" {
		p.Type = models.TypeCount
	}
	if p.Frequency == "" {
		p.Frequency = models.FrequencyDaily
	}
	if p.Target <= 0 {
		p.Target = 1
	}
	if p.DurationDays <= 0 {
		p.DurationDays = models.DefaultDurationDays
	}

	now := m.now()
	tracker := models.Tracker{
		ID:           uuid.New().String(),
		UserID:       p.UserID,
		Name:         strings.TrimSpace(p.Name),
		Category:     p.Category,
		Type:         p.Type,
		Frequency:    p.Frequency,
		Target:       p.Target,
		Unit:         p.Unit,
		DurationDays: p.DurationDays,
		StartDate:    now,
		EndDate:      now.AddDate(0, 0, p.DurationDays),
		IsOngoing:    p.IsOngoing,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.IsOngoing {
		// No expiry; EndDate merely records when the mode was set.
		tracker.EndDate = now
	}
	if err := m.store.AddTracker(tracker); err != nil {
		return models.Tracker{}, fmt.Errorf("creating tracker: %w", err)
	}
	return tracker, nil
}

// Extend pushes a challenge's end date out by the given number of days
// (the standard duration when days <= 0) and reopens it if it was
// completed.
func (m *Manager) Extend(trackerID string, days int) (models.Tracker, error) {
	if days <= 0 {
		days = models.DefaultDurationDays
	}
	return m.update(trackerID, func(t *models.Tracker) error {
		if t.IsOngoing {
			return ErrOngoingExtend
		}
		t.EndDate = t.EndDate.AddDate(0, 0, days)
		t.DurationDays += days
		t.TimesExtended++
		t.IsCompleted = false
		t.IsActive = true
		return nil
	})
}

// ConvertToOngoing lifts a challenge's end date entirely. Any completed
// flag is cleared since an ongoing tracker has nothing to finish.
func (m *Manager) ConvertToOngoing(trackerID string) (models.Tracker, error) {
	return m.update(trackerID, func(t *models.Tracker) error {
		t.IsOngoing = true
		t.IsCompleted = false
		t.IsActive = true
		return nil
	})
}

// ConvertToChallenge turns an ongoing tracker back into a bounded
// challenge starting now.
func (m *Manager) ConvertToChallenge(trackerID string, durationDays int) (models.Tracker, error) {
	if durationDays <= 0 {
		durationDays = models.DefaultDurationDays
	}
	return m.update(trackerID, func(t *models.Tracker) error {
		if !t.IsOngoing {
			return ErrNotOngoing
		}
		now := m.now()
		t.IsOngoing = false
		t.StartDate = now
		t.EndDate = now.AddDate(0, 0, durationDays)
		t.DurationDays = durationDays
		t.TimesExtended = 0
		t.IsCompleted = false
		t.IsActive = true
		return nil
	})
}

// Complete marks a challenge finished and freezes its end date at the
// completion moment.
func (m *Manager) Complete(trackerID string) (models.Tracker, error) {
	return m.update(trackerID, func(t *models.Tracker) error {
		t.IsCompleted = true
		t.IsActive = false
		t.EndDate = m.now()
		return nil
	})
}

// Restart reopens a completed tracker as a fresh challenge. History is
// kept; only the challenge window resets.
func (m *Manager) Restart(trackerID string, durationDays int) (models.Tracker, error) {
	if durationDays <= 0 {
		durationDays = models.DefaultDurationDays
	}
	return m.update(trackerID, func(t *models.Tracker) error {
		if !t.IsCompleted {
			return ErrNotCompleted
		}
		now := m.now()
		t.StartDate = now
		t.EndDate = now.AddDate(0, 0, durationDays)
		t.DurationDays = durationDays
		t.TimesExtended = 0
		t.IsCompleted = false
		t.IsActive = true
		return nil
	})
}

func (m *Manager) Pause(trackerID string) (models.Tracker, error) {
	return m.update(trackerID, func(t *models.Tracker) error {
		if t.ArchivedAt != nil {
			return ErrArchived
		}
		t.IsActive = false
		return nil
	})
}

func (m *Manager) Resume(trackerID string) (models.Tracker, error) {
	return m.update(trackerID, func(t *models.Tracker) error {
		if t.ArchivedAt != nil {
			return ErrArchived
		}
		t.IsActive = true
		return nil
	})
}

// Archive shelves a tracker. Archived trackers keep their history but
// drop out of the active views until unarchived.
func (m *Manager) Archive(trackerID string) (models.Tracker, error) {
	return m.update(trackerID, func(t *models.Tracker) error {
		now := m.now()
		t.ArchivedAt = &now
		t.IsActive = false
		return nil
	})
}

func (m *Manager) Unarchive(trackerID string) (models.Tracker, error) {
	return m.update(trackerID, func(t *models.Tracker) error {
		t.ArchivedAt = nil
		t.IsActive = true
		return nil
	})
}

// Delete removes a tracker and all of its entries. Entries go first,
// through the reconciler's verified bulk delete, so a failure leaves the
// tracker (and its counter) intact for a retry.
func (m *Manager) Delete(trackerID string) error {
	entries, err := m.store.GetEntriesForTracker(trackerID)
	if err != nil {
		return fmt.Errorf("deleting tracker: %w", err)
	}
	if len(entries) > 0 {
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		if err := m.rec.BulkDelete(trackerID, ids); err != nil {
			return fmt.Errorf("deleting tracker: %w", err)
		}
	}
	if err := m.store.DeleteTracker(trackerID); err != nil {
		return fmt.Errorf("deleting tracker: %w", err)
	}
	return nil
}

func (m *Manager) update(trackerID string, fn func(*models.Tracker) error) (models.Tracker, error) {
	tracker, err := m.store.GetTracker(trackerID)
	if err != nil {
		return models.Tracker{}, fmt.Errorf("loading tracker: %w", err)
	}
	if err := fn(&tracker); err != nil {
		return models.Tracker{}, err
	}
	tracker.UpdatedAt = m.now()
	if err := m.store.UpdateTracker(tracker); err != nil {
		return models.Tracker{}, fmt.Errorf("saving tracker: %w", err)
	}
	return tracker, nil
}
