package reconcile

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/steadyhq/steady/internal/dateutil"
	"github.com/steadyhq/steady/internal/logger"
	"github.com/steadyhq/steady/internal/models"
	"github.com/steadyhq/steady/internal/storage"
)

var (
	ErrTrackerMismatch = errors.New("entry does not belong to tracker")
	ErrNotOwner        = errors.New("tracker does not belong to user")
)

// Reconciler keeps each tracker's denormalized entry_count in step with
// the entries actually on record. Writes go through it so the counter is
// adjusted alongside the entry mutation; Audit repairs any drift.
type Reconciler struct {
	store storage.Provider
	now   func() time.Time
}

func New(store storage.Provider) *Reconciler {
	return &Reconciler{store: store, now: time.Now}
}

// EntryParams carries the caller-supplied fields of a new entry. Day
// accepts any format dateutil.NormalizeDay understands; empty means
// today.
type EntryParams struct {
	TrackerID string
	UserID    string
	Day       string
	Value     float64
	Note      string
	Mood      string
	Energy    int
}

// LogEntry validates tracker ownership, records the entry, and bumps the
// tracker's counter. The counter bump is best effort: the entry is
// already committed, so a failed bump is logged and left for Audit
// rather than surfaced as an error.
func (r *Reconciler) LogEntry(p EntryParams) (models.TrackerEntry, error) {
	tracker, err := r.store.GetTracker(p.TrackerID)
	if err != nil {
		return models.TrackerEntry{}, fmt.Errorf("logging entry: %w", err)
	}
	if tracker.UserID != p.UserID {
		return models.TrackerEntry{}, ErrNotOwner
	}

	day := p.Day
	if day == "" {
		day = dateutil.Day(r.now())
	} else {
		day, err = dateutil.NormalizeDay(day)
		if err != nil {
			return models.TrackerEntry{}, fmt.Errorf("logging entry: %w", err)
		}
	}

	entry := models.TrackerEntry{
		ID:        uuid.New().String(),
		TrackerID: p.TrackerID,
		UserID:    p.UserID,
		Day:       day,
		Value:     p.Value,
		Note:      p.Note,
		Mood:      p.Mood,
		Energy:    p.Energy,
		CreatedAt: r.now(),
	}
	if err := r.store.AddEntry(entry); err != nil {
		return models.TrackerEntry{}, fmt.Errorf("logging entry: %w", err)
	}

	if err := r.store.AddEntryCountDelta(p.TrackerID, 1); err != nil {
		logger.Warn("entry count increment failed, audit will repair", "tracker", p.TrackerID, "err", err)
	}
	return entry, nil
}

// DeleteEntry removes a single entry after verifying it belongs to the
// given tracker, then decrements the counter.
func (r *Reconciler) DeleteEntry(trackerID, entryID string) error {
	entry, err := r.store.GetEntry(entryID)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	if entry.TrackerID != trackerID {
		return ErrTrackerMismatch
	}
	if err := r.store.DeleteEntry(entryID); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	if err := r.store.AddEntryCountDelta(trackerID, -1); err != nil {
		logger.Warn("entry count decrement failed, audit will repair", "tracker", trackerID, "err", err)
	}
	return nil
}

// BulkDelete removes a set of entries in one shot. Every id is verified
// against the tracker before anything is deleted; one bad id rejects the
// whole batch. The counter is adjusted by the verified count only.
func (r *Reconciler) BulkDelete(trackerID string, entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	for _, id := range entryIDs {
		entry, err := r.store.GetEntry(id)
		if err != nil {
			return fmt.Errorf("bulk delete: entry %s: %w", id, err)
		}
		if entry.TrackerID != trackerID {
			return fmt.Errorf("bulk delete: entry %s: %w", id, ErrTrackerMismatch)
		}
	}
	if err := r.store.DeleteEntriesBatch(entryIDs); err != nil {
		return fmt.Errorf("bulk delete: %w", err)
	}
	if err := r.store.AddEntryCountDelta(trackerID, -len(entryIDs)); err != nil {
		logger.Warn("entry count adjustment failed, audit will repair", "tracker", trackerID, "err", err)
	}
	return nil
}

// AuditResult reports one tracker's counter check.
type AuditResult struct {
	TrackerID   string
	WasCorrect  bool
	OldCount    int
	ActualCount int
	Fixed       bool
}

// Audit recounts a tracker's entries and repairs the stored counter if
// it has drifted.
func (r *Reconciler) Audit(trackerID string) (AuditResult, error) {
	tracker, err := r.store.GetTracker(trackerID)
	if err != nil {
		return AuditResult{}, fmt.Errorf("auditing tracker: %w", err)
	}
	actual, err := r.store.CountEntries(trackerID)
	if err != nil {
		return AuditResult{}, fmt.Errorf("auditing tracker: %w", err)
	}
	res := AuditResult{
		TrackerID:   trackerID,
		WasCorrect:  tracker.EntryCount == actual,
		OldCount:    tracker.EntryCount,
		ActualCount: actual,
	}
	if !res.WasCorrect {
		if err := r.store.SetEntryCount(trackerID, actual); err != nil {
			return res, fmt.Errorf("repairing entry count: %w", err)
		}
		res.Fixed = true
		logger.Info("repaired entry count", "tracker", trackerID, "old", res.OldCount, "actual", actual)
	}
	return res, nil
}

// AuditAll audits every tracker owned by the user.
func (r *Reconciler) AuditAll(userID string) ([]AuditResult, error) {
	trackers, err := r.store.GetTrackersForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("auditing trackers: %w", err)
	}
	results := make([]AuditResult, 0, len(trackers))
	for _, t := range trackers {
		res, err := r.Audit(t.ID)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
