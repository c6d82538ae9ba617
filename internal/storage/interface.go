package storage

import (
	"errors"

	"github.com/steadyhq/steady/internal/models"
)

// ErrNotFound is returned when a tracker or entry does not exist.
var ErrNotFound = errors.New("not found")

// Settings holds the per-installation configuration rows.
type Settings struct {
	UserID              string `json:"user_id"`
	DefaultDurationDays int    `json:"default_duration_days"`
	GracePeriods        int    `json:"grace_periods"`
}

// Provider is the authoritative store for trackers and their entries.
//
// Entries are the ledger; the entry_count column on trackers is a derived
// index maintained through AddEntryCountDelta and repaired via
// CountEntries/SetEntryCount. DeleteEntriesBatch commits all-or-nothing.
// Subscribe delivers a signal after every committed mutation so readers
// can re-query; signals are coalesced, not buffered per-write.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Trackers
	AddTracker(models.Tracker) error
	GetTracker(id string) (models.Tracker, error)
	GetTrackersForUser(userID string) ([]models.Tracker, error)
	UpdateTracker(models.Tracker) error
	DeleteTracker(id string) error

	// Entries
	AddEntry(models.TrackerEntry) error
	GetEntry(id string) (models.TrackerEntry, error)
	GetEntriesForTracker(trackerID string) ([]models.TrackerEntry, error)
	GetEntriesOnDay(userID, day string) ([]models.TrackerEntry, error)
	DeleteEntry(id string) error
	DeleteEntriesBatch(ids []string) error

	// Denormalized entry counter
	AddEntryCountDelta(trackerID string, delta int) error
	CountEntries(trackerID string) (int, error)
	SetEntryCount(trackerID string, count int) error

	// Change notification
	Subscribe() (<-chan struct{}, func())

	// Utils
	GetConfigPath() string
}
