package models

import "time"

type TrackerCategory string

const (
	CategoryMind   TrackerCategory = "mind"
	CategoryBody   TrackerCategory = "body"
	CategorySocial TrackerCategory = "social"
	CategoryGrowth TrackerCategory = "growth"
)

type TrackerType string

const (
	TypeCount    TrackerType = "count"
	TypeDuration TrackerType = "duration"
	TypeRating   TrackerType = "rating"
)

type TrackerFrequency string

const (
	FrequencyDaily   TrackerFrequency = "daily"
	FrequencyWeekly  TrackerFrequency = "weekly"
	FrequencyMonthly TrackerFrequency = "monthly"
)

// DefaultDurationDays is the standard challenge length. Extensions and
// restarts use the same increment unless the user asks for another.
const DefaultDurationDays = 28

// Tracker is a recurring habit goal. A tracker is either a bounded
// "challenge" with a fixed end date, or "ongoing" with no expiry
// (IsOngoing set, EndDate ignored).
//
// EntryCount is denormalized from the tracker_entries collection. It may
// drift after a partial failure and is repaired by reconcile.Audit; never
// treat it as exact at read time.
type Tracker struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	Name          string           `json:"name"`
	Category      TrackerCategory  `json:"category"`
	Type          TrackerType      `json:"type"`
	Frequency     TrackerFrequency `json:"frequency"`
	Target        float64          `json:"target"`
	Unit          string           `json:"unit"`
	DurationDays  int              `json:"duration_days"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	IsOngoing     bool             `json:"is_ongoing"`
	TimesExtended int              `json:"times_extended"`
	IsActive      bool             `json:"is_active"`
	IsCompleted   bool             `json:"is_completed"`
	ArchivedAt    *time.Time       `json:"archived_at,omitempty"`
	EntryCount    int              `json:"entry_count"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}
