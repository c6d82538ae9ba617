package models

import "time"

// TrackerEntry is one logged occurrence of progress against a tracker.
// Day is calendar-day granularity (YYYY-MM-DD), never a timestamp; several
// entries may share the same day and period aggregation sums their values.
// Entries are immutable once logged except for deletion.
type TrackerEntry struct {
	ID        string    `json:"id"`
	TrackerID string    `json:"tracker_id"`
	UserID    string    `json:"user_id"`
	Day       string    `json:"day"` // YYYY-MM-DD format
	Value     float64   `json:"value"`
	Note      string    `json:"note,omitempty"`
	Mood      string    `json:"mood,omitempty"`
	Energy    int       `json:"energy,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
