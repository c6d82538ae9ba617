package models

import "time"

// SuggestionBundle is the server-generated coaching content for one tracker
// on one calendar day. GeneratedAt is the authoritative generation timestamp
// recorded when the bundle was produced; a locally cached bundle is only
// trusted while that timestamp still matches the server's.
type SuggestionBundle struct {
	TrackerID         string    `json:"tracker_id"`
	Day               string    `json:"day"` // YYYY-MM-DD format
	TodayAction       string    `json:"today_action"`
	Suggestions       []string  `json:"suggestions"`
	MotivationalQuote string    `json:"motivational_quote"`
	GeneratedAt       time.Time `json:"generated_at"`
	CachedAt          time.Time `json:"cached_at,omitempty"`
}
