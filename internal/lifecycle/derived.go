package lifecycle

import (
	"math"
	"time"

	"github.com/steadyhq/steady/internal/models"
)

// State is the conceptual lifecycle position of a tracker, derived from
// its stored flags. Archival wins over everything else; completion over
// pause; pause over the active modes.
type State string

const (
	StateActiveChallenge State = "active-challenge"
	StateActiveOngoing   State = "active-ongoing"
	StatePaused          State = "paused"
	StateCompleted       State = "completed"
	StateArchived        State = "archived"
)

func StateOf(t models.Tracker) State {
	switch {
	case t.ArchivedAt != nil:
		return StateArchived
	case t.IsCompleted:
		return StateCompleted
	case !t.IsActive:
		return StatePaused
	case t.IsOngoing:
		return StateActiveOngoing
	default:
		return StateActiveChallenge
	}
}

// IsExpired reports whether a challenge ran past its end date without
// being completed. Ongoing trackers never expire.
func IsExpired(t models.Tracker, now time.Time) bool {
	if t.IsOngoing || t.IsCompleted {
		return false
	}
	return now.After(t.EndDate)
}

// DaysRemaining returns how many days are left in a challenge, floored at
// 0 once the end date passes. Ongoing trackers return the -1 sentinel.
func DaysRemaining(t models.Tracker, now time.Time) int {
	if t.IsOngoing {
		return -1
	}
	days := int(math.Ceil(t.EndDate.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// ProgressPercent returns time-based completion of a challenge, clamped
// to [0,100]. Ongoing trackers have no time-based progress and return 0.
func ProgressPercent(t models.Tracker, now time.Time) int {
	if t.IsOngoing || t.DurationDays <= 0 {
		return 0
	}
	completed := t.DurationDays - DaysRemaining(t, now)
	pct := int(math.Round(100 * float64(completed) / float64(t.DurationDays)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
