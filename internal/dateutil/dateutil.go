// Package dateutil is the single place where dates are reduced to calendar
// days and frequency periods. Streak computation, period completion, and
// cache keys all go through these helpers so day boundaries never disagree
// between subsystems.
package dateutil

import (
	"fmt"
	"time"
)

// DayFormat is the canonical calendar-day layout used everywhere.
const DayFormat = "2006-01-02"

// Day reduces a timestamp to its calendar day in the timestamp's location.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}

// NormalizeDay accepts a day string or a full timestamp and returns the
// day-only component. Entries arriving with timestamp dates must pass
// through here before any comparison.
func NormalizeDay(s string) (string, error) {
	if _, err := time.Parse(DayFormat, s); err == nil {
		return s, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DayFormat), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", s)
}

// ParseDay parses a canonical day string at midnight UTC.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t, nil
}

// DayIndex maps a day to a serial day number. Consecutive calendar days
// differ by exactly 1.
func DayIndex(day string) (int, error) {
	t, err := ParseDay(day)
	if err != nil {
		return 0, err
	}
	return int(t.Unix() / 86400), nil
}

// WeekIndex maps a day to a serial ISO week number (Monday-anchored).
// Consecutive weeks differ by exactly 1, across year rollover.
func WeekIndex(day string) (int, error) {
	t, err := ParseDay(day)
	if err != nil {
		return 0, err
	}
	di := int(t.Unix() / 86400)
	// Serial index of the Monday that starts this ISO week.
	monOffset := (int(t.Weekday()) + 6) % 7
	return (di - monOffset) / 7, nil
}

// MonthIndex maps a day to a serial month number. Consecutive calendar
// months differ by exactly 1, across year rollover.
func MonthIndex(day string) (int, error) {
	t, err := ParseDay(day)
	if err != nil {
		return 0, err
	}
	return t.Year()*12 + int(t.Month()) - 1, nil
}
