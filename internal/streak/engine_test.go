package streak

import (
	"testing"
	"time"

	"github.com/steadyhq/steady/internal/models"
)

func dayEntries(days ...string) []models.TrackerEntry {
	entries := make([]models.TrackerEntry, 0, len(days))
	for i, d := range days {
		entries = append(entries, models.TrackerEntry{
			ID:        string(rune('a' + i)),
			TrackerID: "t1",
			Day:       d,
			Value:     1,
		})
	}
	return entries
}

func dailyTracker() models.Tracker {
	return models.Tracker{ID: "t1", Frequency: models.FrequencyDaily, Target: 1}
}

func at(day string) time.Time {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return t.Add(12 * time.Hour)
}

func TestComputeEmptyHistory(t *testing.T) {
	en := NewEngine()

	res := en.Compute(dailyTracker(), nil, at("2024-01-04"))
	if res.Current != 0 || res.Longest != 0 {
		t.Errorf("empty history: got current=%d longest=%d, want 0/0", res.Current, res.Longest)
	}
	if en.PeriodComplete(dailyTracker(), nil, at("2024-01-04")) {
		t.Error("empty history should never be period-complete")
	}
}

func TestComputeDailyGracePeriod(t *testing.T) {
	// Entries on Jan 1-3, "today" is Jan 4 with no entry yet: yesterday
	// anchors the streak.
	en := NewEngine()
	entries := dayEntries("2024-01-01", "2024-01-02", "2024-01-03")

	res := en.Compute(dailyTracker(), entries, at("2024-01-04"))
	if res.Current != 3 {
		t.Errorf("current streak = %d, want 3", res.Current)
	}
	if res.Longest != 3 {
		t.Errorf("longest streak = %d, want 3", res.Longest)
	}
}

func TestComputeDailyStreakBroken(t *testing.T) {
	// Last entry two days ago: outside the grace window.
	en := NewEngine()
	entries := dayEntries("2024-01-01", "2024-01-02")

	res := en.Compute(dailyTracker(), entries, at("2024-01-04"))
	if res.Current != 0 {
		t.Errorf("current streak = %d, want 0", res.Current)
	}
	if res.Longest != 2 {
		t.Errorf("longest streak = %d, want 2", res.Longest)
	}
}

func TestComputeDailyTodayAnchors(t *testing.T) {
	en := NewEngine()
	entries := dayEntries("2024-01-02", "2024-01-03", "2024-01-04")

	res := en.Compute(dailyTracker(), entries, at("2024-01-04"))
	if res.Current != 3 {
		t.Errorf("current streak = %d, want 3", res.Current)
	}
}

func TestComputeLongestIgnoresGaps(t *testing.T) {
	en := NewEngine()
	entries := dayEntries("2024-01-01", "2024-01-10")

	res := en.Compute(dailyTracker(), entries, at("2024-01-10"))
	if res.Longest != 1 {
		t.Errorf("longest streak = %d, want 1", res.Longest)
	}
}

func TestComputeLongestAtLeastCurrent(t *testing.T) {
	en := NewEngine()
	sets := [][]models.TrackerEntry{
		nil,
		dayEntries("2024-01-04"),
		dayEntries("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"),
		dayEntries("2023-12-25", "2023-12-26", "2024-01-03", "2024-01-04"),
		dayEntries("2024-01-01", "2024-01-03"),
	}

	for i, entries := range sets {
		res := en.Compute(dailyTracker(), entries, at("2024-01-04"))
		if res.Longest < res.Current {
			t.Errorf("set %d: longest (%d) < current (%d)", i, res.Longest, res.Current)
		}
	}
}

func TestComputeMultipleEntriesSameDay(t *testing.T) {
	en := NewEngine()
	entries := append(dayEntries("2024-01-03", "2024-01-04"), models.TrackerEntry{
		ID: "dup", TrackerID: "t1", Day: "2024-01-04", Value: 2,
	})

	res := en.Compute(dailyTracker(), entries, at("2024-01-04"))
	if res.Current != 2 {
		t.Errorf("duplicate days should not inflate the streak: got %d, want 2", res.Current)
	}
}

func TestComputeTimestampDatesNormalized(t *testing.T) {
	en := NewEngine()
	entries := []models.TrackerEntry{
		{ID: "a", TrackerID: "t1", Day: "2024-01-03T18:30:00Z", Value: 1},
		{ID: "b", TrackerID: "t1", Day: "2024-01-04", Value: 1},
	}

	res := en.Compute(dailyTracker(), entries, at("2024-01-04"))
	if res.Current != 2 {
		t.Errorf("timestamp day should normalize to its calendar day: got current=%d, want 2", res.Current)
	}
}

func TestComputeUnknownFrequencyDefaultsToDaily(t *testing.T) {
	en := NewEngine()
	tracker := models.Tracker{ID: "t1", Frequency: "fortnightly", Target: 1}
	entries := dayEntries("2024-01-03", "2024-01-04")

	res := en.Compute(tracker, entries, at("2024-01-04"))
	if res.Current != 2 {
		t.Errorf("unknown frequency should use daily semantics: got %d, want 2", res.Current)
	}
}

func TestComputeWeeklyStreak(t *testing.T) {
	en := NewEngine()
	tracker := models.Tracker{ID: "t1", Frequency: models.FrequencyWeekly, Target: 1}
	// One entry in each of three consecutive ISO weeks, none this week yet.
	// Now = Tuesday 2024-01-23; last week (Jan 15-21) anchors via grace.
	entries := dayEntries("2024-01-03", "2024-01-10", "2024-01-17")

	res := en.Compute(tracker, entries, at("2024-01-23"))
	if res.Current != 3 {
		t.Errorf("weekly current streak = %d, want 3", res.Current)
	}
	if res.Longest != 3 {
		t.Errorf("weekly longest streak = %d, want 3", res.Longest)
	}
}

func TestComputeMonthlyYearRollover(t *testing.T) {
	en := NewEngine()
	tracker := models.Tracker{ID: "t1", Frequency: models.FrequencyMonthly, Target: 1}
	entries := dayEntries("2023-11-15", "2023-12-02", "2024-01-20")

	res := en.Compute(tracker, entries, at("2024-01-25"))
	if res.Current != 3 {
		t.Errorf("monthly streak across year rollover = %d, want 3", res.Current)
	}
}

func TestPeriodCompleteDaily(t *testing.T) {
	en := NewEngine()
	tracker := dailyTracker()
	tracker.Target = 3

	entries := []models.TrackerEntry{
		{ID: "a", TrackerID: "t1", Day: "2024-01-04", Value: 2},
		{ID: "b", TrackerID: "t1", Day: "2024-01-04", Value: 1},
		{ID: "c", TrackerID: "t1", Day: "2024-01-03", Value: 5}, // previous day, excluded
	}

	if !en.PeriodComplete(tracker, entries, at("2024-01-04")) {
		t.Error("sum 3 >= target 3 should be complete")
	}

	tracker.Target = 4
	if en.PeriodComplete(tracker, entries, at("2024-01-04")) {
		t.Error("sum 3 < target 4 should be incomplete")
	}
}

func TestPeriodCompleteWeekly(t *testing.T) {
	// Weekly target 3, value-1 entries on Mon/Wed/Fri of the current ISO
	// week sum to exactly the target.
	en := NewEngine()
	tracker := models.Tracker{ID: "t1", Frequency: models.FrequencyWeekly, Target: 3}
	entries := dayEntries("2024-01-15", "2024-01-17", "2024-01-19")

	if !en.PeriodComplete(tracker, entries, at("2024-01-20")) {
		t.Error("three unit entries in the current ISO week should meet target 3")
	}
	if en.PeriodComplete(tracker, entries, at("2024-01-22")) {
		t.Error("entries from last ISO week should not complete this week")
	}
}

func TestPeriodCompleteZeroValueStillHits(t *testing.T) {
	// A zero-value entry counts as a hit for streaks but contributes
	// nothing to the period sum.
	en := NewEngine()
	tracker := dailyTracker()
	entries := []models.TrackerEntry{{ID: "a", TrackerID: "t1", Day: "2024-01-04", Value: 0}}

	res := en.Compute(tracker, entries, at("2024-01-04"))
	if res.Current != 1 {
		t.Errorf("zero-value entry should still count as a hit: got %d", res.Current)
	}
	if en.PeriodComplete(tracker, entries, at("2024-01-04")) {
		t.Error("zero sum should not meet target 1")
	}
}
