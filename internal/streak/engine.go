// Package streak derives streaks and period completion from raw entry
// history. Everything here is pure: callers pass the tracker, its entries,
// and the current time, and nothing is read or written anywhere else.
package streak

import (
	"sort"
	"time"

	"github.com/steadyhq/steady/internal/dateutil"
	"github.com/steadyhq/steady/internal/models"
)

// Result holds the derived streak values for one tracker.
type Result struct {
	Current int
	Longest int
}

// Engine computes frequency-aware streaks. GracePeriods is how many
// immediately-preceding periods may anchor the current streak when the
// current period has no entry yet ("today isn't over"). The product
// default is one period.
type Engine struct {
	GracePeriods int
}

func NewEngine() *Engine {
	return &Engine{GracePeriods: 1}
}

// periodIndex reduces a day to a serial period number for the tracker's
// frequency. Adjacent periods differ by exactly 1. Unknown frequencies get
// daily semantics.
func periodIndex(freq models.TrackerFrequency, day string) (int, error) {
	switch freq {
	case models.FrequencyWeekly:
		return dateutil.WeekIndex(day)
	case models.FrequencyMonthly:
		return dateutil.MonthIndex(day)
	default:
		return dateutil.DayIndex(day)
	}
}

// hitPeriods reduces entries to the set of period indexes containing at
// least one entry. Entries with unparseable dates are skipped; an entry
// with zero value still counts as a hit.
func hitPeriods(freq models.TrackerFrequency, entries []models.TrackerEntry) map[int]bool {
	hits := make(map[int]bool, len(entries))
	for _, e := range entries {
		day, err := dateutil.NormalizeDay(e.Day)
		if err != nil {
			continue
		}
		idx, err := periodIndex(freq, day)
		if err != nil {
			continue
		}
		hits[idx] = true
	}
	return hits
}

// Compute returns the current and longest streak for the tracker.
//
// The current streak walks backward from the current period. If the
// current period has no hit, up to GracePeriods earlier periods may anchor
// the walk instead; beyond that the streak is 0. The longest streak is the
// longest run of consecutive hit-periods anywhere in history.
func (en *Engine) Compute(tracker models.Tracker, entries []models.TrackerEntry, now time.Time) Result {
	hits := hitPeriods(tracker.Frequency, entries)
	if len(hits) == 0 {
		return Result{}
	}

	nowIdx, err := periodIndex(tracker.Frequency, dateutil.Day(now))
	if err != nil {
		return Result{}
	}

	// Current streak: find the anchor period, then count backward.
	current := 0
	anchor, ok := nowIdx, hits[nowIdx]
	if !ok {
		for g := 1; g <= en.GracePeriods; g++ {
			if hits[nowIdx-g] {
				anchor, ok = nowIdx-g, true
				break
			}
		}
	}
	if ok {
		for i := anchor; hits[i]; i-- {
			current++
		}
	}

	// Longest streak: scan distinct hit-periods in order.
	idxs := make([]int, 0, len(hits))
	for i := range hits {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	longest, run := 1, 1
	for i := 1; i < len(idxs); i++ {
		if idxs[i] == idxs[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if current > longest {
		longest = current
	}

	return Result{Current: current, Longest: longest}
}

// PeriodComplete reports whether the summed entry values inside the
// current period meet the tracker's target. Values are summed as-is;
// missing values are zero and never block the hit itself.
func (en *Engine) PeriodComplete(tracker models.Tracker, entries []models.TrackerEntry, now time.Time) bool {
	if len(entries) == 0 {
		return false
	}

	nowIdx, err := periodIndex(tracker.Frequency, dateutil.Day(now))
	if err != nil {
		return false
	}

	var sum float64
	for _, e := range entries {
		day, err := dateutil.NormalizeDay(e.Day)
		if err != nil {
			continue
		}
		idx, err := periodIndex(tracker.Frequency, day)
		if err != nil || idx != nowIdx {
			continue
		}
		sum += e.Value
	}

	return sum >= tracker.Target
}
