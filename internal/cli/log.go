package cli

import (
	"fmt"

	"github.com/steadyhq/steady/internal/reconcile"
	"github.com/steadyhq/steady/internal/streak"
)

type LogCmd struct {
	Tracker string  `arg:"" help:"Tracker id or name."`
	Value   float64 `arg:"" optional:"" help:"Value to log." default:"1"`
	Day     string  `help:"Day to log against (YYYY-MM-DD, default today)."`
	Note    string  `short:"n" help:"Optional note."`
	Mood    string  `short:"m" help:"Mood at the time (e.g. good, flat, rough)."`
	Energy  int     `short:"e" help:"Energy level 1-5."`
}

func (c *LogCmd) Validate() error {
	if c.Energy < 0 || c.Energy > 5 {
		return fmt.Errorf("energy must be between 1 and 5")
	}
	return nil
}

func (c *LogCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}

	entry, err := ctx.rec.LogEntry(reconcile.EntryParams{
		TrackerID: tracker.ID,
		UserID:    ctx.settings.UserID,
		Day:       c.Day,
		Value:     c.Value,
		Note:      c.Note,
		Mood:      c.Mood,
		Energy:    c.Energy,
	})
	if err != nil {
		return err
	}

	unit := tracker.Unit
	if unit == "" {
		unit = "x"
	}
	fmt.Printf("Logged %g%s for %s on %s (entry %s)\n", entry.Value, unit, tracker.Name, entry.Day, shortID(entry.ID))

	entries, err := ctx.Store.GetEntriesForTracker(tracker.ID)
	if err == nil {
		result := streak.NewEngine().Compute(tracker, entries, entry.CreatedAt)
		if result.Current > 1 {
			fmt.Printf("  %s\n", formatStreak(result))
		}
	}
	return nil
}
