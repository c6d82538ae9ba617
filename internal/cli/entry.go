package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

type EntryDeleteCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
	Entry   string `arg:"" help:"Entry id."`
}

func (c *EntryDeleteCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}
	if err := ctx.rec.DeleteEntry(tracker.ID, c.Entry); err != nil {
		return err
	}
	fmt.Printf("Deleted entry %s from %s\n", shortID(c.Entry), tracker.Name)
	return nil
}

type EntryPurgeCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
	Force   bool   `help:"Skip confirmation."`
}

func (c *EntryPurgeCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}

	entries, err := ctx.Store.GetEntriesForTracker(tracker.ID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("%s has no entries\n", tracker.Name)
		return nil
	}

	if !c.Force {
		var confirmed bool
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Delete all %d entries for %q?", len(entries), tracker.Name)).
			Description("The tracker stays; its history does not.").
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled")
			return nil
		}
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if err := ctx.rec.BulkDelete(tracker.ID, ids); err != nil {
		return err
	}
	fmt.Printf("Deleted %d entries from %s\n", len(ids), tracker.Name)
	return nil
}

type EntryListCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
	Limit   int    `short:"l" help:"Most recent N entries." default:"14"`
}

func (c *EntryListCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}
	entries, err := ctx.Store.GetEntriesForTracker(tracker.ID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("%s has no entries\n", tracker.Name)
		return nil
	}

	start := 0
	if c.Limit > 0 && len(entries) > c.Limit {
		start = len(entries) - c.Limit
	}
	fmt.Printf("Entries for %s:\n", tracker.Name)
	for _, e := range entries[start:] {
		line := fmt.Sprintf("  %s  %g%s", e.Day, e.Value, tracker.Unit)
		if e.Note != "" {
			line += "  " + e.Note
		}
		if e.Mood != "" {
			line += fmt.Sprintf("  (mood: %s)", e.Mood)
		}
		fmt.Printf("%s  [%s]\n", line, shortID(e.ID))
	}
	return nil
}
