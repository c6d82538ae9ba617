package cli

import (
	"fmt"

	"github.com/steadyhq/steady/internal/models"
)

type TrackerExtendCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
	Days    int    `short:"d" help:"Days to add (0 = default length)."`
}

func (c *TrackerExtendCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}
	updated, err := ctx.mgr.Extend(tracker.ID, c.Days)
	if err != nil {
		return err
	}
	fmt.Printf("Extended %s to %s (extension #%d)\n",
		updated.Name, updated.EndDate.Format("2006-01-02"), updated.TimesExtended)
	return nil
}

type TrackerCompleteCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
}

func (c *TrackerCompleteCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}
	updated, err := ctx.mgr.Complete(tracker.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Completed %s after %d entries. Nice work.\n", updated.Name, updated.EntryCount)
	return nil
}

type TrackerRestartCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
	Days    int    `short:"d" help:"New challenge length (0 = default)."`
}

func (c *TrackerRestartCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}
	updated, err := ctx.mgr.Restart(tracker.ID, c.Days)
	if err != nil {
		return err
	}
	fmt.Printf("Restarted %s as a %d-day challenge ending %s\n",
		updated.Name, updated.DurationDays, updated.EndDate.Format("2006-01-02"))
	return nil
}

type TrackerConvertCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
	Ongoing bool   `xor:"mode" help:"Convert to an ongoing tracker."`
	Days    int    `xor:"mode" short:"d" help:"Convert to a challenge of N days."`
}

func (c *TrackerConvertCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}

	var updated models.Tracker
	if c.Ongoing {
		updated, err = ctx.mgr.ConvertToOngoing(tracker.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s is now ongoing with no end date\n", updated.Name)
		return nil
	}

	updated, err = ctx.mgr.ConvertToChallenge(tracker.ID, c.Days)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now a %d-day challenge ending %s\n",
		updated.Name, updated.DurationDays, updated.EndDate.Format("2006-01-02"))
	return nil
}

type TrackerPauseCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
}

func (c *TrackerPauseCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}
	updated, err := ctx.mgr.Pause(tracker.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Paused %s\n", updated.Name)
	return nil
}

type TrackerResumeCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
}

func (c *TrackerResumeCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}
	updated, err := ctx.mgr.Resume(tracker.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Resumed %s\n", updated.Name)
	return nil
}

type TrackerArchiveCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
}

func (c *TrackerArchiveCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}
	updated, err := ctx.mgr.Archive(tracker.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Archived %s (history kept)\n", updated.Name)
	return nil
}

type TrackerUnarchiveCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
}

func (c *TrackerUnarchiveCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}
	updated, err := ctx.mgr.Unarchive(tracker.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Restored %s from the archive\n", updated.Name)
	return nil
}
