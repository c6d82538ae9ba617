package cli

import (
	"fmt"

	"github.com/steadyhq/steady/internal/reconcile"
)

type AuditCmd struct {
	Tracker string `arg:"" optional:"" help:"Tracker id or name (omit with --all)."`
	All     bool   `help:"Audit every tracker."`
}

func (c *AuditCmd) Validate() error {
	if c.Tracker == "" && !c.All {
		return fmt.Errorf("pass a tracker or --all")
	}
	return nil
}

func (c *AuditCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}

	var results []reconcile.AuditResult
	if c.All {
		all, err := ctx.rec.AuditAll(ctx.settings.UserID)
		if err != nil {
			return err
		}
		results = all
	} else {
		tracker, err := ctx.findTracker(c.Tracker)
		if err != nil {
			return err
		}
		res, err := ctx.rec.Audit(tracker.ID)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	repaired := 0
	for _, res := range results {
		if res.WasCorrect {
			fmt.Printf("✓ %s: count %d OK\n", shortID(res.TrackerID), res.ActualCount)
			continue
		}
		repaired++
		fmt.Printf("✗ %s: count was %d, actually %d - repaired\n", shortID(res.TrackerID), res.OldCount, res.ActualCount)
	}
	if repaired == 0 {
		fmt.Println("All counters consistent")
	} else {
		fmt.Printf("Repaired %d counter(s)\n", repaired)
	}
	return nil
}
