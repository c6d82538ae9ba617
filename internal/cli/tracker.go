package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/steadyhq/steady/internal/lifecycle"
	"github.com/steadyhq/steady/internal/models"
)

type TrackerAddCmd struct {
	Name      string  `arg:"" help:"Tracker name."`
	Category  string  `short:"c" help:"Category (mind|body|social|growth)." default:"growth"`
	Type      string  `short:"t" help:"Measurement type (count|duration|rating)." default:"count"`
	Frequency string  `short:"f" help:"Target frequency (daily|weekly|monthly)." default:"daily"`
	Target    float64 `short:"T" help:"Target value per period." default:"1"`
	Unit      string  `short:"u" help:"Unit label (min, pages, ...)."`
	Days      int     `short:"d" help:"Challenge length in days (0 = default)."`
	Ongoing   bool    `help:"Create as an ongoing tracker with no end date."`
}

func (c *TrackerAddCmd) Validate() error {
	switch models.TrackerCategory(c.Category) {
	case models.CategoryMind, models.CategoryBody, models.CategorySocial, models.CategoryGrowth:
	default:
		return fmt.Errorf("invalid category: %s", c.Category)
	}
	switch models.TrackerType(c.Type) {
	case models.TypeCount, models.TypeDuration, models.TypeRating:
	default:
		return fmt.Errorf("invalid type: %s", c.Type)
	}
	switch models.TrackerFrequency(c.Frequency) {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
	default:
		return fmt.Errorf("invalid frequency: %s", c.Frequency)
	}
	return nil
}

func (c *TrackerAddCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.mgr.Create(lifecycle.CreateParams{
		UserID:       ctx.settings.UserID,
		Name:         c.Name,
		Category:     models.TrackerCategory(c.Category),
		Type:         models.TrackerType(c.Type),
		Frequency:    models.TrackerFrequency(c.Frequency),
		Target:       c.Target,
		Unit:         c.Unit,
		DurationDays: c.Days,
		IsOngoing:    c.Ongoing,
	})
	if err != nil {
		return err
	}

	if tracker.IsOngoing {
		fmt.Printf("Added ongoing tracker: %s (ID: %s)\n", tracker.Name, shortID(tracker.ID))
	} else {
		fmt.Printf("Added %d-day challenge: %s (ID: %s, ends %s)\n",
			tracker.DurationDays, tracker.Name, shortID(tracker.ID), tracker.EndDate.Format("2006-01-02"))
	}
	return nil
}

type TrackerListCmd struct {
	All      bool `help:"Include paused, completed, and archived trackers."`
	Expiring int  `help:"Show only challenges ending within N days." default:"-1"`
}

func (c *TrackerListCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}

	if c.Expiring >= 0 {
		views := ctx.repo.Expiring(c.Expiring)
		if len(views) == 0 {
			fmt.Printf("No challenges ending within %d days\n", c.Expiring)
			return nil
		}
		for _, v := range views {
			fmt.Printf("  %s - %d days left (%d%% through)\n", v.Name, v.DaysRemaining, v.Progress)
		}
		return nil
	}

	dash, err := ctx.repo.BuildDashboard()
	if err != nil {
		fmt.Println("Warning: store unreachable, showing last known data")
	}
	if len(dash.Views) == 0 {
		fmt.Println("No trackers found")
		return nil
	}

	fmt.Printf("Trackers for %s:\n", dash.Day)
	shown := 0
	for _, v := range dash.Views {
		active := v.State == lifecycle.StateActiveChallenge || v.State == lifecycle.StateActiveOngoing
		if !c.All && !active {
			continue
		}
		shown++

		done := " "
		if v.PeriodDone {
			done = "x"
		}
		fmt.Printf("  [%s] %s (%s, %s) - %s\n", done, v.Name, shortID(v.ID), stateLabel(v.State), formatStreak(v.Streak))
		if v.State == lifecycle.StateActiveChallenge {
			if v.Expired {
				fmt.Printf("      Challenge over - complete, extend, or convert it\n")
			} else {
				fmt.Printf("      %d days left (%d%% through), %d entries\n", v.DaysRemaining, v.Progress, v.EntryCount)
			}
		}
	}
	if shown == 0 {
		fmt.Println("  (none active; use --all to see the rest)")
	}
	if dash.Active > 0 {
		fmt.Printf("\n%d/%d done today\n", dash.DoneToday, dash.Active)
	}
	return nil
}

type TrackerDeleteCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
	Force   bool   `help:"Skip confirmation."`
}

func (c *TrackerDeleteCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}

	if !c.Force {
		var confirmed bool
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and its %d entries?", tracker.Name, tracker.EntryCount)).
			Description("This cannot be undone.").
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := ctx.mgr.Delete(tracker.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted tracker: %s\n", tracker.Name)
	return nil
}
