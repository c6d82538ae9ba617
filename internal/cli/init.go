package cli

import (
	"fmt"

	"github.com/steadyhq/steady/internal/lifecycle"
	"github.com/steadyhq/steady/internal/models"
	"github.com/steadyhq/steady/internal/reconcile"
)

type InitCmd struct {
	Starters bool `help:"Seed a starter tracker for each category."`
}

// starterTrackers mirror the default set a fresh account gets: one habit
// per category, all standard-length challenges.
var starterTrackers = []lifecycle.CreateParams{
	{Name: "Daily meditation", Category: models.CategoryMind, Type: models.TypeDuration, Target: 10, Unit: "min"},
	{Name: "Move your body", Category: models.CategoryBody, Type: models.TypeDuration, Target: 30, Unit: "min"},
	{Name: "Reach out to someone", Category: models.CategorySocial, Type: models.TypeCount, Target: 1},
	{Name: "Learn something new", Category: models.CategoryGrowth, Type: models.TypeDuration, Target: 15, Unit: "min"},
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized steady storage at: %s\n", ctx.Store.GetConfigPath())

	if !c.Starters {
		return nil
	}
	if err := ctx.setup(); err != nil {
		return err
	}
	mgr := lifecycle.NewManager(ctx.Store, reconcile.New(ctx.Store))
	for _, params := range starterTrackers {
		params.UserID = ctx.settings.UserID
		tracker, err := mgr.Create(params)
		if err != nil {
			return fmt.Errorf("seeding starter trackers: %w", err)
		}
		fmt.Printf("  Added %s (%s)\n", tracker.Name, shortID(tracker.ID))
	}
	return nil
}
