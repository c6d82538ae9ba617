package cli

import (
	"fmt"

	"github.com/steadyhq/steady/internal/keyring"
)

type SuggestCmd struct {
	Tracker string `arg:"" help:"Tracker id or name."`
	Refresh bool   `help:"Skip the cache and fetch fresh suggestions."`
}

func (c *SuggestCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	tracker, err := ctx.findTracker(c.Tracker)
	if err != nil {
		return err
	}

	fetch := ctx.sugg.Suggestions
	if c.Refresh {
		fetch = ctx.sugg.Refresh
	}
	bundle, err := fetch(tracker.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Today for %s:\n", tracker.Name)
	if bundle.TodayAction != "" {
		fmt.Printf("  → %s\n", bundle.TodayAction)
	}
	for _, s := range bundle.Suggestions {
		fmt.Printf("  • %s\n", s)
	}
	if bundle.MotivationalQuote != "" {
		fmt.Printf("\n  %q\n", bundle.MotivationalQuote)
	}
	return nil
}

type TokenSetCmd struct {
	Token string `arg:"" help:"API token for the suggestion service."`
}

func (c *TokenSetCmd) Run(ctx *Context) error {
	if err := keyring.SetAPIToken(c.Token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	fmt.Println("Token stored in system keyring")
	return nil
}

type TokenClearCmd struct{}

func (c *TokenClearCmd) Run(ctx *Context) error {
	if err := keyring.DeleteAPIToken(); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	fmt.Println("Token removed from system keyring")
	return nil
}
