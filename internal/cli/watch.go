package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/steadyhq/steady/internal/tui"
)

type WatchCmd struct{}

func (c *WatchCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}

	// Sweep stale suggestion bundles daily while the dashboard runs.
	if sweeper, err := ctx.sugg.StartSweeper(); err == nil {
		defer sweeper.Stop()
	}

	p := tea.NewProgram(tui.NewModel(ctx.repo, ctx.rec, ctx.settings.UserID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
