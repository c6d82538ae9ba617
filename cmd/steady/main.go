package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/steadyhq/steady/internal/cli"
	"github.com/steadyhq/steady/internal/keyring"
	"github.com/steadyhq/steady/internal/logger"
	"github.com/steadyhq/steady/internal/storage"
)

var CLI struct {
	Version    kong.VersionFlag
	Config     string `help:"Store path (.db, .json) or 'postgres'." type:"path" default:"~/.config/steady/steady.db"`
	SuggestURL string `help:"Override the suggestion service URL." env:"STEADY_SUGGEST_URL"`
	Debug      bool   `help:"Verbose logging to stderr."`

	Init    cli.InitCmd  `cmd:"" help:"Initialize steady storage."`
	Watch   cli.WatchCmd `cmd:"" help:"Live dashboard." default:"1"`
	Log     cli.LogCmd   `cmd:"" help:"Log an entry for a tracker."`
	Tracker struct {
		Add       cli.TrackerAddCmd       `cmd:"" help:"Add a tracker."`
		List      cli.TrackerListCmd      `cmd:"" help:"List trackers with streaks."`
		Delete    cli.TrackerDeleteCmd    `cmd:"" help:"Delete a tracker and its entries."`
		Extend    cli.TrackerExtendCmd    `cmd:"" help:"Extend a challenge."`
		Complete  cli.TrackerCompleteCmd  `cmd:"" help:"Mark a challenge completed."`
		Restart   cli.TrackerRestartCmd   `cmd:"" help:"Restart a completed tracker."`
		Convert   cli.TrackerConvertCmd   `cmd:"" help:"Switch between challenge and ongoing."`
		Pause     cli.TrackerPauseCmd     `cmd:"" help:"Pause a tracker."`
		Resume    cli.TrackerResumeCmd    `cmd:"" help:"Resume a paused tracker."`
		Archive   cli.TrackerArchiveCmd   `cmd:"" help:"Archive a tracker, keeping history."`
		Unarchive cli.TrackerUnarchiveCmd `cmd:"" help:"Restore an archived tracker."`
	} `cmd:"" help:"Manage trackers."`
	Entry struct {
		List   cli.EntryListCmd   `cmd:"" help:"List recent entries."`
		Delete cli.EntryDeleteCmd `cmd:"" help:"Delete one entry."`
		Purge  cli.EntryPurgeCmd  `cmd:"" help:"Delete all entries for a tracker."`
	} `cmd:"" help:"Manage entries."`
	Audit   cli.AuditCmd   `cmd:"" help:"Check and repair entry counters."`
	Suggest cli.SuggestCmd `cmd:"" help:"Show today's suggestions for a tracker."`
	Token   struct {
		Set   cli.TokenSetCmd   `cmd:"" help:"Store the suggestion API token."`
		Clear cli.TokenClearCmd `cmd:"" help:"Remove the stored token."`
	} `cmd:"" help:"Manage the suggestion service token."`
	Postgres struct {
		Set   cli.PostgresSetCmd   `cmd:"" help:"Store the Postgres connection string."`
		Clear cli.PostgresClearCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage the Postgres connection used by --config postgres."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Back up the store."`
		List    cli.BackupListCmd    `cmd:"" help:"List backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the store from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("steady"),
		kong.Description("Habit tracker with challenges, streaks, and daily suggestions"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.3.0"},
	)

	var store storage.Provider
	configDir := filepath.Dir(CLI.Config)
	switch {
	case CLI.Config == "postgres":
		connStr, err := keyring.GetPostgresConn()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: no postgres connection in keyring: %v\n", err)
			os.Exit(1)
		}
		store = storage.NewPostgresStore(connStr)
		home, _ := os.UserConfigDir()
		configDir = filepath.Join(home, "steady")
	case strings.HasSuffix(CLI.Config, ".json"):
		store = storage.NewJSONStore(CLI.Config)
	default:
		store = storage.NewSQLiteStore(CLI.Config)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	appCtx := &cli.Context{
		Store:      store,
		ConfigDir:  configDir,
		SuggestURL: CLI.SuggestURL,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
