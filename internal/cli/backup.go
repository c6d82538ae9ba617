package cli

import (
	"fmt"
	"path/filepath"

	"github.com/steadyhq/steady/internal/backup"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	if ctx.Store.GetConfigPath() == "postgres" {
		return fmt.Errorf("postgres stores are backed up server-side")
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	path, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Printf("✓ Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	if err := ctx.setup(); err != nil {
		return err
	}
	if ctx.Store.GetConfigPath() == "postgres" {
		return fmt.Errorf("postgres stores are backed up server-side")
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.BackupDir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n", len(backups), backup.MaxBackups)
	for _, b := range backups {
		fmt.Printf("  %s  %s  %.1f KB\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), float64(b.Size)/1024)
	}
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Backup file name or full path."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	// Restore replaces the store file, so don't open it first.
	if ctx.Store.GetConfigPath() == "postgres" {
		return fmt.Errorf("postgres stores are backed up server-side")
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	path := c.File
	if filepath.Dir(path) == "." {
		path = filepath.Join(mgr.BackupDir(), path)
	}
	if err := mgr.Restore(path); err != nil {
		return err
	}
	fmt.Printf("✓ Restored from %s\n", filepath.Base(path))
	return nil
}
