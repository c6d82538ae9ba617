package cli

import (
	"fmt"

	"github.com/steadyhq/steady/internal/backup"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: store reachable
	if err := ctx.setup(); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Printf("✓ Store reachable: OK\n")

	// Check 2: settings present
	if ctx.settings.UserID == "" {
		fmt.Printf("❌ Settings: FAIL (no user id)\n")
		hasError = true
	} else {
		fmt.Printf("✓ Settings: OK (user %s)\n", shortID(ctx.settings.UserID))
	}

	// Check 3: entry counters consistent
	results, err := ctx.rec.AuditAll(ctx.settings.UserID)
	if err != nil {
		fmt.Printf("❌ Entry counters: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		drifted := 0
		for _, res := range results {
			if !res.WasCorrect {
				drifted++
			}
		}
		if drifted == 0 {
			fmt.Printf("✓ Entry counters: OK (%d trackers)\n", len(results))
		} else {
			// AuditAll already repaired; report what it found.
			fmt.Printf("⚠ Entry counters: %d of %d had drifted (repaired)\n", drifted, len(results))
		}
	}

	// Check 4: backups present (warning only, local stores)
	if path := ctx.Store.GetConfigPath(); path != "postgres" {
		backups, err := backup.NewManager(path).List()
		if err != nil || len(backups) == 0 {
			fmt.Printf("⚠ Backups present: WARNING\n")
			fmt.Printf("   No backups found; run 'steady backup create'\n")
		} else {
			fmt.Printf("✓ Backups present: OK (%d)\n", len(backups))
		}
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed")
	return nil
}
