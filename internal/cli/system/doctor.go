package system

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/mayatruitt/habitpal/internal/cli"
	"github.com/mayatruitt/habitpal/internal/migration"
	"github.com/mayatruitt/habitpal/internal/storage"
	"github.com/mayatruitt/habitpal/internal/validation"
	"github.com/mayatruitt/habitpal/migrations"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: storage reachable
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		storeReachable = true
	}

	// Check 2: schema version (SQLite only)
	if storeReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fmt.Printf("❌ Schema version: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema version: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema version: SKIPPED (storage not reachable)\n")
	}

	// Check 3: goal integrity
	if storeReachable {
		if err := checkGoalIntegrity(ctx); err != nil {
			fmt.Printf("❌ Goal integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Goal integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Goal integrity: SKIPPED (storage not reachable)\n")
	}

	// Check 4: entry timestamps
	if storeReachable {
		if err := checkEntryTimestamps(ctx); err != nil {
			fmt.Printf("⚠ Entry timestamps: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Entry timestamps: OK\n")
		}
	} else {
		fmt.Printf("⊘ Entry timestamps: SKIPPED (storage not reachable)\n")
	}

	// Check 5: clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil // JSON store has no schema version
	}
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}
	return migration.NewRunner(sqliteStore.DB(), subFS).ValidateVersion()
}

func checkGoalIntegrity(ctx *cli.Context) error {
	goals, err := ctx.Store.GetAllGoals()
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}
	if result := validation.New().ValidateGoals(goals); result.HasConflicts() {
		return fmt.Errorf("%s", result.FormatReport())
	}
	return nil
}

func checkEntryTimestamps(ctx *cli.Context) error {
	goals, err := ctx.Store.GetAllGoals()
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	validator := validation.New()
	now := time.Now()
	stale := 0
	for _, goal := range goals {
		entries, err := ctx.Store.GetEntries(goal.ID)
		if err != nil {
			return fmt.Errorf("failed to load entries for %q: %w", goal.Title, err)
		}
		stale += len(validator.ValidateEntries(entries, now).Conflicts)
	}
	if stale > 0 {
		return fmt.Errorf("%d entries have implausible timestamps; they will be dropped on next load", stale)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system clock reads %s, which looks wrong", now.Format(time.RFC3339))
	}
	if _, err := time.LoadLocation(now.Location().String()); err != nil && now.Location() != time.Local {
		return fmt.Errorf("timezone %q could not be loaded: %w", now.Location(), err)
	}
	return nil
}
