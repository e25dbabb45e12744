package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/mayatruitt/habitpal/internal/cli"
	"github.com/mayatruitt/habitpal/internal/cli/system"
	"github.com/mayatruitt/habitpal/internal/logger"
	"github.com/mayatruitt/habitpal/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/habitpal/habitpal.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init     system.InitCmd   `cmd:"" help:"Initialize habitpal storage."`
	Doctor   system.DoctorCmd `cmd:"" help:"Check storage and goal data health."`
	Tui      system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Notify   system.NotifyCmd `cmd:"" help:"Fire due reminders and mood alerts." hidden:""`
	Goal     cli.GoalCmd      `cmd:"" help:"Manage goals."`
	Log      cli.LogCmd       `cmd:"" help:"Log progress against a goal."`
	Session  cli.SessionCmd   `cmd:"" help:"Run mindfulness sessions."`
	Status   cli.StatusCmd    `cmd:"" help:"Show your companion's status."`
	Stats    cli.StatsCmd     `cmd:"" help:"Show weekly analytics."`
	Rewards  cli.RewardsCmd   `cmd:"" help:"Show streaks and achievements."`
	Settings cli.SettingsCmd  `cmd:"" help:"View or change settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitpal"),
		kong.Description("Habit tracker with a virtual companion that lives on your progress"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	// Determine storage type based on extension
	var store storage.Provider
	if len(CLI.Config) > 5 && CLI.Config[len(CLI.Config)-5:] == ".json" {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{Store: store}

	err := ctx.Run(appCtx)
	appCtx.CloseService()
	if cerr := store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
