package cli

import (
	"fmt"
	"time"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	NotificationsEnabled *bool   `help:"Enable or disable notifications."`
	TickIntervalSec      *int    `help:"Companion decay tick interval in seconds."`
	SessionMinutes       *int    `help:"Default mindfulness session length in minutes."`
	CountAllMeals        *bool   `help:"Count repeated meal slots toward weekly stats."`
	ReminderSweepMin     *int    `help:"Mood alert sweep interval in minutes."`
	Timezone             *string `help:"IANA timezone name, or 'Local'."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Tick Interval:         %d sec\n", settings.TickIntervalSec)
		fmt.Printf("  Session Length:        %d min\n", settings.SessionMinutes)
		fmt.Printf("  Count All Meals:       %v\n", settings.CountAllMeals)
		fmt.Printf("  Reminder Sweep:        %d min\n", settings.ReminderSweepMin)
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		return nil
	}

	updated := false
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.TickIntervalSec != nil {
		if *c.TickIntervalSec < 1 {
			return fmt.Errorf("tick interval must be at least 1 second")
		}
		settings.TickIntervalSec = *c.TickIntervalSec
		updated = true
	}
	if c.SessionMinutes != nil {
		if *c.SessionMinutes < 1 {
			return fmt.Errorf("session length must be at least 1 minute")
		}
		settings.SessionMinutes = *c.SessionMinutes
		updated = true
	}
	if c.CountAllMeals != nil {
		settings.CountAllMeals = *c.CountAllMeals
		updated = true
	}
	if c.ReminderSweepMin != nil {
		if *c.ReminderSweepMin < 1 {
			return fmt.Errorf("sweep interval must be at least 1 minute")
		}
		settings.ReminderSweepMin = *c.ReminderSweepMin
		updated = true
	}
	if c.Timezone != nil {
		if *c.Timezone != "Local" {
			if _, err := time.LoadLocation(*c.Timezone); err != nil {
				return fmt.Errorf("unknown timezone %q", *c.Timezone)
			}
		}
		settings.Timezone = *c.Timezone
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
