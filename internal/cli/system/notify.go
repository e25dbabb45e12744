package system

import (
	"fmt"
	"time"

	"github.com/mayatruitt/habitpal/internal/cli"
	"github.com/mayatruitt/habitpal/internal/notifier"
)

// NotifyCmd runs one reminder sweep, meant to be called from a cron entry
// or the tray app rather than by hand.
type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	if !svc.Settings().NotificationsEnabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	n := notifier.New()
	now := time.Now()
	currentHHMM := now.Format("15:04")

	for _, tr := range svc.Trackers() {
		goal := tr.Goal()
		if !goal.IsActive || goal.ReminderTime == "" || tr.IsComplete() {
			continue
		}
		if goal.ReminderTime != currentHHMM {
			continue
		}

		msg := fmt.Sprintf("Time for %s (%d/%d today)", goal.Title, tr.CompletedCount(), goal.TargetCount)
		if c.DryRun {
			fmt.Println("[DryRun] " + msg)
			continue
		}
		if err := n.Notify(msg); err != nil {
			fmt.Printf("Failed to send notification: %v\n", err)
		}
	}

	// Companion mood alert rides along with the sweep
	status := svc.Companion()
	if text, ok := notifier.MoodAlert(status.Mood); ok {
		if c.DryRun {
			fmt.Println("[DryRun] " + text)
		} else if err := n.Notify(text); err != nil {
			fmt.Printf("Failed to send notification: %v\n", err)
		}
	}

	return nil
}
