package cli

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mayatruitt/habitpal/internal/models"
)

type SessionCmd struct {
	Start SessionStartCmd `cmd:"" help:"Start a mindfulness session." default:"1"`
}

type SessionStartCmd struct {
	Minutes int `short:"m" help:"Session length in minutes (default from settings)." default:"0"`
}

func (c *SessionStartCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	tr, ok := svc.TrackerByCategory(models.CategoryMeditation)
	if !ok {
		return fmt.Errorf("no active meditation goal found")
	}
	goal := tr.Goal()
	if tr.IsComplete() {
		return fmt.Errorf("%s is already done for today", goal.Title)
	}

	minutes := c.Minutes
	if minutes <= 0 {
		minutes = svc.Settings().SessionMinutes
	}

	fmt.Printf("Starting a %d minute session. Press Ctrl+C to abandon.\n", minutes)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	remaining := time.Duration(minutes) * time.Minute
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	done := time.After(remaining)
	for {
		select {
		case <-ticker.C:
			remaining -= time.Minute
			if remaining > 0 {
				fmt.Printf("  %d minute(s) remaining...\n", int(remaining.Minutes()))
			}
		case <-interrupt:
			fmt.Println("\nSession abandoned. No credit this time.")
			return nil
		case <-done:
			if _, err := svc.CompleteSession(goal.ID); err != nil {
				return err
			}
			fmt.Printf("🧘 Session complete! %s logged for today.\n", goal.Title)
			return nil
		}
	}
}
