package cli

import (
	"errors"
	"fmt"
	"time"

	apperr "github.com/mayatruitt/habitpal/internal/errors"
	"github.com/mayatruitt/habitpal/internal/models"
	"github.com/mayatruitt/habitpal/internal/tracker"
)

type LogCmd struct {
	Water LogWaterCmd `cmd:"" help:"Log a glass of water."`
	Meal  LogMealCmd  `cmd:"" help:"Log a meal or snack."`
	Break LogBreakCmd `cmd:"" help:"Log a screen break."`
}

type LogWaterCmd struct{}

func (c *LogWaterCmd) Run(ctx *Context) error {
	return logNext(ctx, models.CategoryWater, "")
}

type LogMealCmd struct {
	Type string `arg:"" optional:"" help:"Meal slot (breakfast|morning_snack|lunch|afternoon_snack|dinner)."`
}

func (c *LogMealCmd) Run(ctx *Context) error {
	subtype := c.Type
	if subtype != "" {
		var err error
		subtype, err = ParseMealSubtype(subtype)
		if err != nil {
			return err
		}
	}
	return logNext(ctx, models.CategoryMeal, subtype)
}

type LogBreakCmd struct{}

func (c *LogBreakCmd) Run(ctx *Context) error {
	return logNext(ctx, models.CategoryBreak, "")
}

// logNext logs the next open entry of the category's active goal and prints
// the result, translating engine errors into friendly messages.
func logNext(ctx *Context, category models.GoalCategory, subtype string) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	tr, ok := svc.TrackerByCategory(category)
	if !ok {
		return fmt.Errorf("no active %s goal found", category)
	}
	goal := tr.Goal()

	entryID, err := nextOpenEntry(tr, subtype)
	if err != nil {
		return err
	}

	entry, err := svc.LogEntry(goal.ID, entryID, subtype)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrCooldownActive):
			return fmt.Errorf("%s is on cooldown, ready in %s", goal.Title, FormatCooldown(tr.CooldownEnd(), time.Now()))
		case errors.Is(err, apperr.ErrGoalCompleted):
			return fmt.Errorf("%s is already done for today, nice work", goal.Title)
		case errors.Is(err, apperr.ErrSubtypeLogged):
			return fmt.Errorf("you already logged %s today", subtype)
		default:
			return err
		}
	}

	label := goal.Title
	if entry.Subtype != "" {
		label = fmt.Sprintf("%s (%s)", goal.Title, entry.Subtype)
	}
	fmt.Printf("Logged %s: %d/%d today\n", label, tr.CompletedCount(), goal.TargetCount)
	if tr.IsComplete() {
		fmt.Printf("🎉 %s complete for today!\n", goal.Title)
	}
	return nil
}

// nextOpenEntry picks the entry to log against: the matching subtype slot
// for meals, the earliest uncompleted slot otherwise.
func nextOpenEntry(tr *tracker.Tracker, subtype string) (string, error) {
	for _, entry := range tr.Entries() {
		if entry.Completed {
			continue
		}
		if subtype != "" && entry.Subtype != subtype {
			continue
		}
		return entry.ID, nil
	}
	if subtype != "" {
		return "", fmt.Errorf("no open slot for %s today", subtype)
	}
	return "", apperr.ErrGoalCompleted
}
