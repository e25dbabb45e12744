package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mayatruitt/habitpal/internal/models"
)

type GoalCmd struct {
	Add    GoalAddCmd    `cmd:"" help:"Add a new goal."`
	Edit   GoalEditCmd   `cmd:"" help:"Edit an existing goal."`
	List   GoalListCmd   `cmd:"" help:"List all goals." default:"1"`
	Delete GoalDeleteCmd `cmd:"" help:"Delete a custom goal."`
}

type GoalAddCmd struct {
	Title    string `arg:"" help:"Goal title."`
	Category string `short:"c" help:"Goal category (water|meal|break|meditation)." required:""`
	Target   int    `short:"t" help:"Daily target count." required:""`
	Cooldown int    `short:"i" help:"Cooldown between logs in minutes." default:"0"`
	Reminder string `short:"r" help:"Daily reminder time (HH:MM)."`
	Session  bool   `help:"Complete through timed sessions instead of direct logging."`
}

func (c *GoalAddCmd) Validate() error {
	switch models.GoalCategory(c.Category) {
	case models.CategoryWater, models.CategoryMeal, models.CategoryBreak, models.CategoryMeditation:
	default:
		return fmt.Errorf("invalid category %q (expected water, meal, break or meditation)", c.Category)
	}
	if c.Target < 1 {
		return fmt.Errorf("target must be at least 1")
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("cooldown cannot be negative")
	}
	return nil
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	goal, err := svc.AddGoal(models.Goal{
		Title:           c.Title,
		Category:        models.GoalCategory(c.Category),
		TargetCount:     c.Target,
		IntervalSeconds: c.Cooldown * 60,
		ReminderTime:    c.Reminder,
		RequiresSession: c.Session,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added goal: %s (%s, %d per day)\n", goal.Title, goal.Category, goal.TargetCount)
	return nil
}

type GoalEditCmd struct {
	ID       string  `arg:"" help:"Goal ID."`
	Title    *string `help:"New title."`
	Target   *int    `short:"t" help:"New daily target count."`
	Cooldown *int    `short:"i" help:"New cooldown between logs in minutes."`
	Reminder *string `short:"r" help:"New daily reminder time (HH:MM), empty to clear."`
	Active   *bool   `help:"Set active status."`
}

func (c *GoalEditCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	tr, ok := svc.Tracker(c.ID)
	if !ok {
		return fmt.Errorf("goal %q not found", c.ID)
	}
	goal := tr.Goal()

	if c.Title != nil {
		goal.Title = *c.Title
	}
	if c.Target != nil {
		goal.TargetCount = *c.Target
	}
	if c.Cooldown != nil {
		if *c.Cooldown < 0 {
			return fmt.Errorf("cooldown cannot be negative")
		}
		goal.IntervalSeconds = *c.Cooldown * 60
	}
	if c.Reminder != nil {
		goal.ReminderTime = *c.Reminder
	}
	if c.Active != nil {
		goal.IsActive = *c.Active
	}

	if err := svc.UpdateGoal(goal); err != nil {
		return err
	}

	fmt.Printf("Updated goal: %s\n", goal.Title)
	return nil
}

type GoalListCmd struct {
	All bool `help:"Include inactive goals."`
}

func (c *GoalListCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	trackers := svc.Trackers()
	if len(trackers) == 0 {
		fmt.Println("No goals found. Run 'habitpal init' first.")
		return nil
	}

	now := time.Now()
	for _, tr := range trackers {
		goal := tr.Goal()
		if !goal.IsActive && !c.All {
			continue
		}

		marker := " "
		if tr.IsComplete() {
			marker = "✓"
		}
		state := ""
		if !goal.IsActive {
			state = " [INACTIVE]"
		} else if !tr.IsComplete() && !tr.CanLog() {
			state = fmt.Sprintf(" (cooldown %s)", FormatCooldown(tr.CooldownEnd(), now))
		}

		fmt.Printf("%s %s %d/%d %-24s%s\n", marker,
			ProgressBar(tr.CompletedCount(), goal.TargetCount, 10),
			tr.CompletedCount(), goal.TargetCount, goal.Title, state)
		fmt.Printf("    id: %s  category: %s\n", goal.ID, goal.Category)
	}

	return nil
}

type GoalDeleteCmd struct {
	ID    string `arg:"" help:"Goal ID."`
	Force bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *GoalDeleteCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	tr, ok := svc.Tracker(c.ID)
	if !ok {
		return fmt.Errorf("goal %q not found", c.ID)
	}
	goal := tr.Goal()

	if !c.Force {
		var confirmed bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q and all of its history?", goal.Title)).
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := svc.DeleteGoal(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted goal: %s\n", goal.Title)
	return nil
}
