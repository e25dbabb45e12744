package cli

import (
	"fmt"
	"time"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	status := svc.Companion()
	now := time.Now()

	fmt.Printf("Companion mood: %s\n\n", FormatMood(status.Mood))
	fmt.Printf("  Energy       %s %3.0f\n", ProgressBar(int(status.Energy), 100, 20), status.Energy)
	fmt.Printf("  Hydration    %s %3.0f\n", ProgressBar(int(status.Hydration), 100, 20), status.Hydration)
	fmt.Printf("  Satisfaction %s %3.0f\n", ProgressBar(int(status.Satisfaction), 100, 20), status.Satisfaction)
	fmt.Printf("  Happiness    %s %3.0f\n", ProgressBar(int(status.Happiness), 100, 20), status.Happiness)
	fmt.Println()
	fmt.Printf("  Last water: %s   Last meal: %s   Last break: %s\n",
		sinceOrNever(status.LastWaterTime, now),
		sinceOrNever(status.LastMealTime, now),
		sinceOrNever(status.LastBreakTime, now))

	return nil
}

func sinceOrNever(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t).Round(time.Minute)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm ago", int(d.Hours()), int(d.Minutes())%60)
}
