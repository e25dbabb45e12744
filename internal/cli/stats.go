package cli

import (
	"fmt"
	"time"

	"github.com/mayatruitt/habitpal/internal/analytics"
	"github.com/mayatruitt/habitpal/internal/constants"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	agg := svc.Analytics()

	weekStart := analytics.WeekStart(time.Now())
	fmt.Printf("Week of %s\n\n", weekStart.Format(constants.DateFormat))

	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

	any := false
	for _, tr := range svc.Trackers() {
		goal := tr.Goal()
		bucket, ok := agg.Bucket(goal.ID)
		if !ok {
			continue
		}
		any = true

		fmt.Printf("%-24s weekly %3.0f%%  today %3.0f%%\n", goal.Title,
			agg.WeeklyCompletionRate(goal.ID)*100, agg.DailyCompletionRate(goal.ID)*100)

		fmt.Print("  ")
		for i, day := range bucket.Days {
			marker := "·"
			switch {
			case day.TargetCount > 0 && day.CompletedCount >= day.TargetCount:
				marker = "✓"
			case day.CompletedCount > 0:
				marker = fmt.Sprintf("%d", day.CompletedCount)
			}
			fmt.Printf("%s %s  ", days[i], marker)
		}
		fmt.Println()

		if agg.IsPerfectWeek(goal.ID) {
			fmt.Println("  Perfect week so far!")
		}
		fmt.Println()
	}

	if !any {
		fmt.Println("No activity recorded this week yet.")
	}
	return nil
}
