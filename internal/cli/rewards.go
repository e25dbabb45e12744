package cli

import (
	"fmt"
	"sort"

	"github.com/mayatruitt/habitpal/internal/rewards"
)

type RewardsCmd struct {
	All bool `help:"Include locked achievements."`
}

func (c *RewardsCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	eng := svc.Rewards()

	fmt.Printf("Total points: %d\n\n", eng.TotalPoints())

	fmt.Println("Streaks:")
	for _, tr := range svc.Trackers() {
		goal := tr.Goal()
		streak := eng.Streak(goal.ID)
		flame := ""
		if streak.CurrentStreak >= 3 {
			flame = " 🔥"
		}
		fmt.Printf("  %-24s current %2d  best %2d%s\n", goal.Title, streak.CurrentStreak, streak.BestStreak, flame)
	}
	fmt.Println()

	achievements := eng.Achievements()
	sort.Slice(achievements, func(i, j int) bool {
		if achievements[i].Type != achievements[j].Type {
			return achievements[i].Type < achievements[j].Type
		}
		return rewards.Target(achievements[i].Type, achievements[i].Level) < rewards.Target(achievements[j].Type, achievements[j].Level)
	})

	fmt.Println("Achievements:")
	for _, a := range achievements {
		if a.IsCompleted {
			fmt.Printf("  ★ %s %s (+%d pts, earned %s)\n", a.Type, a.Level,
				rewards.Points(a.Type, a.Level), a.DateEarned.Format("2006-01-02"))
			continue
		}
		if !c.All && a.Progress == 0 {
			continue
		}
		fmt.Printf("  %s %s %s %.0f%%\n", ProgressBar(int(a.Progress*100), 100, 10), a.Type, a.Level, a.Progress*100)
	}

	return nil
}
