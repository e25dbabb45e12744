package system

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mayatruitt/habitpal/internal/cli"
	"github.com/mayatruitt/habitpal/internal/logger"
	"github.com/mayatruitt/habitpal/internal/notifier"
	"github.com/mayatruitt/habitpal/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	svc.Start()

	settings := svc.Settings()
	if settings.NotificationsEnabled {
		loc := time.Local
		if settings.Timezone != "" && settings.Timezone != "Local" {
			if l, err := time.LoadLocation(settings.Timezone); err == nil {
				loc = l
			}
		}

		sched := notifier.NewScheduler(loc, notifier.New())
		for _, tr := range svc.Trackers() {
			if err := sched.ScheduleReminder(tr.Goal()); err != nil {
				logger.Error("failed to schedule reminder", "goal", tr.Goal().Title, "error", err)
			}
		}
		sweep := time.Duration(settings.ReminderSweepMin) * time.Minute
		if err := sched.ScheduleMoodSweep(sweep, svc.Companion); err != nil {
			logger.Error("failed to schedule mood sweep", "error", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	p := tea.NewProgram(tui.NewModel(svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
