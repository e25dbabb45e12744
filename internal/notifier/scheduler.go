package notifier

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mayatruitt/habitpal/internal/logger"
	"github.com/mayatruitt/habitpal/internal/models"
)

// Scheduler runs goal reminders and the companion mood sweep on a shared
// cron instance. Notification failures are logged and swallowed; reminders
// must never take the process down.
type Scheduler struct {
	cron     *cron.Cron
	notifier *Notifier

	mu   sync.Mutex
	jobs map[string]cron.EntryID

	// lastAlertedMood suppresses repeat alerts while the companion stays in
	// the same bad mood across sweeps.
	lastAlertedMood models.MoodState
}

func NewScheduler(loc *time.Location, n *Notifier) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		notifier: n,
		jobs:     make(map[string]cron.EntryID),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ScheduleReminder registers a daily reminder for a goal at its HH:MM
// reminder time, replacing any previous reminder for the same goal.
func (s *Scheduler) ScheduleReminder(goal models.Goal) error {
	if goal.ReminderTime == "" {
		return nil
	}
	spec, err := buildDailySpec(goal.ReminderTime)
	if err != nil {
		return err
	}

	s.CancelReminder(goal.ID)

	title := goal.Title
	id, err := s.cron.AddFunc(spec, func() {
		if err := s.notifier.Notify(fmt.Sprintf("Time for %s", title)); err != nil {
			logger.Debug("reminder delivery skipped", "goal", title, "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.jobs[goal.ID] = id
	s.mu.Unlock()
	return nil
}

// CancelReminder removes a goal's reminder if one is scheduled.
func (s *Scheduler) CancelReminder(goalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.jobs[goalID]; ok {
		s.cron.Remove(id)
		delete(s.jobs, goalID)
	}
}

// ScheduleMoodSweep polls the companion status periodically and alerts when
// the mood lands in a state that needs attention. The same mood alerts only
// once until it changes.
func (s *Scheduler) ScheduleMoodSweep(interval time.Duration, status func() models.CompanionStatus) error {
	if interval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}
	spec := fmt.Sprintf("@every %ds", int(interval.Seconds()))

	_, err := s.cron.AddFunc(spec, func() {
		mood := status().Mood

		s.mu.Lock()
		repeat := mood == s.lastAlertedMood
		s.lastAlertedMood = mood
		s.mu.Unlock()
		if repeat {
			return
		}

		text, ok := MoodAlert(mood)
		if !ok {
			return
		}
		if err := s.notifier.Notify(text); err != nil {
			logger.Debug("mood alert delivery skipped", "mood", mood, "error", err)
		}
	})
	return err
}

// MoodAlert returns the alert text for moods that warrant one.
func MoodAlert(mood models.MoodState) (string, bool) {
	switch mood {
	case models.MoodSleepy:
		return "Your companion is getting sleepy. Time for a break?", true
	case models.MoodHungry:
		return "Your companion is hungry. Have you eaten?", true
	case models.MoodPassedOut:
		return "Your companion passed out! Water and rest, now.", true
	}
	return "", false
}

// buildDailySpec converts HH:MM to a daily cron spec.
func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
