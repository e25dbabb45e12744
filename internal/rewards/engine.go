package rewards

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mayatruitt/habitpal/internal/clock"
	"github.com/mayatruitt/habitpal/internal/constants"
	"github.com/mayatruitt/habitpal/internal/models"
)

// Engine maintains per-goal streaks and the achievement catalog, and
// derives the running point total from completed achievements.
type Engine struct {
	mu           sync.Mutex
	streaks      map[string]*models.GoalStreak
	achievements []models.Achievement
	totalPoints  int

	// perfectDays is the lifetime perfect-day count behind the perfect_day
	// achievement. It is rederived from the open record on load.
	perfectDays    int
	lastPerfectDay string

	clock clock.Clock
	sink  models.EventSink
}

func NewEngine(clk clock.Clock, sink models.EventSink) *Engine {
	if sink == nil {
		sink = models.NopSink{}
	}
	e := &Engine{
		streaks: make(map[string]*models.GoalStreak),
		clock:   clk,
		sink:    sink,
	}
	e.seedCatalogLocked()
	return e
}

// Load replaces engine state with persisted streaks and achievements. The
// point total is rederived from completed records, and any type missing
// its open record gets a bronze entry.
func (e *Engine) Load(streaks []models.GoalStreak, achievements []models.Achievement) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.streaks = make(map[string]*models.GoalStreak, len(streaks))
	for i := range streaks {
		s := streaks[i]
		e.streaks[s.GoalID] = &s
	}

	e.achievements = achievements
	e.seedCatalogLocked()

	e.totalPoints = 0
	e.perfectDays = 0
	for _, a := range e.achievements {
		if a.IsCompleted {
			e.totalPoints += Points(a.Type, a.Level)
		}
		if a.Type == models.AchievementPerfectDay && !a.IsCompleted {
			e.perfectDays = int(a.Progress*Target(a.Type, a.Level) + 0.5)
		}
	}
}

// seedCatalogLocked ensures every achievement type has at least its bronze
// record so progress always has somewhere to land.
func (e *Engine) seedCatalogLocked() {
	present := make(map[models.AchievementType]bool)
	for _, a := range e.achievements {
		present[a.Type] = true
	}
	for _, t := range AchievementTypes {
		if !present[t] {
			e.achievements = append(e.achievements, models.Achievement{
				ID:    uuid.New().String(),
				Type:  t,
				Level: models.LevelBronze,
			})
		}
	}
}

// UpdateStreak folds today's day bucket into the goal's streak counters. A
// completion yesterday extends the streak; a gap of more than one day
// resets it to one; a day with no completion at all drops it to zero.
func (e *Engine) UpdateStreak(goalID string, dayMet bool, weeklyRate float64) models.GoalStreak {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.streaks[goalID]
	if !ok {
		s = &models.GoalStreak{GoalID: goalID}
		e.streaks[goalID] = s
	}

	now := e.clock.Now()
	today := now.Format(constants.DateFormat)
	yesterday := now.AddDate(0, 0, -1).Format(constants.DateFormat)

	if dayMet {
		s.TotalCompletions++
		switch s.LastCompletionDate {
		case yesterday:
			s.CurrentStreak++
			if s.CurrentStreak > s.BestStreak {
				s.BestStreak = s.CurrentStreak
			}
		case today:
			// Already counted today; the streak does not move.
		default:
			s.CurrentStreak = 1
			if s.BestStreak < 1 {
				s.BestStreak = 1
			}
		}
		s.LastCompletionDate = today
	} else if s.LastCompletionDate != yesterday && s.LastCompletionDate != today {
		s.CurrentStreak = 0
	}

	if weeklyRate >= 1.0 {
		s.PerfectWeeks++
	}

	return *s
}

// OnGoalCompleted consumes a daily goal completion together with the
// aggregator's snapshot and drives streaks and achievement progress.
// perfectDay reports whether every active goal has now met its target
// today; it counts at most once per calendar day.
func (e *Engine) OnGoalCompleted(goal models.Goal, weeklyRate float64, perfectDay bool) models.GoalStreak {
	streak := e.UpdateStreak(goal.ID, true, weeklyRate)

	e.mu.Lock()
	if perfectDay {
		today := e.clock.Now().Format(constants.DateFormat)
		if e.lastPerfectDay != today {
			e.lastPerfectDay = today
			e.perfectDays++
		}
	}
	perfectDays := e.perfectDays

	var care, bestStreak, perfectWeeks int
	for _, s := range e.streaks {
		care += s.TotalCompletions
		if s.CurrentStreak > bestStreak {
			bestStreak = s.CurrentStreak
		}
		perfectWeeks += s.PerfectWeeks
	}
	e.mu.Unlock()

	if t, ok := streakTypeFor(goal.Category); ok {
		e.UpdateProgress(t, float64(streak.CurrentStreak))
	}
	e.UpdateProgress(models.AchievementCompanionCare, float64(care))
	e.UpdateProgress(models.AchievementConsistency, float64(bestStreak))
	e.UpdateProgress(models.AchievementPerfectDay, float64(perfectDays))
	e.UpdateProgress(models.AchievementPerfectWeek, float64(perfectWeeks))

	return streak
}

// UpdateProgress advances every open achievement of the given type toward
// its level target. Reaching full progress completes the record, grants
// points and appends the next level's record at zero progress. Platinum
// has no successor. Records are append-only; completed ones never change.
func (e *Engine) UpdateProgress(t models.AchievementType, value float64) {
	e.mu.Lock()

	var unlocked []models.AchievementUnlocked
	levels := make(map[models.AchievementLevel]bool)
	for _, a := range e.achievements {
		if a.Type == t {
			levels[a.Level] = true
		}
	}

	for i := range e.achievements {
		a := &e.achievements[i]
		if a.Type != t || a.IsCompleted {
			continue
		}

		target := Target(t, a.Level)
		if target <= 0 {
			continue
		}
		progress := value / target
		if progress < 0 {
			progress = 0
		}
		if progress > 1 {
			progress = 1
		}
		a.Progress = progress

		if progress < 1 {
			continue
		}

		now := e.clock.Now()
		a.IsCompleted = true
		a.DateEarned = &now
		points := Points(t, a.Level)
		e.totalPoints += points
		unlocked = append(unlocked, models.AchievementUnlocked{Achievement: *a, Points: points})

		if next, ok := a.Level.NextLevel(); ok && !levels[next] {
			levels[next] = true
			e.achievements = append(e.achievements, models.Achievement{
				ID:    uuid.New().String(),
				Type:  t,
				Level: next,
			})
		}
	}
	e.mu.Unlock()

	for _, u := range unlocked {
		e.sink.AchievementUnlocked(u)
	}
}

// TotalPoints returns the running point total.
func (e *Engine) TotalPoints() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalPoints
}

// Streak returns a goal's streak counters.
func (e *Engine) Streak(goalID string) models.GoalStreak {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.streaks[goalID]; ok {
		return *s
	}
	return models.GoalStreak{GoalID: goalID}
}

// DeleteStreak removes a goal's streak counters, for goal deletion.
func (e *Engine) DeleteStreak(goalID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.streaks, goalID)
}

// Streaks returns copies of every streak for persistence.
func (e *Engine) Streaks() []models.GoalStreak {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.GoalStreak, 0, len(e.streaks))
	for _, s := range e.streaks {
		out = append(out, *s)
	}
	return out
}

// Achievements returns a copy of the achievement catalog.
func (e *Engine) Achievements() []models.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Achievement, len(e.achievements))
	copy(out, e.achievements)
	return out
}
