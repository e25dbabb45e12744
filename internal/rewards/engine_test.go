package rewards

import (
	"testing"
	"time"

	"github.com/mayatruitt/habitpal/internal/clock"
	"github.com/mayatruitt/habitpal/internal/models"
)

type unlockSink struct {
	models.NopSink
	unlocked []models.AchievementUnlocked
}

func (s *unlockSink) AchievementUnlocked(e models.AchievementUnlocked) {
	s.unlocked = append(s.unlocked, e)
}

func TestUpdateStreak_ConsecutiveDays(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	e := NewEngine(clk, nil)

	s := e.UpdateStreak("g1", true, 0)
	if s.CurrentStreak != 1 || s.BestStreak != 1 {
		t.Fatalf("day 1: expected streak 1/1, got %d/%d", s.CurrentStreak, s.BestStreak)
	}

	clk.Advance(24 * time.Hour)
	s = e.UpdateStreak("g1", true, 0)
	if s.CurrentStreak != 2 || s.BestStreak != 2 {
		t.Fatalf("day 2: expected streak 2/2, got %d/%d", s.CurrentStreak, s.BestStreak)
	}
	if s.TotalCompletions != 2 {
		t.Fatalf("expected 2 total completions, got %d", s.TotalCompletions)
	}
}

func TestUpdateStreak_GapResetsToOne(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	e := NewEngine(clk, nil)

	e.UpdateStreak("g1", true, 0)

	// Miss day N+1 entirely, complete on day N+2.
	clk.Advance(48 * time.Hour)
	s := e.UpdateStreak("g1", true, 0)
	if s.CurrentStreak != 1 {
		t.Fatalf("expected streak reset to 1 after a gap, got %d", s.CurrentStreak)
	}
	if s.BestStreak != 1 {
		t.Fatalf("expected best streak to stay 1, got %d", s.BestStreak)
	}
}

func TestUpdateStreak_MissedDayDropsToZero(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	e := NewEngine(clk, nil)

	e.UpdateStreak("g1", true, 0)

	// Two days later with nothing completed: the streak is gone.
	clk.Advance(48 * time.Hour)
	s := e.UpdateStreak("g1", false, 0)
	if s.CurrentStreak != 0 {
		t.Fatalf("expected streak 0, got %d", s.CurrentStreak)
	}
}

func TestUpdateStreak_SameDayDoesNotDoubleCount(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	e := NewEngine(clk, nil)

	e.UpdateStreak("g1", true, 0)
	s := e.UpdateStreak("g1", true, 0)
	if s.CurrentStreak != 1 {
		t.Fatalf("expected streak unchanged at 1, got %d", s.CurrentStreak)
	}
}

func TestUpdateStreak_PerfectWeek(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 8, 20, 0, 0, 0, time.UTC))
	e := NewEngine(clk, nil)

	s := e.UpdateStreak("g1", true, 1.1)
	if s.PerfectWeeks != 1 {
		t.Fatalf("expected 1 perfect week, got %d", s.PerfectWeeks)
	}
}

func TestUpdateProgress_BronzePromotion(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	sink := &unlockSink{}
	e := NewEngine(clk, sink)

	// Bronze water streak target is 3 days.
	e.UpdateProgress(models.AchievementWaterStreak, 3)

	var bronze, silver *models.Achievement
	for _, a := range e.Achievements() {
		if a.Type != models.AchievementWaterStreak {
			continue
		}
		a := a
		switch a.Level {
		case models.LevelBronze:
			bronze = &a
		case models.LevelSilver:
			silver = &a
		}
	}

	if bronze == nil || !bronze.IsCompleted || bronze.DateEarned == nil {
		t.Fatal("expected bronze completed with an earn date")
	}
	if silver == nil {
		t.Fatal("expected a silver record to be created")
	}
	if silver.IsCompleted || silver.Progress != 0 {
		t.Fatal("expected the silver record open at zero progress")
	}

	want := Points(models.AchievementWaterStreak, models.LevelBronze)
	if e.TotalPoints() != want {
		t.Fatalf("expected %d points, got %d", want, e.TotalPoints())
	}
	if len(sink.unlocked) != 1 {
		t.Fatalf("expected one unlock event, got %d", len(sink.unlocked))
	}
}

func TestUpdateProgress_ClampsAndPartial(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	e := NewEngine(clk, nil)

	e.UpdateProgress(models.AchievementConsistency, 2) // bronze target 5

	for _, a := range e.Achievements() {
		if a.Type == models.AchievementConsistency && a.Level == models.LevelBronze {
			if a.Progress != 0.4 {
				t.Fatalf("expected progress 0.4, got %v", a.Progress)
			}
			if a.IsCompleted {
				t.Fatal("partial progress must not complete the achievement")
			}
		}
	}

	e.UpdateProgress(models.AchievementConsistency, -3)
	for _, a := range e.Achievements() {
		if a.Type == models.AchievementConsistency && a.Level == models.LevelBronze && a.Progress != 0 {
			t.Fatalf("expected progress clamped to 0, got %v", a.Progress)
		}
	}
}

func TestUpdateProgress_PlatinumHasNoSuccessor(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	e := NewEngine(clk, nil)

	// Blow through every level in one update.
	e.UpdateProgress(models.AchievementPerfectDay, 1)   // bronze
	e.UpdateProgress(models.AchievementPerfectDay, 7)   // silver
	e.UpdateProgress(models.AchievementPerfectDay, 30)  // gold
	e.UpdateProgress(models.AchievementPerfectDay, 100) // platinum

	count := 0
	for _, a := range e.Achievements() {
		if a.Type == models.AchievementPerfectDay {
			count++
			if !a.IsCompleted {
				t.Fatalf("expected %s completed", a.Level)
			}
		}
	}
	if count != 4 {
		t.Fatalf("expected exactly 4 records (no successor past platinum), got %d", count)
	}
}

func TestLoad_RederivesPointsAndSeedsCatalog(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	e := NewEngine(clk, nil)

	earned := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	e.Load(
		[]models.GoalStreak{{GoalID: "g1", CurrentStreak: 4, BestStreak: 6}},
		[]models.Achievement{{
			ID: "a1", Type: models.AchievementWaterStreak, Level: models.LevelBronze,
			Progress: 1, IsCompleted: true, DateEarned: &earned,
		}},
	)

	if got := e.TotalPoints(); got != Points(models.AchievementWaterStreak, models.LevelBronze) {
		t.Fatalf("expected points rederived from completed records, got %d", got)
	}
	if s := e.Streak("g1"); s.CurrentStreak != 4 {
		t.Fatalf("expected loaded streak, got %+v", s)
	}

	// Every other type still has an open record to accumulate progress.
	types := make(map[models.AchievementType]bool)
	for _, a := range e.Achievements() {
		types[a.Type] = true
	}
	for _, want := range AchievementTypes {
		if !types[want] {
			t.Fatalf("expected a seeded record for %s", want)
		}
	}
}

func TestOnGoalCompleted_DrivesStreakAchievements(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	e := NewEngine(clk, nil)
	goal := models.Goal{ID: "g-water", Category: models.CategoryWater, TargetCount: 8}

	for i := 0; i < 3; i++ {
		e.OnGoalCompleted(goal, 0.5, false)
		clk.Advance(24 * time.Hour)
	}

	// Three consecutive days completes the bronze water streak.
	for _, a := range e.Achievements() {
		if a.Type == models.AchievementWaterStreak && a.Level == models.LevelBronze {
			if !a.IsCompleted {
				t.Fatalf("expected bronze water streak completed, got progress %v", a.Progress)
			}
		}
	}
	if e.TotalPoints() == 0 {
		t.Fatal("expected points from unlocked achievements")
	}
}

func TestOnGoalCompleted_PerfectDayCountsOncePerDay(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	e := NewEngine(clk, nil)
	water := models.Goal{ID: "g-water", Category: models.CategoryWater}
	meal := models.Goal{ID: "g-meal", Category: models.CategoryMeal}

	e.OnGoalCompleted(water, 0.5, true)
	e.OnGoalCompleted(meal, 0.5, true)

	// Bronze perfect_day targets a single perfect day, so one day of
	// completions should finish it exactly once.
	completed := 0
	for _, a := range e.Achievements() {
		if a.Type == models.AchievementPerfectDay && a.IsCompleted {
			completed++
		}
	}
	if completed != 1 {
		t.Fatalf("expected exactly one completed perfect_day record, got %d", completed)
	}

	for _, a := range e.Achievements() {
		if a.Type == models.AchievementPerfectDay && !a.IsCompleted {
			want := 1.0 / Target(models.AchievementPerfectDay, a.Level)
			if a.Progress != want {
				t.Fatalf("expected silver perfect_day progress %v, got %v", want, a.Progress)
			}
		}
	}
}
