package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mayatruitt/habitpal/internal/models"
)

func setupJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitpal.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() returned unexpected error: %v", err)
	}
	return store
}

func TestJSONStore_InitTwiceFails(t *testing.T) {
	store := setupJSONStore(t)
	if err := store.Init(); err == nil {
		t.Error("Init() on an existing store should fail")
	}
}

func TestJSONStore_LoadWithoutInit(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("Load() without Init() should fail")
	}
}

func TestJSONStore_GoalRoundTrip(t *testing.T) {
	store := setupJSONStore(t)

	goal := models.Goal{
		ID:              "g1",
		Title:           "Drink water",
		Category:        models.CategoryWater,
		TargetCount:     8,
		IntervalSeconds: 3600,
		IsActive:        true,
		CreatedAt:       time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC),
	}
	if err := store.SaveGoal(goal); err != nil {
		t.Fatalf("SaveGoal() returned unexpected error: %v", err)
	}

	// Reopen from disk
	reopened := NewJSONStore(store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	goals, err := reopened.GetAllGoals()
	if err != nil {
		t.Fatalf("GetAllGoals() returned unexpected error: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("GetAllGoals() returned %d goals, want 1", len(goals))
	}
	if goals[0].Title != goal.Title || goals[0].TargetCount != goal.TargetCount {
		t.Errorf("reloaded goal = %+v, want %+v", goals[0], goal)
	}
}

func TestJSONStore_DeleteGoalCascades(t *testing.T) {
	store := setupJSONStore(t)

	goal := models.Goal{ID: "g1", Title: "Eat regularly", Category: models.CategoryMeal, TargetCount: 5, IsActive: true}
	if err := store.SaveGoal(goal); err != nil {
		t.Fatalf("SaveGoal() returned unexpected error: %v", err)
	}
	entry := models.GoalEntry{ID: "e1", GoalID: "g1", ScheduledTime: time.Now(), Subtype: "lunch"}
	if err := store.ReplaceEntries("g1", []models.GoalEntry{entry}); err != nil {
		t.Fatalf("ReplaceEntries() returned unexpected error: %v", err)
	}
	if err := store.SaveSubtypeCooldowns("g1", map[string]time.Time{"lunch": time.Now()}); err != nil {
		t.Fatalf("SaveSubtypeCooldowns() returned unexpected error: %v", err)
	}
	if err := store.SaveStreak(models.GoalStreak{GoalID: "g1", CurrentStreak: 2}); err != nil {
		t.Fatalf("SaveStreak() returned unexpected error: %v", err)
	}

	if err := store.DeleteGoal("g1"); err != nil {
		t.Fatalf("DeleteGoal() returned unexpected error: %v", err)
	}

	goals, _ := store.GetAllGoals()
	if len(goals) != 0 {
		t.Errorf("GetAllGoals() returned %d goals after delete, want 0", len(goals))
	}
	entries, _ := store.GetEntries("g1")
	if len(entries) != 0 {
		t.Errorf("GetEntries() returned %d entries after delete, want 0", len(entries))
	}
	cooldowns, _ := store.GetSubtypeCooldowns("g1")
	if len(cooldowns) != 0 {
		t.Errorf("GetSubtypeCooldowns() returned %d cooldowns after delete, want 0", len(cooldowns))
	}
	streaks, _ := store.GetStreaks()
	if len(streaks) != 0 {
		t.Errorf("GetStreaks() returned %d streaks after delete, want 0", len(streaks))
	}
}

func TestJSONStore_SubtypeCooldownRoundTrip(t *testing.T) {
	store := setupJSONStore(t)

	at := time.Date(2025, 6, 16, 12, 30, 0, 0, time.UTC)
	if err := store.SaveSubtypeCooldowns("g1", map[string]time.Time{"lunch": at}); err != nil {
		t.Fatalf("SaveSubtypeCooldowns() returned unexpected error: %v", err)
	}

	reopened := NewJSONStore(store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	cooldowns, err := reopened.GetSubtypeCooldowns("g1")
	if err != nil {
		t.Fatalf("GetSubtypeCooldowns() returned unexpected error: %v", err)
	}
	if !cooldowns["lunch"].Equal(at) {
		t.Errorf("cooldowns[lunch] = %v, want %v", cooldowns["lunch"], at)
	}
}

func TestJSONStore_CompanionStatus(t *testing.T) {
	store := setupJSONStore(t)

	if _, err := store.GetCompanionStatus(); err == nil {
		t.Error("GetCompanionStatus() on a fresh store should fail")
	}

	status := models.NewCompanionStatus(time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC))
	status.Hydration = 64
	status.Mood = models.MoodSleepy
	if err := store.SaveCompanionStatus(status); err != nil {
		t.Fatalf("SaveCompanionStatus() returned unexpected error: %v", err)
	}

	got, err := store.GetCompanionStatus()
	if err != nil {
		t.Fatalf("GetCompanionStatus() returned unexpected error: %v", err)
	}
	if got.Hydration != 64 || got.Mood != models.MoodSleepy {
		t.Errorf("GetCompanionStatus() = %+v, want hydration 64 and mood sleepy", got)
	}
}

func TestJSONStore_SettingsPersist(t *testing.T) {
	store := setupJSONStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() returned unexpected error: %v", err)
	}
	settings.CountAllMeals = true
	settings.SessionMinutes = 15
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() returned unexpected error: %v", err)
	}

	reopened := NewJSONStore(store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	got, err := reopened.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() returned unexpected error: %v", err)
	}
	if !got.CountAllMeals || got.SessionMinutes != 15 {
		t.Errorf("reloaded settings = %+v, want CountAllMeals true and SessionMinutes 15", got)
	}
}
