package goals

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mayatruitt/habitpal/internal/clock"
	apperr "github.com/mayatruitt/habitpal/internal/errors"
	"github.com/mayatruitt/habitpal/internal/models"
	"github.com/mayatruitt/habitpal/internal/storage"
)

// memStore is an in-memory Provider for coordinator tests.
type memStore struct {
	mu           sync.Mutex
	settings     models.Settings
	goals        map[string]models.Goal
	entries      map[string][]models.GoalEntry
	cooldowns    map[string]map[string]time.Time
	buckets      map[string]models.WeeklyBucket
	companion    *models.CompanionStatus
	streaks      map[string]models.GoalStreak
	achievements []models.Achievement
}

func newMemStore() *memStore {
	return &memStore{
		settings:  storage.DefaultSettings(),
		goals:     make(map[string]models.Goal),
		entries:   make(map[string][]models.GoalEntry),
		cooldowns: make(map[string]map[string]time.Time),
		buckets:   make(map[string]models.WeeklyBucket),
		streaks:   make(map[string]models.GoalStreak),
	}
}

func (m *memStore) Init() error  { return nil }
func (m *memStore) Load() error  { return nil }
func (m *memStore) Close() error { return nil }

func (m *memStore) GetSettings() (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

func (m *memStore) SaveSettings(s models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

func (m *memStore) GetAllGoals() ([]models.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Goal
	for _, g := range m.goals {
		out = append(out, g)
	}
	return out, nil
}

func (m *memStore) SaveGoal(g models.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[g.ID] = g
	return nil
}

func (m *memStore) DeleteGoal(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.goals, id)
	delete(m.entries, id)
	delete(m.cooldowns, id)
	delete(m.buckets, id)
	delete(m.streaks, id)
	return nil
}

func (m *memStore) GetEntries(goalID string) ([]models.GoalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.GoalEntry(nil), m.entries[goalID]...), nil
}

func (m *memStore) SaveEntry(e models.GoalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.entries[e.GoalID] {
		if existing.ID == e.ID {
			m.entries[e.GoalID][i] = e
			return nil
		}
	}
	m.entries[e.GoalID] = append(m.entries[e.GoalID], e)
	return nil
}

func (m *memStore) ReplaceEntries(goalID string, entries []models.GoalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[goalID] = append([]models.GoalEntry(nil), entries...)
	return nil
}

func (m *memStore) GetSubtypeCooldowns(goalID string) (map[string]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cooldowns[goalID], nil
}

func (m *memStore) SaveSubtypeCooldowns(goalID string, c map[string]time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cooldowns[goalID] = c
	return nil
}

func (m *memStore) GetWeeklyBuckets() ([]models.WeeklyBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WeeklyBucket
	for _, b := range m.buckets {
		out = append(out, b)
	}
	return out, nil
}

func (m *memStore) SaveWeeklyBucket(b models.WeeklyBucket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[b.GoalID] = b
	return nil
}

func (m *memStore) DeleteWeeklyBuckets(goalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets, goalID)
	return nil
}

func (m *memStore) GetCompanionStatus() (models.CompanionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.companion == nil {
		return models.CompanionStatus{}, errors.New("no companion status")
	}
	return *m.companion, nil
}

func (m *memStore) SaveCompanionStatus(s models.CompanionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companion = &s
	return nil
}

func (m *memStore) GetStreaks() ([]models.GoalStreak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.GoalStreak
	for _, s := range m.streaks {
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) SaveStreak(s models.GoalStreak) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streaks[s.GoalID] = s
	return nil
}

func (m *memStore) GetAchievements() ([]models.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Achievement(nil), m.achievements...), nil
}

func (m *memStore) SaveAchievements(a []models.Achievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.achievements = append([]models.Achievement(nil), a...)
	return nil
}

func (m *memStore) GetConfigPath() string { return "memory" }

func newTestService(t *testing.T) (*Service, *memStore, *clock.Fake) {
	t.Helper()
	store := newMemStore()
	clk := clock.NewFake(time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC)) // a Monday
	svc, err := NewService(store, clk, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, store, clk
}

func TestNewService_SeedsDefaultGoals(t *testing.T) {
	svc, store, _ := newTestService(t)
	defer svc.Close()

	trackers := svc.Trackers()
	if len(trackers) != 4 {
		t.Fatalf("Expected 4 default trackers, got %d", len(trackers))
	}

	goals, _ := store.GetAllGoals()
	if len(goals) != 4 {
		t.Errorf("Expected 4 goals persisted on first run, got %d", len(goals))
	}

	categories := make(map[models.GoalCategory]bool)
	ids := make(map[string]bool)
	for _, tr := range trackers {
		goal := tr.Goal()
		categories[goal.Category] = true
		if goal.ID == "" {
			t.Errorf("Default goal %q seeded without an ID", goal.Title)
		}
		if ids[goal.ID] {
			t.Errorf("Default goal %q reuses ID %s", goal.Title, goal.ID)
		}
		ids[goal.ID] = true
	}
	for _, c := range []models.GoalCategory{models.CategoryWater, models.CategoryMeal, models.CategoryBreak, models.CategoryMeditation} {
		if !categories[c] {
			t.Errorf("Expected a default goal for category %s", c)
		}
	}
}

func TestLogEntry_UpdatesCompanionAndAnalytics(t *testing.T) {
	svc, _, clk := newTestService(t)
	defer svc.Close()

	// Let hydration decay first so the reset is observable
	clk.Advance(3 * time.Hour)
	svc.Refresh()
	if h := svc.Companion().Hydration; h >= 100 {
		t.Fatalf("Expected hydration to decay before logging, got %.1f", h)
	}

	tr, ok := svc.TrackerByCategory(models.CategoryWater)
	if !ok {
		t.Fatal("Expected a water tracker")
	}

	entry := tr.Entries()[0]
	if _, err := svc.LogEntry(tr.Goal().ID, entry.ID, ""); err != nil {
		t.Fatalf("LogEntry failed: %v", err)
	}

	if h := svc.Companion().Hydration; h != 100 {
		t.Errorf("Expected hydration reset to 100 after logging water, got %.1f", h)
	}

	bucket, ok := svc.Analytics().Bucket(tr.Goal().ID)
	if !ok {
		t.Fatal("Expected a weekly bucket after logging")
	}
	total := 0
	for _, day := range bucket.Days {
		total += day.CompletedCount
	}
	if total != 1 {
		t.Errorf("Expected 1 completion recorded, got %d", total)
	}
}

func TestClose_FlushesPendingState(t *testing.T) {
	svc, store, _ := newTestService(t)

	tr, ok := svc.TrackerByCategory(models.CategoryWater)
	if !ok {
		t.Fatal("Expected a water tracker")
	}
	entry := tr.Entries()[0]
	if _, err := svc.LogEntry(tr.Goal().ID, entry.ID, ""); err != nil {
		t.Fatalf("LogEntry failed: %v", err)
	}

	svc.Close()

	persisted, _ := store.GetEntries(tr.Goal().ID)
	completed := 0
	for _, e := range persisted {
		if e.Completed {
			completed++
		}
	}
	if completed != 1 {
		t.Errorf("Expected 1 completed entry persisted after Close, got %d", completed)
	}

	if store.companion == nil {
		t.Error("Expected companion status persisted after Close")
	}
}

func TestDeleteGoal_RejectsBuiltIn(t *testing.T) {
	svc, _, _ := newTestService(t)
	defer svc.Close()

	tr, _ := svc.TrackerByCategory(models.CategoryWater)
	err := svc.DeleteGoal(tr.Goal().ID)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Expected validation error deleting a built-in goal, got %v", err)
	}
	if _, ok := svc.Tracker(tr.Goal().ID); !ok {
		t.Error("Built-in goal should survive a rejected delete")
	}
}

func TestAddGoal_RejectsDuplicateTitle(t *testing.T) {
	svc, _, _ := newTestService(t)
	defer svc.Close()

	existing, _ := svc.TrackerByCategory(models.CategoryWater)
	_, err := svc.AddGoal(models.Goal{
		Title:       existing.Goal().Title,
		Category:    models.CategoryWater,
		TargetCount: 4,
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Expected validation error for duplicate title, got %v", err)
	}
}

func TestAddAndDeleteCustomGoal(t *testing.T) {
	svc, store, _ := newTestService(t)
	defer svc.Close()

	goal, err := svc.AddGoal(models.Goal{
		Title:       "Afternoon Stretch",
		Category:    models.CategoryBreak,
		TargetCount: 2,
	})
	if err != nil {
		t.Fatalf("AddGoal failed: %v", err)
	}
	if goal.ID == "" {
		t.Fatal("Expected AddGoal to assign an ID")
	}

	tr, ok := svc.Tracker(goal.ID)
	if !ok {
		t.Fatal("Expected a tracker for the new goal")
	}
	if len(tr.Entries()) != 2 {
		t.Errorf("Expected 2 scheduled entries, got %d", len(tr.Entries()))
	}

	if err := svc.DeleteGoal(goal.ID); err != nil {
		t.Fatalf("DeleteGoal failed: %v", err)
	}
	if _, ok := store.goals[goal.ID]; ok {
		t.Error("Expected goal removed from the store")
	}
}

func TestGoalCompletion_StartsStreak(t *testing.T) {
	svc, _, clk := newTestService(t)
	defer svc.Close()

	tr, _ := svc.TrackerByCategory(models.CategoryMeditation)
	goalID := tr.Goal().ID

	if _, err := svc.CompleteSession(goalID); err != nil {
		t.Fatalf("CompleteSession failed: %v", err)
	}

	streak := svc.Rewards().Streak(goalID)
	if streak.CurrentStreak != 1 {
		t.Errorf("Expected streak of 1 after completing the daily target, got %d", streak.CurrentStreak)
	}
	if streak.TotalCompletions != 1 {
		t.Errorf("Expected 1 total completion, got %d", streak.TotalCompletions)
	}

	// Next day keeps the streak going
	clk.Advance(24 * time.Hour)
	svc.Refresh()
	if _, err := svc.CompleteSession(goalID); err != nil {
		t.Fatalf("CompleteSession on day two failed: %v", err)
	}
	if got := svc.Rewards().Streak(goalID).CurrentStreak; got != 2 {
		t.Errorf("Expected streak of 2 on consecutive days, got %d", got)
	}
}
