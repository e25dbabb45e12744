package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mayatruitt/habitpal/internal/models"
)

// Store is the JSON document layout on disk.
type Store struct {
	Version          int                            `json:"version"`
	Settings         models.Settings                `json:"settings"`
	Goals            map[string]models.Goal         `json:"goals"`
	Entries          map[string][]models.GoalEntry  `json:"entries"`           // keyed by goal id
	SubtypeCooldowns map[string]map[string]string   `json:"subtype_cooldowns"` // goal id -> subtype -> RFC3339
	WeeklyBuckets    map[string]models.WeeklyBucket `json:"weekly_buckets"`    // keyed by goal id
	Companion        *models.CompanionStatus        `json:"companion,omitempty"`
	Streaks          map[string]models.GoalStreak   `json:"streaks"`
	Achievements     []models.Achievement           `json:"achievements"`
}

// JSONStore keeps everything in a single JSON file. It is the fallback
// backend; the SQLite store is the default.
type JSONStore struct {
	mu    sync.Mutex
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{path: configPath}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = newEmptyStore()
	s.store.Settings = DefaultSettings()
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitpal init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	empty := newEmptyStore()
	if s.store.Goals == nil {
		s.store.Goals = empty.Goals
	}
	if s.store.Entries == nil {
		s.store.Entries = empty.Entries
	}
	if s.store.SubtypeCooldowns == nil {
		s.store.SubtypeCooldowns = empty.SubtypeCooldowns
	}
	if s.store.WeeklyBuckets == nil {
		s.store.WeeklyBuckets = empty.WeeklyBuckets
	}
	if s.store.Streaks == nil {
		s.store.Streaks = empty.Streaks
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func newEmptyStore() *Store {
	return &Store{
		Version:          1,
		Goals:            make(map[string]models.Goal),
		Entries:          make(map[string][]models.GoalEntry),
		SubtypeCooldowns: make(map[string]map[string]string),
		WeeklyBuckets:    make(map[string]models.WeeklyBucket),
		Streaks:          make(map[string]models.GoalStreak),
	}
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) GetAllGoals() ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	goals := make([]models.Goal, 0, len(s.store.Goals))
	for _, g := range s.store.Goals {
		goals = append(goals, g)
	}
	return goals, nil
}

func (s *JSONStore) SaveGoal(goal models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Goals[goal.ID] = goal
	return s.save()
}

func (s *JSONStore) DeleteGoal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store.Goals, id)
	delete(s.store.Entries, id)
	delete(s.store.SubtypeCooldowns, id)
	delete(s.store.WeeklyBuckets, id)
	delete(s.store.Streaks, id)
	return s.save()
}

func (s *JSONStore) GetEntries(goalID string) ([]models.GoalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GoalEntry(nil), s.store.Entries[goalID]...), nil
}

func (s *JSONStore) SaveEntry(entry models.GoalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.store.Entries[entry.GoalID]
	replaced := false
	for i, e := range entries {
		if e.ID == entry.ID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	s.store.Entries[entry.GoalID] = entries
	return s.save()
}

func (s *JSONStore) ReplaceEntries(goalID string, entries []models.GoalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Entries[goalID] = append([]models.GoalEntry(nil), entries...)
	return s.save()
}

func (s *JSONStore) GetSubtypeCooldowns(goalID string) (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]time.Time)
	for subtype, raw := range s.store.SubtypeCooldowns[goalID] {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			continue // drop unparseable records, never fail the load
		}
		out[subtype] = t
	}
	return out, nil
}

func (s *JSONStore) SaveSubtypeCooldowns(goalID string, cooldowns map[string]time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := make(map[string]string, len(cooldowns))
	for subtype, t := range cooldowns {
		raw[subtype] = t.Format(time.RFC3339)
	}
	s.store.SubtypeCooldowns[goalID] = raw
	return s.save()
}

func (s *JSONStore) GetWeeklyBuckets() ([]models.WeeklyBucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buckets := make([]models.WeeklyBucket, 0, len(s.store.WeeklyBuckets))
	for _, b := range s.store.WeeklyBuckets {
		buckets = append(buckets, b)
	}
	return buckets, nil
}

func (s *JSONStore) SaveWeeklyBucket(bucket models.WeeklyBucket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.WeeklyBuckets[bucket.GoalID] = bucket
	return s.save()
}

func (s *JSONStore) DeleteWeeklyBuckets(goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store.WeeklyBuckets, goalID)
	return s.save()
}

func (s *JSONStore) GetCompanionStatus() (models.CompanionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.Companion == nil {
		return models.CompanionStatus{}, fmt.Errorf("no companion status stored")
	}
	return *s.store.Companion, nil
}

func (s *JSONStore) SaveCompanionStatus(status models.CompanionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Companion = &status
	return s.save()
}

func (s *JSONStore) GetStreaks() ([]models.GoalStreak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	streaks := make([]models.GoalStreak, 0, len(s.store.Streaks))
	for _, st := range s.store.Streaks {
		streaks = append(streaks, st)
	}
	return streaks, nil
}

func (s *JSONStore) SaveStreak(streak models.GoalStreak) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Streaks[streak.GoalID] = streak
	return s.save()
}

func (s *JSONStore) GetAchievements() ([]models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Achievement(nil), s.store.Achievements...), nil
}

func (s *JSONStore) SaveAchievements(achievements []models.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Achievements = append([]models.Achievement(nil), achievements...)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
