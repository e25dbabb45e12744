package goals

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mayatruitt/habitpal/internal/analytics"
	"github.com/mayatruitt/habitpal/internal/clock"
	"github.com/mayatruitt/habitpal/internal/companion"
	apperr "github.com/mayatruitt/habitpal/internal/errors"
	"github.com/mayatruitt/habitpal/internal/logger"
	"github.com/mayatruitt/habitpal/internal/models"
	"github.com/mayatruitt/habitpal/internal/rewards"
	"github.com/mayatruitt/habitpal/internal/storage"
	"github.com/mayatruitt/habitpal/internal/tracker"
	"github.com/mayatruitt/habitpal/internal/validation"
)

// Service wires the trackers, the companion simulator, the analytics
// aggregator and the rewards engine together over one store. All writes go
// through the async saver; reads come from memory.
type Service struct {
	mu       sync.Mutex
	store    storage.Provider
	clk      clock.Clock
	settings models.Settings
	trackers map[string]*tracker.Tracker

	sim *companion.Simulator
	agg *analytics.Aggregator
	eng *rewards.Engine

	validator *validation.Validator
	saver     *saver
	external  models.EventSink
}

// coreSink receives events from the trackers, the simulator and the engine
// and fans them out. The emitters publish outside their own locks, so the
// handlers here may call back into any component.
type coreSink struct {
	svc *Service
}

func (c coreSink) EntryLogged(ev models.EntryLogged) {
	c.svc.agg.RecordProgress(ev.Goal, ev.Entry)
	c.svc.sim.OnGoalCompleted(ev.Goal.Category)
	c.svc.scheduleSave()
	c.svc.external.EntryLogged(ev)
}

func (c coreSink) GoalCompleted(ev models.GoalCompleted) {
	rate := c.svc.agg.WeeklyCompletionRate(ev.Goal.ID)
	c.svc.eng.OnGoalCompleted(ev.Goal, rate, c.svc.allActiveGoalsComplete())
	c.svc.scheduleSave()
	c.svc.external.GoalCompleted(ev)
}

func (c coreSink) StatusChanged(ev models.StatusChanged) {
	c.svc.scheduleSave()
	c.svc.external.StatusChanged(ev)
}

func (c coreSink) MoodChanged(ev models.MoodChanged) {
	c.svc.scheduleSave()
	c.svc.external.MoodChanged(ev)
}

func (c coreSink) AchievementUnlocked(ev models.AchievementUnlocked) {
	c.svc.scheduleSave()
	c.svc.external.AchievementUnlocked(ev)
}

// NewService loads all state from the store and builds the runtime. A store
// read failing is not fatal; the affected component starts empty and is
// rewritten on the next save.
func NewService(store storage.Provider, clk clock.Clock, external models.EventSink) (*Service, error) {
	if external == nil {
		external = models.NopSink{}
	}

	svc := &Service{
		store:     store,
		clk:       clk,
		trackers:  make(map[string]*tracker.Tracker),
		validator: validation.New(),
		external:  external,
	}
	sink := coreSink{svc: svc}
	now := clk.Now()

	settings, err := store.GetSettings()
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "error", err)
		settings = storage.DefaultSettings()
	}
	svc.settings = settings

	goalList, err := store.GetAllGoals()
	if err != nil {
		return nil, err
	}
	if len(goalList) == 0 {
		goalList = models.DefaultGoals(now)
		for _, g := range goalList {
			if err := store.SaveGoal(g); err != nil {
				return nil, err
			}
		}
		logger.Info("seeded default goals", "count", len(goalList))
	}

	if result := svc.validator.ValidateGoals(goalList); result.HasConflicts() {
		logger.Warn("goal validation found problems", "report", result.FormatReport())
	}

	for _, goal := range goalList {
		entries, err := store.GetEntries(goal.ID)
		if err != nil {
			logger.Warn("failed to load entries, regenerating schedule", "goal", goal.Title, "error", err)
			entries = nil
		}
		entries = svc.validator.FilterEntries(entries, now)

		cooldowns, err := store.GetSubtypeCooldowns(goal.ID)
		if err != nil {
			cooldowns = nil
		}
		svc.trackers[goal.ID] = tracker.New(goal, entries, cooldowns, clk, sink)
	}

	status, err := store.GetCompanionStatus()
	if err != nil {
		status = models.NewCompanionStatus(now)
	}
	svc.sim = companion.NewSimulator(status, clk, sink)
	svc.sim.RecomputeStatus(now)

	policy := analytics.CountDistinct
	if settings.CountAllMeals {
		policy = analytics.CountAll
	}
	svc.agg = analytics.NewAggregator(clk, policy)
	if buckets, err := store.GetWeeklyBuckets(); err == nil {
		svc.agg.Load(buckets)
	} else {
		logger.Warn("failed to load weekly buckets", "error", err)
	}

	svc.eng = rewards.NewEngine(clk, sink)
	streaks, err := store.GetStreaks()
	if err != nil {
		streaks = nil
	}
	achievements, err := store.GetAchievements()
	if err != nil {
		achievements = nil
	}
	svc.eng.Load(streaks, achievements)

	svc.saver = newSaver(store)
	return svc, nil
}

// Start begins the companion decay tick.
func (s *Service) Start() {
	interval := time.Duration(s.settings.TickIntervalSec) * time.Second
	s.sim.Start(interval)
}

// Close stops background work and flushes any pending save. The store
// itself stays open; the caller owns it.
func (s *Service) Close() {
	s.sim.Stop()
	s.scheduleSave()
	s.saver.close()
}

// scheduleSave snapshots the full runtime state for the async saver.
func (s *Service) scheduleSave() {
	s.mu.Lock()
	snap := snapshot{
		entries:   make(map[string][]models.GoalEntry, len(s.trackers)),
		cooldowns: make(map[string]map[string]time.Time, len(s.trackers)),
	}
	for id, tr := range s.trackers {
		snap.goals = append(snap.goals, tr.Goal())
		snap.entries[id] = tr.Entries()
		snap.cooldowns[id] = tr.SubtypeCooldowns()
	}
	s.mu.Unlock()

	snap.buckets = s.agg.Buckets()
	snap.companion = s.sim.Status()
	snap.streaks = s.eng.Streaks()
	snap.achievements = s.eng.Achievements()

	s.saver.schedule(snap)
}

// allActiveGoalsComplete reports whether every active goal met its target
// today, the condition behind the perfect-day achievement.
func (s *Service) allActiveGoalsComplete() bool {
	for _, tr := range s.Trackers() {
		if !tr.Goal().IsActive {
			continue
		}
		if !tr.IsComplete() {
			return false
		}
	}
	return true
}

// Tracker returns the tracker for a goal ID.
func (s *Service) Tracker(goalID string) (*tracker.Tracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.trackers[goalID]
	return tr, ok
}

// TrackerByCategory returns the first active tracker of a category. The
// built-in goals are one per category, so this is how the quick log
// commands resolve their target.
func (s *Service) TrackerByCategory(category models.GoalCategory) (*tracker.Tracker, bool) {
	for _, tr := range s.Trackers() {
		g := tr.Goal()
		if g.Category == category && g.IsActive {
			return tr, true
		}
	}
	return nil, false
}

// Trackers returns all trackers ordered by goal creation time.
func (s *Service) Trackers() []*tracker.Tracker {
	s.mu.Lock()
	out := make([]*tracker.Tracker, 0, len(s.trackers))
	for _, tr := range s.trackers {
		out = append(out, tr)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Goal().CreatedAt.Before(out[j].Goal().CreatedAt)
	})
	return out
}

// AddGoal validates and registers a new goal with a fresh schedule.
func (s *Service) AddGoal(goal models.Goal) (models.Goal, error) {
	now := s.clk.Now()
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	if goal.StartTime.IsZero() {
		goal.StartTime = now
	}
	goal.IsActive = true

	if err := s.validateWithExisting(goal, ""); err != nil {
		return models.Goal{}, err
	}

	s.mu.Lock()
	s.trackers[goal.ID] = tracker.New(goal, nil, nil, s.clk, coreSink{svc: s})
	s.mu.Unlock()

	s.scheduleSave()
	logger.Info("goal added", "title", goal.Title, "category", goal.Category)
	return goal, nil
}

// UpdateGoal validates a changed goal and regenerates its schedule when the
// shape changed, preserving completions.
func (s *Service) UpdateGoal(goal models.Goal) error {
	s.mu.Lock()
	tr, ok := s.trackers[goal.ID]
	s.mu.Unlock()
	if !ok {
		return apperr.ErrEntryNotFound
	}

	if err := s.validateWithExisting(goal, goal.ID); err != nil {
		return err
	}

	tr.UpdateGoal(goal)
	s.scheduleSave()
	return nil
}

// validateWithExisting runs goal validation against the candidate plus the
// current goal set, excluding the candidate's own previous version.
func (s *Service) validateWithExisting(goal models.Goal, excludeID string) error {
	s.mu.Lock()
	all := []models.Goal{goal}
	for id, tr := range s.trackers {
		if id == excludeID {
			continue
		}
		all = append(all, tr.Goal())
	}
	s.mu.Unlock()

	if result := s.validator.ValidateGoals(all); result.HasConflicts() {
		return apperr.Validationf("%s", result.FormatReport())
	}
	return nil
}

// DeleteGoal removes a custom goal and all of its data. Built-in goals can
// only be deactivated.
func (s *Service) DeleteGoal(goalID string) error {
	s.mu.Lock()
	tr, ok := s.trackers[goalID]
	if ok && tr.Goal().IsDefault {
		s.mu.Unlock()
		return apperr.Validationf("built-in goal %q can be deactivated but not deleted", tr.Goal().Title)
	}
	delete(s.trackers, goalID)
	s.mu.Unlock()

	if !ok {
		return apperr.ErrEntryNotFound
	}

	s.agg.Delete(goalID)
	s.eng.DeleteStreak(goalID)

	// Deletion is synchronous; a snapshot save cannot express removal.
	if err := s.store.DeleteGoal(goalID); err != nil {
		return err
	}
	logger.Info("goal deleted", "id", goalID)
	return nil
}

// LogEntry records one occurrence of a goal. Analytics, companion and
// rewards updates follow from the emitted events.
func (s *Service) LogEntry(goalID, entryID, subtype string) (models.GoalEntry, error) {
	tr, ok := s.Tracker(goalID)
	if !ok {
		return models.GoalEntry{}, apperr.ErrEntryNotFound
	}
	return tr.LogEntry(entryID, subtype)
}

// CompleteSession finishes a session-gated goal for today.
func (s *Service) CompleteSession(goalID string) (models.GoalEntry, error) {
	tr, ok := s.Tracker(goalID)
	if !ok {
		return models.GoalEntry{}, apperr.ErrEntryNotFound
	}
	return tr.CompleteSession()
}

// Refresh regenerates stale schedules and prunes analytics, for day
// rollover while the process stays up.
func (s *Service) Refresh() {
	for _, tr := range s.Trackers() {
		tr.Refresh()
	}
	s.agg.PruneToCurrentWeek()
	s.sim.RecomputeStatus(s.clk.Now())
	s.scheduleSave()
}

// Companion returns the current companion status.
func (s *Service) Companion() models.CompanionStatus {
	return s.sim.Status()
}

// Analytics exposes the aggregator for read paths.
func (s *Service) Analytics() *analytics.Aggregator {
	return s.agg
}

// Rewards exposes the rewards engine for read paths.
func (s *Service) Rewards() *rewards.Engine {
	return s.eng
}

// Settings returns the active settings.
func (s *Service) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings persists new settings immediately. The count policy and
// tick interval take effect on next start.
func (s *Service) UpdateSettings(settings models.Settings) error {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return s.store.SaveSettings(settings)
}
