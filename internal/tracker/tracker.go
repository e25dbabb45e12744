package tracker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mayatruitt/habitpal/internal/clock"
	"github.com/mayatruitt/habitpal/internal/constants"
	apperr "github.com/mayatruitt/habitpal/internal/errors"
	"github.com/mayatruitt/habitpal/internal/models"
)

// Tracker owns one goal's daily schedule and cooldown state machine. Its
// states are Idle (may log), Cooldown (blocked until a timestamp) and the
// derived Completed (daily target met, blocks logging regardless of
// cooldown).
type Tracker struct {
	mu               sync.Mutex
	goal             models.Goal
	entries          []models.GoalEntry
	subtypeCooldowns map[string]time.Time
	lastLogTime      time.Time
	policy           Policy
	clock            clock.Clock
	sink             models.EventSink

	// inFlight rejects a concurrent LogEntry rather than queuing it, so a
	// physical log attempt lands at most once.
	inFlight atomic.Bool
}

// New restores a tracker from persisted state. Entries not belonging to
// today are discarded and a stale or missing schedule is regenerated.
func New(goal models.Goal, entries []models.GoalEntry, subtypeCooldowns map[string]time.Time, clk clock.Clock, sink models.EventSink) *Tracker {
	if sink == nil {
		sink = models.NopSink{}
	}
	if subtypeCooldowns == nil {
		subtypeCooldowns = make(map[string]time.Time)
	}

	t := &Tracker{
		goal:             goal,
		subtypeCooldowns: subtypeCooldowns,
		policy:           PolicyFor(goal.Category),
		clock:            clk,
		sink:             sink,
	}

	now := clk.Now()
	var today []models.GoalEntry
	for _, e := range entries {
		if sameDay(e.ScheduledTime, now) {
			today = append(today, e)
		}
	}

	if scheduleStale(goal, today, now) {
		t.entries = remapCompleted(today, generateSchedule(goal, now))
	} else {
		t.entries = today
	}

	return t
}

// Goal returns the tracked goal.
func (t *Tracker) Goal() models.Goal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.goal
}

// Entries returns a copy of today's entries.
func (t *Tracker) Entries() []models.GoalEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.GoalEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// SubtypeCooldowns returns a copy of the per-subtype cooldown map. It is
// persisted independently of the entry list.
func (t *Tracker) SubtypeCooldowns() map[string]time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]time.Time, len(t.subtypeCooldowns))
	for k, v := range t.subtypeCooldowns {
		out[k] = v
	}
	return out
}

// CompletedCount returns how many of today's entries are completed.
func (t *Tracker) CompletedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completedCountLocked()
}

func (t *Tracker) completedCountLocked() int {
	n := 0
	for _, e := range t.entries {
		if e.Completed {
			n++
		}
	}
	return n
}

// IsComplete reports whether the goal met its daily target.
func (t *Tracker) IsComplete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.policy.IsComplete(t.goal, t.entries)
}

// CanLog reports whether a log attempt would be accepted right now,
// ignoring the throttle window.
func (t *Tracker) CanLog() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canLogLocked(t.clock.Now()) == nil
}

func (t *Tracker) canLogLocked(now time.Time) error {
	if !t.goal.IsActive {
		return apperr.ErrGoalInactive
	}
	if t.completedCountLocked() >= t.goal.TargetCount {
		return apperr.ErrGoalCompleted
	}
	if t.goal.IntervalSeconds == 0 || !t.policy.SharedCooldown() {
		return nil
	}
	if until := t.cooldownEndLocked(); !until.IsZero() && now.Before(until) {
		return apperr.ErrCooldownActive
	}
	return nil
}

// cooldownEndLocked returns the latest cooldown expiry among completed
// entries, or the zero time when no cooldown applies.
func (t *Tracker) cooldownEndLocked() time.Time {
	var end time.Time
	for _, e := range t.entries {
		if e.Completed && e.NextAvailableTime != nil && e.NextAvailableTime.After(end) {
			end = *e.NextAvailableTime
		}
	}
	return end
}

// CooldownEnd reports when logging becomes available again. The zero time
// means no cooldown is active.
func (t *Tracker) CooldownEnd() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cooldownEndLocked()
}

// LogEntry marks the identified entry completed. The empty id picks the
// first uncompleted entry. Subtype selects a named slot for subtype-based
// goals. At most one LogEntry runs per goal at a time; a concurrent call
// is rejected, not queued.
func (t *Tracker) LogEntry(entryID, subtype string) (models.GoalEntry, error) {
	if !t.inFlight.CompareAndSwap(false, true) {
		return models.GoalEntry{}, apperr.ErrLogInFlight
	}
	defer t.inFlight.Store(false)

	t.mu.Lock()
	now := t.clock.Now()

	if t.goal.RequiresSession {
		t.mu.Unlock()
		return models.GoalEntry{}, apperr.ErrSpecialInterface
	}

	if !t.lastLogTime.IsZero() && now.Sub(t.lastLogTime) < constants.LogThrottleMs*time.Millisecond {
		t.mu.Unlock()
		return models.GoalEntry{}, apperr.ErrThrottled
	}

	if err := t.canLogLocked(now); err != nil {
		t.mu.Unlock()
		return models.GoalEntry{}, err
	}

	if subtype != "" {
		if err := t.policy.CheckSubtype(subtype, t.entries, t.subtypeCooldowns, now); err != nil {
			t.mu.Unlock()
			return models.GoalEntry{}, err
		}
	}

	idx, err := t.findEntryLocked(entryID, subtype)
	if err != nil {
		t.mu.Unlock()
		return models.GoalEntry{}, err
	}

	entry := t.completeLocked(idx, now)

	if subtype != "" && t.goal.IntervalSeconds > 0 {
		t.subtypeCooldowns[subtype] = now.Add(time.Duration(t.goal.IntervalSeconds) * time.Second)
	}

	goal := t.goal
	complete := t.policy.IsComplete(goal, t.entries)
	t.mu.Unlock()

	t.sink.EntryLogged(models.EntryLogged{Goal: goal, Entry: entry})
	if complete {
		t.sink.GoalCompleted(models.GoalCompleted{Goal: goal, At: now})
	}

	return entry, nil
}

func (t *Tracker) findEntryLocked(entryID, subtype string) (int, error) {
	for i, e := range t.entries {
		if e.Completed {
			continue
		}
		switch {
		case entryID != "":
			if e.ID == entryID {
				return i, nil
			}
		case subtype != "":
			if e.Subtype == subtype {
				return i, nil
			}
		default:
			return i, nil
		}
	}
	return 0, apperr.ErrEntryNotFound
}

// completeLocked marks the entry at idx completed as of now and records
// the cooldown expiry.
func (t *Tracker) completeLocked(idx int, now time.Time) models.GoalEntry {
	ts := now
	t.entries[idx].Completed = true
	t.entries[idx].Timestamp = &ts

	next := now
	if t.goal.IntervalSeconds > 0 {
		next = now.Add(time.Duration(t.goal.IntervalSeconds) * time.Second)
		t.entries[idx].NextAvailableTime = &next
	}

	t.lastLogTime = now
	return t.entries[idx]
}

// CompleteSession records a finished timed session for goals that reject
// direct logging. It appends a synthetic completed entry and follows the
// same event emission as a regular log.
func (t *Tracker) CompleteSession() (models.GoalEntry, error) {
	if !t.inFlight.CompareAndSwap(false, true) {
		return models.GoalEntry{}, apperr.ErrLogInFlight
	}
	defer t.inFlight.Store(false)

	t.mu.Lock()
	now := t.clock.Now()

	if !t.goal.RequiresSession {
		t.mu.Unlock()
		return models.GoalEntry{}, apperr.Validationf("goal %q does not use sessions", t.goal.Title)
	}
	if !t.goal.IsActive {
		t.mu.Unlock()
		return models.GoalEntry{}, apperr.ErrGoalInactive
	}
	if t.completedCountLocked() >= t.goal.TargetCount {
		t.mu.Unlock()
		return models.GoalEntry{}, apperr.ErrGoalCompleted
	}

	ts := now
	entry := models.GoalEntry{
		ID:            uuid.New().String(),
		GoalID:        t.goal.ID,
		ScheduledTime: now,
		Completed:     true,
		Timestamp:     &ts,
	}
	t.entries = append(t.entries, entry)
	t.lastLogTime = now

	goal := t.goal
	complete := t.policy.IsComplete(goal, t.entries)
	t.mu.Unlock()

	t.sink.EntryLogged(models.EntryLogged{Goal: goal, Entry: entry})
	if complete {
		t.sink.GoalCompleted(models.GoalCompleted{Goal: goal, At: now})
	}

	return entry, nil
}

// UpdateGoal replaces the goal definition. A shape change regenerates
// today's schedule, remapping already-completed entries onto the new
// slots.
func (t *Tracker) UpdateGoal(goal models.Goal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	shapeChanged := goal.TargetCount != t.goal.TargetCount || goal.IntervalSeconds != t.goal.IntervalSeconds
	t.goal = goal
	t.policy = PolicyFor(goal.Category)

	if shapeChanged {
		t.entries = remapCompleted(t.entries, generateSchedule(goal, t.clock.Now()))
	}
}

// Refresh regenerates the schedule when the tracked day has rolled over or
// the entries have gone stale. Completed entries from a previous day do
// not carry forward.
func (t *Tracker) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	var today []models.GoalEntry
	for _, e := range t.entries {
		if sameDay(e.ScheduledTime, now) {
			today = append(today, e)
		}
	}
	if scheduleStale(t.goal, today, now) {
		t.entries = remapCompleted(today, generateSchedule(t.goal, now))
	}
}
