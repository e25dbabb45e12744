package analytics

import (
	"sync"
	"time"

	"github.com/mayatruitt/habitpal/internal/clock"
	"github.com/mayatruitt/habitpal/internal/constants"
	"github.com/mayatruitt/habitpal/internal/logger"
	"github.com/mayatruitt/habitpal/internal/models"
)

// CountPolicy controls how repeated subtype completions count within a
// day. The original behavior counted every log; distinct counting drops
// repeats of a subtype already in the bucket.
type CountPolicy int

const (
	CountDistinct CountPolicy = iota
	CountAll
)

// Aggregator maintains one rolling week of daily completion buckets per
// goal. Buckets from any other week are purged, never archived.
type Aggregator struct {
	mu      sync.Mutex
	buckets map[string]*models.WeeklyBucket
	policy  CountPolicy
	clock   clock.Clock
}

func NewAggregator(clk clock.Clock, policy CountPolicy) *Aggregator {
	return &Aggregator{
		buckets: make(map[string]*models.WeeklyBucket),
		policy:  policy,
		clock:   clk,
	}
}

// WeekStart returns the Monday of the calendar week containing t.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Load replaces the in-memory buckets with persisted ones, dropping any
// bucket that does not belong to the current week.
func (a *Aggregator) Load(buckets []models.WeeklyBucket) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.buckets = make(map[string]*models.WeeklyBucket, len(buckets))
	for i := range buckets {
		b := buckets[i]
		a.buckets[b.GoalID] = &b
	}
	a.pruneLocked()
}

// PruneToCurrentWeek drops every bucket whose week start is not the
// current week's. There is no history; downstream consumers assume the
// bucket count is exactly seven days of the current week.
func (a *Aggregator) PruneToCurrentWeek() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pruneLocked()
}

func (a *Aggregator) pruneLocked() {
	current := WeekStart(a.clock.Now()).Format(constants.DateFormat)
	for id, b := range a.buckets {
		if b.WeekStartDate != current {
			logger.Debug("pruning stale weekly bucket", "goal", id, "week", b.WeekStartDate)
			delete(a.buckets, id)
		}
	}
}

// Delete removes a goal's bucket, for goal deletion.
func (a *Aggregator) Delete(goalID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.buckets, goalID)
}

// RecordProgress folds a completed entry into today's day bucket, creating
// the goal's weekly bucket lazily.
func (a *Aggregator) RecordProgress(goal models.Goal, entry models.GoalEntry) {
	if !entry.Completed || entry.Timestamp == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.clock.Now()
	bucket := a.ensureBucketLocked(goal, now)

	today := now.Format(constants.DateFormat)
	for i := range bucket.Days {
		if bucket.Days[i].Date != today {
			continue
		}
		day := &bucket.Days[i]
		day.TargetCount = goal.TargetCount

		if entry.Subtype != "" {
			if a.policy == CountDistinct && containsSubtype(day.LoggedSubtypes, entry.Subtype) {
				return
			}
			day.LoggedSubtypes = append(day.LoggedSubtypes, entry.Subtype)
		}

		day.CompletedCount++
		day.CompletionTimes = append(day.CompletionTimes, *entry.Timestamp)
		return
	}
}

// ensureBucketLocked returns the goal's bucket for the current week,
// creating seven empty day buckets when none exists or the stored bucket
// belongs to another week.
func (a *Aggregator) ensureBucketLocked(goal models.Goal, now time.Time) *models.WeeklyBucket {
	weekStart := WeekStart(now)
	weekStartStr := weekStart.Format(constants.DateFormat)

	bucket, ok := a.buckets[goal.ID]
	if ok && bucket.WeekStartDate == weekStartStr {
		return bucket
	}

	bucket = &models.WeeklyBucket{
		GoalID:        goal.ID,
		WeekStartDate: weekStartStr,
	}
	for i := 0; i < 7; i++ {
		bucket.Days[i] = models.DayBucket{
			Date:        weekStart.AddDate(0, 0, i).Format(constants.DateFormat),
			TargetCount: goal.TargetCount,
		}
	}
	a.buckets[goal.ID] = bucket
	return bucket
}

// Bucket returns a copy of a goal's weekly bucket.
func (a *Aggregator) Bucket(goalID string) (models.WeeklyBucket, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.buckets[goalID]
	if !ok {
		return models.WeeklyBucket{}, false
	}
	return *b, true
}

// Buckets returns copies of every bucket for persistence.
func (a *Aggregator) Buckets() []models.WeeklyBucket {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.WeeklyBucket, 0, len(a.buckets))
	for _, b := range a.buckets {
		out = append(out, *b)
	}
	return out
}

// WeeklyCompletionRate is total completed over total target across the
// seven buckets. Overachievement is not clamped; the rate may exceed 1.
func (a *Aggregator) WeeklyCompletionRate(goalID string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.buckets[goalID]
	if !ok {
		return 0
	}
	var completed, target int
	for _, d := range b.Days {
		completed += d.CompletedCount
		target += d.TargetCount
	}
	if target == 0 {
		return 0
	}
	return float64(completed) / float64(target)
}

// DailyCompletionRate is today's completed over today's target.
func (a *Aggregator) DailyCompletionRate(goalID string) float64 {
	day, ok := a.todayBucket(goalID)
	if !ok || day.TargetCount == 0 {
		return 0
	}
	return float64(day.CompletedCount) / float64(day.TargetCount)
}

// IsPerfectDay reports whether today's bucket met its target.
func (a *Aggregator) IsPerfectDay(goalID string) bool {
	day, ok := a.todayBucket(goalID)
	return ok && day.TargetCount > 0 && day.CompletedCount >= day.TargetCount
}

// IsPerfectWeek reports whether every day from the week start through
// today met its target. Days after today are not required.
func (a *Aggregator) IsPerfectWeek(goalID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.buckets[goalID]
	if !ok {
		return false
	}

	today := a.clock.Now().Format(constants.DateFormat)
	for _, d := range b.Days {
		if d.Date > today {
			break
		}
		if d.TargetCount == 0 || d.CompletedCount < d.TargetCount {
			return false
		}
	}
	return true
}

func (a *Aggregator) todayBucket(goalID string) (models.DayBucket, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.buckets[goalID]
	if !ok {
		return models.DayBucket{}, false
	}
	today := a.clock.Now().Format(constants.DateFormat)
	for _, d := range b.Days {
		if d.Date == today {
			return d, true
		}
	}
	return models.DayBucket{}, false
}

func containsSubtype(list []string, st string) bool {
	for _, s := range list {
		if s == st {
			return true
		}
	}
	return false
}
