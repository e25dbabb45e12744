package tracker

import (
	"time"

	"github.com/google/uuid"

	"github.com/mayatruitt/habitpal/internal/models"
)

// generateSchedule produces targetCount entries for the current day,
// spaced intervalSeconds apart from the goal's anchor time and clamped to
// today. None are marked completed.
func generateSchedule(goal models.Goal, now time.Time) []models.GoalEntry {
	anchor := time.Date(
		now.Year(), now.Month(), now.Day(),
		goal.StartTime.Hour(), goal.StartTime.Minute(), goal.StartTime.Second(), 0,
		now.Location(),
	)

	entries := make([]models.GoalEntry, 0, goal.TargetCount)
	for i := 0; i < goal.TargetCount; i++ {
		scheduled := clampToDay(anchor.Add(time.Duration(i)*time.Duration(goal.IntervalSeconds)*time.Second), now)
		entry := models.GoalEntry{
			ID:            uuid.New().String(),
			GoalID:        goal.ID,
			ScheduledTime: scheduled,
		}
		if goal.Category == models.CategoryMeal && i < len(models.MealSubtypes) {
			entry.Subtype = models.MealSubtypes[i]
		}
		entries = append(entries, entry)
	}
	return entries
}

// clampToDay keeps a scheduled time inside the day containing now.
func clampToDay(t, now time.Time) time.Time {
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	if t.After(dayEnd) {
		return dayEnd
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if t.Before(dayStart) {
		return dayStart
	}
	return t
}

// sameDay reports whether two times fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// remapCompleted carries completed entries from an old schedule onto new
// slots in their original order, preserving completion timestamps and
// cooldown expiries, up to the new target count.
func remapCompleted(old, fresh []models.GoalEntry) []models.GoalEntry {
	var completed []models.GoalEntry
	for _, e := range old {
		if e.Completed {
			completed = append(completed, e)
		}
	}

	for i := range fresh {
		if i >= len(completed) {
			break
		}
		fresh[i].Completed = true
		fresh[i].Timestamp = completed[i].Timestamp
		fresh[i].NextAvailableTime = completed[i].NextAvailableTime
		if completed[i].Subtype != "" {
			fresh[i].Subtype = completed[i].Subtype
		}
	}
	return fresh
}

// scheduleStale reports whether today's entries are missing or no longer
// match the goal's shape.
func scheduleStale(goal models.Goal, entries []models.GoalEntry, now time.Time) bool {
	var today []models.GoalEntry
	for _, e := range entries {
		if sameDay(e.ScheduledTime, now) {
			today = append(today, e)
		}
	}
	return len(today) != goal.TargetCount
}
