package models

import (
	"time"

	"github.com/google/uuid"
)

type GoalCategory string

const (
	CategoryWater      GoalCategory = "water"
	CategoryMeal       GoalCategory = "meal"
	CategoryBreak      GoalCategory = "break"
	CategoryMeditation GoalCategory = "meditation"
)

// MealSubtypes are the named slots a meal goal tracks independently.
var MealSubtypes = []string{"breakfast", "morning_snack", "lunch", "afternoon_snack", "dinner"}

// Goal represents a tracked daily habit
type Goal struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Category        GoalCategory `json:"category"`
	TargetCount     int          `json:"target_count"`     // entries per day
	IntervalSeconds int          `json:"interval_seconds"` // cooldown between entries, 0 = none
	StartTime       time.Time    `json:"start_time"`       // anchor for schedule generation
	IsActive        bool         `json:"is_active"`
	IsDefault       bool         `json:"is_default"` // system goal, minimums enforced, never deletable
	RequiresSession bool         `json:"requires_session"` // completion only through a timed session
	ReminderTime    string       `json:"reminder_time,omitempty"` // HH:MM, empty = no custom reminder
	CreatedAt       time.Time    `json:"created_at"`
}

// GoalEntry is a single scheduled slot of a goal for one day
type GoalEntry struct {
	ID                string     `json:"id"`
	GoalID            string     `json:"goal_id"`
	ScheduledTime     time.Time  `json:"scheduled_time"`
	Completed         bool       `json:"completed"`
	Timestamp         *time.Time `json:"timestamp,omitempty"`           // completion time
	NextAvailableTime *time.Time `json:"next_available_time,omitempty"` // cooldown expiry, nil if no interval
	Subtype           string     `json:"subtype,omitempty"`             // meal slot, empty for count-based goals
}

// Day returns the calendar day an entry belongs to, in the entry's location.
func (e GoalEntry) Day() string {
	return e.ScheduledTime.Format("2006-01-02")
}

// CompanionDimension maps a goal category to the companion status dimension
// it satisfies. Meditation has no dimension of its own; sessions count as
// care for the satisfaction dimension.
func (c GoalCategory) CompanionDimension() StatusDimension {
	switch c {
	case CategoryWater:
		return DimensionHydration
	case CategoryMeal, CategoryMeditation:
		return DimensionSatisfaction
	case CategoryBreak:
		return DimensionEnergy
	default:
		return DimensionEnergy
	}
}

// DefaultGoals returns the system-provided goals seeded on init.
func DefaultGoals(now time.Time) []Goal {
	anchor := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, now.Location())
	return []Goal{
		{
			ID:              uuid.New().String(),
			Title:           "Drink water",
			Category:        CategoryWater,
			TargetCount:     8,
			IntervalSeconds: 3600,
			StartTime:       anchor,
			IsActive:        true,
			IsDefault:       true,
			CreatedAt:       now,
		},
		{
			ID:              uuid.New().String(),
			Title:           "Eat regularly",
			Category:        CategoryMeal,
			TargetCount:     len(MealSubtypes),
			IntervalSeconds: 1800,
			StartTime:       anchor,
			IsActive:        true,
			IsDefault:       true,
			CreatedAt:       now,
		},
		{
			ID:              uuid.New().String(),
			Title:           "Take breaks",
			Category:        CategoryBreak,
			TargetCount:     4,
			IntervalSeconds: 7200,
			StartTime:       anchor.Add(time.Hour),
			IsActive:        true,
			IsDefault:       true,
			CreatedAt:       now,
		},
		{
			ID:              uuid.New().String(),
			Title:           "Mindfulness session",
			Category:        CategoryMeditation,
			TargetCount:     1,
			IntervalSeconds: 0,
			StartTime:       anchor.Add(12 * time.Hour),
			IsActive:        true,
			IsDefault:       true,
			RequiresSession: true,
			CreatedAt:       now,
		},
	}
}
