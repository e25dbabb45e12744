package models

import "time"

// GoalStreak tracks consecutive days a goal met its daily target
type GoalStreak struct {
	GoalID             string `json:"goal_id"`
	CurrentStreak      int    `json:"current_streak"`
	BestStreak         int    `json:"best_streak"`
	LastCompletionDate string `json:"last_completion_date,omitempty"` // YYYY-MM-DD
	TotalCompletions   int    `json:"total_completions"`
	PerfectWeeks       int    `json:"perfect_weeks"`
}

type AchievementType string

const (
	AchievementWaterStreak   AchievementType = "water_streak"
	AchievementMealStreak    AchievementType = "meal_streak"
	AchievementBreakStreak   AchievementType = "break_streak"
	AchievementCompanionCare AchievementType = "companion_care"
	AchievementConsistency   AchievementType = "consistency"
	AchievementPerfectDay    AchievementType = "perfect_day"
	AchievementPerfectWeek   AchievementType = "perfect_week"
)

type AchievementLevel string

const (
	LevelBronze   AchievementLevel = "bronze"
	LevelSilver   AchievementLevel = "silver"
	LevelGold     AchievementLevel = "gold"
	LevelPlatinum AchievementLevel = "platinum"
)

// NextLevel returns the successor level and false for platinum.
func (l AchievementLevel) NextLevel() (AchievementLevel, bool) {
	switch l {
	case LevelBronze:
		return LevelSilver, true
	case LevelSilver:
		return LevelGold, true
	case LevelGold:
		return LevelPlatinum, true
	}
	return "", false
}

// Achievement records are append-only: completing a level creates the
// next-level record rather than mutating the completed one.
type Achievement struct {
	ID          string           `json:"id"`
	Type        AchievementType  `json:"type"`
	Level       AchievementLevel `json:"level"`
	Progress    float64          `json:"progress"` // 0..1
	IsCompleted bool             `json:"is_completed"`
	DateEarned  *time.Time       `json:"date_earned,omitempty"`
}
