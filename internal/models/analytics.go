package models

import "time"

// DayBucket aggregates one day's completions for a goal
type DayBucket struct {
	Date            string      `json:"date"` // YYYY-MM-DD
	CompletedCount  int         `json:"completed_count"`
	TargetCount     int         `json:"target_count"`
	CompletionTimes []time.Time `json:"completion_times,omitempty"`
	LoggedSubtypes  []string    `json:"logged_subtypes,omitempty"`
}

// WeeklyBucket holds the rolling week of day buckets for a goal. Buckets
// from prior weeks are purged, never archived.
type WeeklyBucket struct {
	GoalID        string       `json:"goal_id"`
	WeekStartDate string       `json:"week_start_date"` // YYYY-MM-DD, Monday
	Days          [7]DayBucket `json:"days"`
}
