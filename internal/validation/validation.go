package validation

import (
	"fmt"
	"time"

	"github.com/mayatruitt/habitpal/internal/constants"
	"github.com/mayatruitt/habitpal/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMissingGoalID      ConflictType = "missing_goal_id"
	ConflictDuplicateGoalTitle ConflictType = "duplicate_goal_title"
	ConflictUnknownCategory    ConflictType = "unknown_category"
	ConflictInvalidTarget      ConflictType = "invalid_target"
	ConflictInvalidInterval    ConflictType = "invalid_interval"
	ConflictInvalidTime        ConflictType = "invalid_time"
	ConflictBelowDefaultFloor  ConflictType = "below_default_floor"
	ConflictStaleEntry         ConflictType = "stale_entry"
)

// Conflict represents a detected problem in goals or entries
type Conflict struct {
	Type        ConflictType
	Description string
	GoalIDs     []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No problems detected."
	}

	report := "Problems detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Minimum daily targets that the built-in goals may not be edited below.
var defaultFloors = map[models.GoalCategory]int{
	models.CategoryWater:      4,
	models.CategoryMeal:       3,
	models.CategoryBreak:      2,
	models.CategoryMeditation: 1,
}

var knownCategories = map[models.GoalCategory]bool{
	models.CategoryWater:      true,
	models.CategoryMeal:       true,
	models.CategoryBreak:      true,
	models.CategoryMeditation: true,
}

// Validator checks goals and persisted entries for inconsistencies
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateGoals checks goal definitions for conflicts
func (v *Validator) ValidateGoals(goals []models.Goal) ValidationResult {
	result := ValidationResult{}

	seenTitles := make(map[string]string)
	for _, goal := range goals {
		if goal.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingGoalID,
				Description: fmt.Sprintf("goal %q has no ID", goal.Title),
			})
		}

		if prev, ok := seenTitles[goal.Title]; ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateGoalTitle,
				Description: fmt.Sprintf("duplicate goal title %q", goal.Title),
				GoalIDs:     []string{prev, goal.ID},
			})
		} else {
			seenTitles[goal.Title] = goal.ID
		}

		if !knownCategories[goal.Category] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownCategory,
				Description: fmt.Sprintf("goal %q has unknown category %q", goal.Title, goal.Category),
				GoalIDs:     []string{goal.ID},
			})
		}

		if goal.TargetCount < 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTarget,
				Description: fmt.Sprintf("goal %q has target count %d (must be at least 1)", goal.Title, goal.TargetCount),
				GoalIDs:     []string{goal.ID},
			})
		}

		if goal.IntervalSeconds < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidInterval,
				Description: fmt.Sprintf("goal %q has negative cooldown interval", goal.Title),
				GoalIDs:     []string{goal.ID},
			})
		}

		if goal.ReminderTime != "" {
			if _, err := time.Parse(constants.TimeFormat, goal.ReminderTime); err != nil {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidTime,
					Description: fmt.Sprintf("goal %q has invalid reminder time %q (expected HH:MM)", goal.Title, goal.ReminderTime),
					GoalIDs:     []string{goal.ID},
				})
			}
		}

		if goal.IsDefault {
			if floor, ok := defaultFloors[goal.Category]; ok && goal.TargetCount < floor {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictBelowDefaultFloor,
					Description: fmt.Sprintf("built-in goal %q cannot go below %d per day", goal.Title, floor),
					GoalIDs:     []string{goal.ID},
				})
			}
		}
	}

	return result
}

// ValidateEntries flags persisted entries whose timestamps fall outside a
// sane window around now. Corrupt clocks and hand-edited files both produce
// these; the caller drops flagged entries instead of failing the load.
func (v *Validator) ValidateEntries(entries []models.GoalEntry, now time.Time) ValidationResult {
	result := ValidationResult{}

	earliest := now.AddDate(0, 0, -constants.SaneDateRangeDays)
	latest := now.AddDate(0, 0, constants.SaneDateRangeDays)

	for _, entry := range entries {
		if entry.ScheduledTime.Before(earliest) || entry.ScheduledTime.After(latest) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictStaleEntry,
				Description: fmt.Sprintf("entry %s scheduled at %s is outside the plausible date range", entry.ID, entry.ScheduledTime.Format(constants.DateFormat)),
				GoalIDs:     []string{entry.GoalID},
			})
			continue
		}
		if entry.Timestamp != nil && (entry.Timestamp.Before(earliest) || entry.Timestamp.After(latest)) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictStaleEntry,
				Description: fmt.Sprintf("entry %s completed at %s is outside the plausible date range", entry.ID, entry.Timestamp.Format(constants.DateFormat)),
				GoalIDs:     []string{entry.GoalID},
			})
		}
	}

	return result
}

// FilterEntries returns the entries that pass ValidateEntries.
func (v *Validator) FilterEntries(entries []models.GoalEntry, now time.Time) []models.GoalEntry {
	earliest := now.AddDate(0, 0, -constants.SaneDateRangeDays)
	latest := now.AddDate(0, 0, constants.SaneDateRangeDays)

	var kept []models.GoalEntry
	for _, entry := range entries {
		if entry.ScheduledTime.Before(earliest) || entry.ScheduledTime.After(latest) {
			continue
		}
		if entry.Timestamp != nil && (entry.Timestamp.Before(earliest) || entry.Timestamp.After(latest)) {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
