package storage

import (
	"time"

	"github.com/mayatruitt/habitpal/internal/constants"
	"github.com/mayatruitt/habitpal/internal/models"
)

// Provider is the persistence boundary. Every operation may fail; callers
// fall back to empty or default values and keep going, so a broken store
// is never fatal to an interactive session.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Goals
	GetAllGoals() ([]models.Goal, error)
	SaveGoal(models.Goal) error
	DeleteGoal(id string) error

	// Entries
	GetEntries(goalID string) ([]models.GoalEntry, error)
	SaveEntry(models.GoalEntry) error
	ReplaceEntries(goalID string, entries []models.GoalEntry) error

	// Subtype cooldowns, persisted independently of the entry list
	GetSubtypeCooldowns(goalID string) (map[string]time.Time, error)
	SaveSubtypeCooldowns(goalID string, cooldowns map[string]time.Time) error

	// Analytics
	GetWeeklyBuckets() ([]models.WeeklyBucket, error)
	SaveWeeklyBucket(models.WeeklyBucket) error
	DeleteWeeklyBuckets(goalID string) error

	// Companion
	GetCompanionStatus() (models.CompanionStatus, error)
	SaveCompanionStatus(models.CompanionStatus) error

	// Rewards
	GetStreaks() ([]models.GoalStreak, error)
	SaveStreak(models.GoalStreak) error
	GetAchievements() ([]models.Achievement, error)
	SaveAchievements([]models.Achievement) error

	// Utils
	GetConfigPath() string
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() models.Settings {
	return models.Settings{
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		TickIntervalSec:      constants.DefaultTickIntervalSec,
		SessionMinutes:       constants.DefaultSessionMinutes,
		ReminderSweepMin:     constants.DefaultReminderSweepMin,
		Timezone:             constants.DefaultTimezone,
	}
}
