package models

// Settings keeps runtime configuration persisted alongside the data.
type Settings struct {
	NotificationsEnabled bool   `json:"notifications_enabled"`
	TickIntervalSec      int    `json:"tick_interval_sec"`    // companion decay tick
	SessionMinutes       int    `json:"session_minutes"`      // mindfulness session length
	CountAllMeals        bool   `json:"count_all_meals"`      // analytics: count repeat subtypes
	ReminderSweepMin     int    `json:"reminder_sweep_min"`   // mood alert sweep interval
	Timezone             string `json:"timezone"`
}
