package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Default Settings Values
	DefaultNotificationsEnabled = true
	DefaultTickIntervalSec      = 30
	DefaultSessionMinutes       = 10
	DefaultReminderSweepMin     = 15
	DefaultTimezone             = "Local"

	// LogThrottleMs is the minimum gap between two successful logs of the
	// same goal, in milliseconds.
	LogThrottleMs = 1000

	// StatusChangeThreshold is the smallest per-dimension change reported
	// to observers, in status points.
	StatusChangeThreshold = 5.0

	// SaneDateRangeDays bounds how far an entry's scheduled time may drift
	// from today before the record is treated as corrupt and dropped.
	SaneDateRangeDays = 366

	// Tray notification webhook
	NotifierLockfileName   = "habitpal-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.mayatruitt.habitpal"
)
