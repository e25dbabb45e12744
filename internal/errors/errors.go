package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/mayatruitt/habitpal/internal/logger"
)

// Sentinel errors for the core state machines. Callers match with errors.Is.
var (
	// ErrValidation rejects an invalid goal shape before any mutation.
	ErrValidation = errors.New("validation failed")

	// ErrCooldownActive rejects a log attempt inside a cooldown window.
	ErrCooldownActive = errors.New("cooldown active")

	// ErrGoalCompleted rejects a log attempt once the daily target is met.
	ErrGoalCompleted = errors.New("goal already completed today")

	// ErrGoalInactive rejects logging against a deactivated goal.
	ErrGoalInactive = errors.New("goal is inactive")

	// ErrLogInFlight rejects a concurrent log while another is in flight.
	// A no-op by contract: the caller may retry after the throttle window.
	ErrLogInFlight = errors.New("another log is in flight")

	// ErrThrottled rejects a log attempt within one second of the previous
	// successful log.
	ErrThrottled = errors.New("logging too quickly")

	// ErrSpecialInterface rejects direct logging on goals that complete
	// only through a timed session.
	ErrSpecialInterface = errors.New("goal requires a session to complete")

	// ErrSubtypeLogged rejects a subtype already logged today.
	ErrSubtypeLogged = errors.New("subtype already logged today")

	// ErrEntryNotFound rejects logging an entry that is not part of
	// today's schedule.
	ErrEntryNotFound = errors.New("entry not found in today's schedule")
)

// Validationf wraps ErrValidation with a reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
