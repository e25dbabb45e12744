package tracker

import (
	"time"

	apperr "github.com/mayatruitt/habitpal/internal/errors"
	"github.com/mayatruitt/habitpal/internal/models"
)

// Policy abstracts how a goal category counts completion and gates subtype
// logging. One tracker type parameterized by a policy replaces a subclass
// per category.
type Policy interface {
	// IsComplete reports whether today's entries meet the goal's target.
	IsComplete(goal models.Goal, entries []models.GoalEntry) bool

	// CheckSubtype reports whether the subtype may be logged now, given
	// today's entries and the per-subtype cooldown map.
	CheckSubtype(subtype string, entries []models.GoalEntry, cooldowns map[string]time.Time, now time.Time) error

	// SharedCooldown reports whether the goal-wide cooldown gates logging.
	// Subtype goals cool down per subtype instead.
	SharedCooldown() bool
}

// PolicyFor selects the policy for a goal category.
func PolicyFor(category models.GoalCategory) Policy {
	if category == models.CategoryMeal {
		return subtypePolicy{required: models.MealSubtypes}
	}
	return countPolicy{}
}

// countPolicy completes on a raw count of completed entries.
type countPolicy struct{}

func (countPolicy) IsComplete(goal models.Goal, entries []models.GoalEntry) bool {
	completed := 0
	for _, e := range entries {
		if e.Completed {
			completed++
		}
	}
	return completed >= goal.TargetCount
}

func (countPolicy) CheckSubtype(string, []models.GoalEntry, map[string]time.Time, time.Time) error {
	return nil
}

func (countPolicy) SharedCooldown() bool { return true }

// subtypePolicy completes on a set of required subtypes, each logged at
// most once per day and each with its own independent cooldown.
type subtypePolicy struct {
	required []string
}

func (p subtypePolicy) IsComplete(goal models.Goal, entries []models.GoalEntry) bool {
	logged := make(map[string]bool)
	for _, e := range entries {
		if e.Completed && e.Subtype != "" {
			logged[e.Subtype] = true
		}
	}
	for _, st := range p.required {
		if !logged[st] {
			return false
		}
	}
	return true
}

func (p subtypePolicy) CheckSubtype(subtype string, entries []models.GoalEntry, cooldowns map[string]time.Time, now time.Time) error {
	known := false
	for _, st := range p.required {
		if st == subtype {
			known = true
			break
		}
	}
	if !known {
		return apperr.Validationf("unknown subtype %q", subtype)
	}

	for _, e := range entries {
		if e.Completed && e.Subtype == subtype {
			return apperr.ErrSubtypeLogged
		}
	}

	if until, ok := cooldowns[subtype]; ok && now.Before(until) {
		return apperr.ErrCooldownActive
	}

	return nil
}

func (subtypePolicy) SharedCooldown() bool { return false }
