package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/mayatruitt/habitpal/internal/clock"
	"github.com/mayatruitt/habitpal/internal/goals"
	"github.com/mayatruitt/habitpal/internal/models"
	"github.com/mayatruitt/habitpal/internal/storage"
)

// Context carries the store and the lazily-built goal service through kong
// command handlers.
type Context struct {
	Store storage.Provider

	svc *goals.Service
}

// Service builds the goal service on first use. One-shot commands share the
// instance so the saver flushes once on close.
func (c *Context) Service() (*goals.Service, error) {
	if c.svc == nil {
		if err := c.Store.Load(); err != nil {
			return nil, err
		}
		svc, err := goals.NewService(c.Store, clock.System{}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load goal data: %w", err)
		}
		c.svc = svc
	}
	return c.svc, nil
}

// CloseService flushes pending writes if a service was built.
func (c *Context) CloseService() {
	if c.svc != nil {
		c.svc.Close()
		c.svc = nil
	}
}

// FormatCooldown renders the time left until a goal can log again.
func FormatCooldown(until, now time.Time) string {
	if !until.After(now) {
		return "ready"
	}
	d := until.Sub(now).Round(time.Second)
	if d >= time.Hour {
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}

// FormatMood renders a mood with its face.
func FormatMood(mood models.MoodState) string {
	faces := map[models.MoodState]string{
		models.MoodHappy:     "(^o^)",
		models.MoodIdeal:     "(^-^)",
		models.MoodPlay:      "(>w<)",
		models.MoodSleepy:    "(-_-)zzz",
		models.MoodHungry:    "(o_o)",
		models.MoodPassedOut: "(x_x)",
	}
	if face, ok := faces[mood]; ok {
		return fmt.Sprintf("%s %s", face, mood)
	}
	return string(mood)
}

// ProgressBar renders n of total as a fixed-width text bar.
func ProgressBar(n, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := n * width / total
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// ParseMealSubtype maps user input to a canonical meal slot name.
func ParseMealSubtype(s string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "-", "_")))
	aliases := map[string]string{
		"breakfast":       "breakfast",
		"morning_snack":   "morning_snack",
		"snack1":          "morning_snack",
		"lunch":           "lunch",
		"afternoon_snack": "afternoon_snack",
		"snack2":          "afternoon_snack",
		"dinner":          "dinner",
	}
	if canonical, ok := aliases[normalized]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("unknown meal type %q (expected one of %s)", s, strings.Join(models.MealSubtypes, ", "))
}
