package models

import "time"

// EntryLogged is published after every successful log.
type EntryLogged struct {
	Goal  Goal
	Entry GoalEntry
}

// GoalCompleted is published when a log brings a goal to its daily target.
type GoalCompleted struct {
	Goal Goal
	At   time.Time
}

// StatusChanged is published for any dimension change of five points or
// more, exactly once per change.
type StatusChanged struct {
	Dimension StatusDimension
	OldValue  float64
	NewValue  float64
}

// MoodChanged is published on every mood transition.
type MoodChanged struct {
	Old MoodState
	New MoodState
}

// AchievementUnlocked is published when an achievement reaches full progress.
type AchievementUnlocked struct {
	Achievement Achievement
	Points      int
}

// EventSink receives core events. Implementations must not block; the core
// never depends on what consumers do with an event.
type EventSink interface {
	EntryLogged(EntryLogged)
	GoalCompleted(GoalCompleted)
	StatusChanged(StatusChanged)
	MoodChanged(MoodChanged)
	AchievementUnlocked(AchievementUnlocked)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) EntryLogged(EntryLogged)                 {}
func (NopSink) GoalCompleted(GoalCompleted)             {}
func (NopSink) StatusChanged(StatusChanged)             {}
func (NopSink) MoodChanged(MoodChanged)                 {}
func (NopSink) AchievementUnlocked(AchievementUnlocked) {}
