package companion

import (
	"sync"
	"time"

	"github.com/mayatruitt/habitpal/internal/clock"
	"github.com/mayatruitt/habitpal/internal/constants"
	"github.com/mayatruitt/habitpal/internal/logger"
	"github.com/mayatruitt/habitpal/internal/models"
)

// Simulator owns the companion's status. The periodic tick is the only
// path that can lower a dimension; goal completions only raise them.
type Simulator struct {
	mu     sync.Mutex
	status models.CompanionStatus
	clock  clock.Clock
	sink   models.EventSink

	// lastReported tracks the value observers last saw per dimension, so a
	// slow drift still produces exactly one event when it crosses the
	// reporting threshold.
	lastReported map[models.StatusDimension]float64

	stopCh  chan struct{}
	stopped sync.Once
}

func NewSimulator(status models.CompanionStatus, clk clock.Clock, sink models.EventSink) *Simulator {
	if sink == nil {
		sink = models.NopSink{}
	}
	s := &Simulator{
		status: status,
		clock:  clk,
		sink:   sink,
		stopCh: make(chan struct{}),
		lastReported: map[models.StatusDimension]float64{
			models.DimensionEnergy:       status.Energy,
			models.DimensionHydration:    status.Hydration,
			models.DimensionSatisfaction: status.Satisfaction,
		},
	}
	return s
}

// Status returns a copy of the current companion status.
func (s *Simulator) Status() models.CompanionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// RecomputeStatus applies decay to every dimension from its last-satisfied
// timestamp and rederives the mood. Safe to call from any goroutine.
func (s *Simulator) RecomputeStatus(now time.Time) {
	s.mu.Lock()
	s.status.Hydration = Decay(now.Sub(s.status.LastWaterTime).Hours(), Params(models.DimensionHydration))
	s.status.Satisfaction = Decay(now.Sub(s.status.LastMealTime).Hours(), Params(models.DimensionSatisfaction))
	s.status.Energy = Decay(now.Sub(s.status.LastBreakTime).Hours(), Params(models.DimensionEnergy))
	emit := s.deriveLocked()
	s.mu.Unlock()

	emit()
}

// deriveLocked recomputes happiness, stress and mood from the dimensions,
// returning a closure that reports the changes. Callers invoke it after
// releasing the lock; sink handlers are allowed to call back in.
func (s *Simulator) deriveLocked() func() {
	s.status.Happiness = (s.status.Energy + s.status.Hydration + s.status.Satisfaction) / 3
	s.status.Stress = 100 - s.status.Happiness

	var statusEvents []models.StatusChanged
	for _, d := range []models.StatusDimension{
		models.DimensionEnergy, models.DimensionHydration, models.DimensionSatisfaction,
	} {
		cur := s.status.Dimension(d)
		prev := s.lastReported[d]
		if diff := cur - prev; diff >= constants.StatusChangeThreshold || diff <= -constants.StatusChangeThreshold {
			s.lastReported[d] = cur
			statusEvents = append(statusEvents, models.StatusChanged{Dimension: d, OldValue: prev, NewValue: cur})
		}
	}

	old := s.status.Mood
	s.status.Mood = moodFor(s.status.Energy, s.status.Hydration, s.status.Satisfaction)
	moodEvent := s.status.Mood != old
	newMood := s.status.Mood

	return func() {
		for _, ev := range statusEvents {
			s.sink.StatusChanged(ev)
		}
		if moodEvent {
			s.sink.MoodChanged(models.MoodChanged{Old: old, New: newMood})
		}
	}
}

// moodFor evaluates the mood rules in order; the first match wins and
// later rules never override it. The order is part of the contract.
func moodFor(energy, hydration, satisfaction float64) models.MoodState {
	switch {
	case energy >= 75 && hydration >= 75 && satisfaction >= 75:
		return models.MoodHappy
	case energy >= 70 && hydration >= 50 && satisfaction >= 50:
		return models.MoodPlay
	case energy >= 50 && hydration >= 50 && satisfaction >= 50:
		return models.MoodIdeal
	case energy <= 30:
		return models.MoodPassedOut
	case energy <= 50:
		return models.MoodSleepy
	case satisfaction <= 40:
		return models.MoodHungry
	case hydration <= 40:
		return models.MoodPassedOut
	default:
		return models.MoodIdeal
	}
}

// OnGoalCompleted marks the category satisfied now, forces its dimension
// to 100 and rederives the mood immediately, without waiting for a tick.
func (s *Simulator) OnGoalCompleted(category models.GoalCategory) {
	now := s.clock.Now()

	s.mu.Lock()
	switch category.CompanionDimension() {
	case models.DimensionHydration:
		s.status.LastWaterTime = now
		s.status.Hydration = 100
	case models.DimensionSatisfaction:
		s.status.LastMealTime = now
		s.status.Satisfaction = 100
	case models.DimensionEnergy:
		s.status.LastBreakTime = now
		s.status.Energy = 100
	}
	emit := s.deriveLocked()
	s.mu.Unlock()

	emit()
}

// Start runs the periodic decay tick until Stop. Decay is a function of
// elapsed wall-clock time, so skipped or coalesced ticks self-correct on
// the next one. A non-positive interval, as from a settings document
// missing the field, falls back to the default instead of panicking the
// ticker.
func (s *Simulator) Start(interval time.Duration) {
	if interval <= 0 {
		interval = constants.DefaultTickIntervalSec * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RecomputeStatus(s.clock.Now())
			case <-s.stopCh:
				return
			}
		}
	}()
	logger.Debug("companion tick started", "interval", interval)
}

// Stop shuts down the tick goroutine. Safe to call more than once.
func (s *Simulator) Stop() {
	s.stopped.Do(func() { close(s.stopCh) })
}
