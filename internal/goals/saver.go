package goals

import (
	"sync"
	"time"

	"github.com/mayatruitt/habitpal/internal/logger"
	"github.com/mayatruitt/habitpal/internal/models"
	"github.com/mayatruitt/habitpal/internal/storage"
)

// snapshot is a full copy of the runtime state, cheap enough to rebuild on
// every change for a single user's data.
type snapshot struct {
	goals        []models.Goal
	entries      map[string][]models.GoalEntry
	cooldowns    map[string]map[string]time.Time
	buckets      []models.WeeklyBucket
	companion    models.CompanionStatus
	streaks      []models.GoalStreak
	achievements []models.Achievement
}

// saver writes snapshots on a worker goroutine. It keeps a single pending
// slot: scheduling while a write is in flight replaces whatever was queued,
// so a burst of logs costs one write of the latest state rather than one
// write per log.
type saver struct {
	store storage.Provider

	mu      sync.Mutex
	pending *snapshot

	kick chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newSaver(store storage.Provider) *saver {
	s := &saver{
		store: store,
		kick:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// schedule replaces the pending snapshot and wakes the worker.
func (s *saver) schedule(snap snapshot) {
	s.mu.Lock()
	s.pending = &snap
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *saver) run() {
	for {
		select {
		case <-s.kick:
			s.flush()
		case <-s.stop:
			s.flush()
			close(s.done)
			return
		}
	}
}

// flush takes the pending snapshot, if any, and writes it out.
func (s *saver) flush() {
	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	s.mu.Unlock()

	if snap == nil {
		return
	}
	if err := s.persist(snap); err != nil {
		logger.Error("failed to persist state", "error", err)
	}
}

func (s *saver) persist(snap *snapshot) error {
	for _, goal := range snap.goals {
		if err := s.store.SaveGoal(goal); err != nil {
			return err
		}
	}
	for goalID, entries := range snap.entries {
		if err := s.store.ReplaceEntries(goalID, entries); err != nil {
			return err
		}
	}
	for goalID, cooldowns := range snap.cooldowns {
		if err := s.store.SaveSubtypeCooldowns(goalID, cooldowns); err != nil {
			return err
		}
	}
	for _, bucket := range snap.buckets {
		if err := s.store.SaveWeeklyBucket(bucket); err != nil {
			return err
		}
	}
	if err := s.store.SaveCompanionStatus(snap.companion); err != nil {
		return err
	}
	for _, streak := range snap.streaks {
		if err := s.store.SaveStreak(streak); err != nil {
			return err
		}
	}
	return s.store.SaveAchievements(snap.achievements)
}

// close flushes any pending snapshot and stops the worker.
func (s *saver) close() {
	close(s.stop)
	<-s.done
}
