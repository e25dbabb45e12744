package goals

import (
	"sync"
	"testing"

	"github.com/mayatruitt/habitpal/internal/models"
)

// countingStore counts companion writes, one per persisted snapshot.
type countingStore struct {
	*memStore

	mu     sync.Mutex
	writes int
	last   models.CompanionStatus
}

func (c *countingStore) SaveCompanionStatus(s models.CompanionStatus) error {
	c.mu.Lock()
	c.writes++
	c.last = s
	c.mu.Unlock()
	return c.memStore.SaveCompanionStatus(s)
}

func (c *countingStore) snapshotWrites() (int, models.CompanionStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes, c.last
}

func TestSaver_CoalescesToLatestSnapshot(t *testing.T) {
	store := &countingStore{memStore: newMemStore()}

	// Drive the saver by hand so the worker goroutine cannot race the
	// schedule calls.
	s := &saver{
		store: store,
		kick:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	s.schedule(snapshot{companion: models.CompanionStatus{Hydration: 10}})
	s.schedule(snapshot{companion: models.CompanionStatus{Hydration: 20}})
	s.schedule(snapshot{companion: models.CompanionStatus{Hydration: 30}})
	s.flush()

	writes, last := store.snapshotWrites()
	if writes != 1 {
		t.Fatalf("persisted %d snapshots, want 1 (latest wins)", writes)
	}
	if last.Hydration != 30 {
		t.Errorf("persisted hydration = %v, want 30 (the latest scheduled snapshot)", last.Hydration)
	}
}

func TestSaver_FlushWithNothingPendingIsNoop(t *testing.T) {
	store := &countingStore{memStore: newMemStore()}
	s := &saver{
		store: store,
		kick:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	s.flush()

	if writes, _ := store.snapshotWrites(); writes != 0 {
		t.Errorf("persisted %d snapshots with nothing pending, want 0", writes)
	}
}

func TestSaver_CloseFlushesPending(t *testing.T) {
	store := &countingStore{memStore: newMemStore()}
	s := newSaver(store)

	s.schedule(snapshot{companion: models.CompanionStatus{Energy: 55}})
	s.close()

	writes, last := store.snapshotWrites()
	if writes == 0 {
		t.Fatal("close did not flush the pending snapshot")
	}
	if last.Energy != 55 {
		t.Errorf("persisted energy = %v, want 55", last.Energy)
	}
}
