package simulation

import (
	"sync"
	"time"

	"github.com/alanli-ML/ai-rts-sub008/internal/domain/building"
)

// TimerRemovalScheduler defers destroyed-structure removal past the grace
// period. Uses time.AfterFunc so nothing polls between events. Each pending
// removal fires exactly once: the entry is claimed under the lock before its
// callback runs, whether the timer or Flush gets there first.
type TimerRemovalScheduler struct {
	mu      sync.Mutex
	pending map[string]*pendingRemoval
}

type pendingRemoval struct {
	timer  *time.Timer
	remove func()
}

// Compile-time interface check
var _ building.RemovalScheduler = (*TimerRemovalScheduler)(nil)

// NewTimerRemovalScheduler creates an empty scheduler
func NewTimerRemovalScheduler() *TimerRemovalScheduler {
	return &TimerRemovalScheduler{
		pending: make(map[string]*pendingRemoval),
	}
}

// Schedule queues a removal after delay, replacing any pending removal for
// the same building.
func (s *TimerRemovalScheduler) Schedule(buildingID string, delay time.Duration, remove func()) {
	if remove == nil {
		return
	}
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.pending[buildingID]; ok {
		existing.timer.Stop()
	}

	entry := &pendingRemoval{remove: remove}
	entry.timer = time.AfterFunc(delay, func() {
		s.fire(buildingID, entry)
	})
	s.pending[buildingID] = entry
}

// fire runs a removal whose timer elapsed, unless Flush or Cancel claimed it
// first.
func (s *TimerRemovalScheduler) fire(buildingID string, entry *pendingRemoval) {
	s.mu.Lock()
	current, ok := s.pending[buildingID]
	if ok && current == entry {
		delete(s.pending, buildingID)
	}
	s.mu.Unlock()

	if ok && current == entry {
		entry.remove()
	}
}

// Cancel drops a pending removal without running it. Returns whether one was
// pending.
func (s *TimerRemovalScheduler) Cancel(buildingID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[buildingID]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(s.pending, buildingID)
	return true
}

// Flush runs every pending removal immediately. Called on shutdown so no
// removal is lost to a dying process.
func (s *TimerRemovalScheduler) Flush() {
	s.mu.Lock()
	claimed := make([]*pendingRemoval, 0, len(s.pending))
	for buildingID, entry := range s.pending {
		entry.timer.Stop()
		claimed = append(claimed, entry)
		delete(s.pending, buildingID)
	}
	s.mu.Unlock()

	for _, entry := range claimed {
		entry.remove()
	}
}

// PendingCount returns the number of queued removals (for testing/monitoring)
func (s *TimerRemovalScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
