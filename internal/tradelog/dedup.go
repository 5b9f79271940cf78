package tradelog

import (
	"github.com/KushT00/Forex-Ultimate/internal/types"
)

// ShouldPersist reports whether the signal is new and loggable. Signals of
// non-actionable kinds (HOLD, NO_SIGNAL, NO_DATA, ERROR) are never
// persisted; actionable signals are persisted only if no prior signal shares
// the same (strategy, symbol, timestamp, kind) key. Differences in reason or
// entry price do not make a signal novel.
func (s *Store) ShouldPersist(sig types.Signal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.shouldPersistLocked(sig)
}

// Record atomically performs the dedup check and the append so two
// concurrent workers holding the same signal cannot both decide "novel".
// Returns whether the signal was accepted. When the durable write fails the
// in-memory decision stands: accepted is true, the error reports the failed
// persist, and subsequent duplicates are still rejected for this process
// lifetime.
func (s *Store) Record(sig types.Signal) (accepted bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.shouldPersistLocked(sig) {
		return false, nil
	}

	return true, s.appendLocked(sig)
}

func (s *Store) shouldPersistLocked(sig types.Signal) bool {
	if !sig.Kind.Actionable() {
		return false
	}

	_, exists := s.index[sig.Key()]

	return !exists
}
