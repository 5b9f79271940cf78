// Package tradelog persists accepted signals to a durable JSON log and
// answers whether a signal was already recorded.
//
// The log is a whole-file JSON array: every append loads nothing (the array
// is cached in memory), appends, and rewrites the full file through an
// atomic rename. All reads and writes are serialized through one mutex so
// concurrent strategy runs cannot interleave writes or observe a torn file,
// and dedup checks always see the most recent append.
package tradelog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/KushT00/Forex-Ultimate/internal/logger"
	"github.com/KushT00/Forex-Ultimate/internal/types"
	"github.com/KushT00/Forex-Ultimate/pkg/errors"
	"go.uber.org/zap"
)

// Store is the single owner of the trade log file.
type Store struct {
	mu      sync.Mutex
	path    string
	signals []types.Signal
	index   map[types.SignalKey]struct{}
	log     *logger.Logger
}

// Open loads the trade log at path, creating an empty one if it does not
// exist. The parent directory is created as needed.
func Open(path string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailure, "failed to create trade log directory", err)
	}

	store := &Store{
		path:    path,
		signals: []types.Signal{},
		index:   make(map[types.SignalKey]struct{}),
		log:     log,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := store.flushLocked(); err != nil {
			return nil, err
		}

		return store, nil
	}

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceFailure, "failed to read trade log", err)
	}

	if err := json.Unmarshal(data, &store.signals); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeTradeLogCorrupt, err, "trade log %s is not a valid signal array", path)
	}

	for _, sig := range store.signals {
		store.index[sig.Key()] = struct{}{}
	}

	return store, nil
}

// Append records the signal unconditionally.
func (s *Store) Append(sig types.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(sig)
}

// Snapshot returns a read-only copy of all recorded signals in append order.
func (s *Store) Snapshot() []types.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]types.Signal, len(s.signals))
	copy(snapshot, s.signals)

	return snapshot
}

// Len returns the number of recorded signals.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.signals)
}

// Path returns the location of the log file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) appendLocked(sig types.Signal) error {
	s.signals = append(s.signals, sig)
	s.index[sig.Key()] = struct{}{}

	return s.flushLocked()
}

// flushLocked rewrites the whole array through a temp file and rename so a
// concurrent reader of the file never sees a partial write.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.signals, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistenceFailure, "failed to encode trade log", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".trade_log-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistenceFailure, "failed to create trade log temp file", err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return errors.Wrap(errors.ErrCodePersistenceFailure, "failed to write trade log", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return errors.Wrap(errors.ErrCodePersistenceFailure, "failed to close trade log temp file", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)

		return errors.Wrap(errors.ErrCodePersistenceFailure, "failed to replace trade log", err)
	}

	if s.log != nil {
		s.log.Debug("trade log flushed",
			zap.String("path", s.path),
			zap.Int("signals", len(s.signals)),
		)
	}

	return nil
}
