// Package scheduler fires registered trading strategies exactly once per
// closed candle of their configured timeframe.
//
// A single control loop owns all schedule entries and sleeps until the
// nearest deadline in a min-heap of (nextExecution, entry) pairs. Due
// entries have their next deadline advanced before any worker starts, so an
// arbitrarily slow strategy run can never cause a duplicate dispatch for the
// same boundary. Per-symbol evaluations run on a bounded worker pool.
package scheduler

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KushT00/Forex-Ultimate/internal/candle"
	"github.com/KushT00/Forex-Ultimate/internal/logger"
	"github.com/KushT00/Forex-Ultimate/internal/strategy"
	"github.com/KushT00/Forex-Ultimate/internal/tradelog"
	"github.com/KushT00/Forex-Ultimate/internal/types"
	"github.com/KushT00/Forex-Ultimate/pkg/errors"
)

// Default configuration values.
const (
	DefaultWorkers      = 10
	DefaultQueueSize    = 64
	DefaultDrainTimeout = 30 * time.Second

	// idleWait bounds the sleep when no entries are registered yet.
	idleWait = time.Hour
)

// Config tunes the scheduler's worker pool and shutdown behavior.
type Config struct {
	// Workers is the maximum number of concurrent strategy evaluations.
	Workers int
	// QueueSize is the dispatch queue capacity.
	QueueSize int
	// DrainTimeout bounds the wait for in-flight evaluations on shutdown.
	DrainTimeout time.Duration
}

// task is one symbol evaluation dispatched to the worker pool.
type task struct {
	dispatchID       string
	entryName        string
	strat            strategy.Strategy
	symbol           string
	timeframeMinutes int
	boundary         time.Time
}

// Scheduler owns the registered schedule entries and the dispatch loop.
type Scheduler struct {
	mu        sync.Mutex
	entries   map[string]*entry
	deadlines deadlineHeap

	clock  candle.Clock
	log    *logger.Logger
	runner *Runner
	store  *tradelog.Store

	tasks        chan task
	wake         chan struct{}
	workers      int
	drainTimeout time.Duration
}

// New creates a scheduler. Zero config fields fall back to the defaults.
func New(clock candle.Clock, log *logger.Logger, runner *Runner, store *tradelog.Store, config Config) *Scheduler {
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}

	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}

	if config.DrainTimeout <= 0 {
		config.DrainTimeout = DefaultDrainTimeout
	}

	return &Scheduler{
		entries:      make(map[string]*entry),
		deadlines:    deadlineHeap{},
		clock:        clock,
		log:          log,
		runner:       runner,
		store:        store,
		tasks:        make(chan task, config.QueueSize),
		wake:         make(chan struct{}, 1),
		workers:      config.Workers,
		drainTimeout: config.DrainTimeout,
	}
}

// AddSchedule registers a named (strategy, symbols, timeframe) entry and
// computes its first execution at the next candle-close boundary. Fails with
// ErrCodeDuplicateEntry if the name is already registered.
func (s *Scheduler) AddSchedule(name string, strat strategy.Strategy, symbols []string, timeframeMinutes int) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "schedule name must not be empty")
	}

	if timeframeMinutes <= 0 {
		return errors.Newf(errors.ErrCodeInvalidTimeframe, "timeframe must be positive, got %d", timeframeMinutes)
	}

	if len(symbols) == 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "schedule %s has no symbols", name)
	}

	s.mu.Lock()

	if _, exists := s.entries[name]; exists {
		s.mu.Unlock()

		return errors.Newf(errors.ErrCodeDuplicateEntry, "schedule %s already registered", name)
	}

	e := &entry{
		name:             name,
		strat:            strat,
		symbols:          append([]string(nil), symbols...),
		timeframeMinutes: timeframeMinutes,
		nextExecution:    candle.NextBoundary(s.clock.Now(), timeframeMinutes),
		lastDispatch:     time.Time{},
		runs:             0,
		heapIndex:        -1,
	}

	s.entries[name] = e
	heap.Push(&s.deadlines, e)

	s.mu.Unlock()

	s.log.Info("schedule registered",
		zap.String("name", name),
		zap.String("strategy", strat.Name()),
		zap.Strings("symbols", symbols),
		zap.Int("timeframe_minutes", timeframeMinutes),
		zap.Time("next_execution", e.nextExecution),
	)

	s.notify()

	return nil
}

// Entries returns a read-only snapshot of all registered entries.
func (s *Scheduler) Entries() []EntryStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]EntryStatus, 0, len(s.deadlines))
	for _, e := range s.deadlines {
		statuses = append(statuses, e.status())
	}

	return statuses
}

// Run drives the scheduling loop until ctx is cancelled, then drains
// in-flight evaluations for at most the configured drain timeout. Workers
// that are still running after the timeout are abandoned and Run fails
// with ErrCodeDrainTimeout.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler started", zap.Int("workers", s.workers))

	// Evaluations in flight at shutdown run to completion; cancelling their
	// fetches would turn clean drains into spurious ERROR signals.
	evalCtx := context.WithoutCancel(ctx)

	var workerWG sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		workerWG.Add(1)

		go func() {
			defer workerWG.Done()

			for t := range s.tasks {
				s.execute(evalCtx, t)
			}
		}()
	}

loop:
	for {
		s.dispatchDue(ctx, s.clock.Now())

		timer := time.NewTimer(s.nextWait(s.clock.Now()))

		select {
		case <-ctx.Done():
			timer.Stop()

			break loop
		case <-s.wake:
			timer.Stop()
		case <-timer.C:
		}
	}

	s.log.Info("stop requested, draining in-flight evaluations")
	close(s.tasks)

	drained := make(chan struct{})

	go func() {
		workerWG.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		s.log.Info("scheduler shutdown complete")
	case <-time.After(s.drainTimeout):
		s.log.Warn("drain timeout exceeded, abandoning in-flight evaluations",
			zap.Duration("drain_timeout", s.drainTimeout),
		)

		return errors.Newf(errors.ErrCodeDrainTimeout, "drain timeout of %s exceeded", s.drainTimeout)
	}

	return nil
}

// dispatchDue fires every entry whose deadline has passed. The deadline is
// advanced past now before the first worker starts.
func (s *Scheduler) dispatchDue(ctx context.Context, now time.Time) {
	s.mu.Lock()

	var due []task

	for len(s.deadlines) > 0 && !s.deadlines[0].nextExecution.After(now) {
		e := s.deadlines[0]
		boundary := e.nextExecution

		e.nextExecution = candle.NextBoundary(now, e.timeframeMinutes)
		e.lastDispatch = now
		e.runs++
		heap.Fix(&s.deadlines, e.heapIndex)

		dispatchID := uuid.NewString()

		s.log.Info("dispatching schedule",
			zap.String("dispatch_id", dispatchID),
			zap.String("name", e.name),
			zap.Time("boundary", boundary),
			zap.Time("next_execution", e.nextExecution),
		)

		for _, symbol := range e.symbols {
			due = append(due, task{
				dispatchID:       dispatchID,
				entryName:        e.name,
				strat:            e.strat,
				symbol:           symbol,
				timeframeMinutes: e.timeframeMinutes,
				boundary:         boundary,
			})
		}
	}

	s.mu.Unlock()

	// Enqueue outside the lock; a full queue applies backpressure here
	// without blocking registration or status reads. A stop request wins
	// over a full queue: the deadlines above are already advanced, so the
	// undelivered tasks are simply dropped.
	for _, t := range due {
		select {
		case s.tasks <- t:
		case <-ctx.Done():
			return
		}
	}
}

// nextWait returns how long the loop may sleep before the nearest deadline.
func (s *Scheduler) nextWait(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.deadlines) == 0 {
		return idleWait
	}

	wait := s.deadlines[0].nextExecution.Sub(now)
	if wait < 0 {
		return 0
	}

	return wait
}

// execute runs one symbol evaluation and routes the signal to the trade log.
func (s *Scheduler) execute(ctx context.Context, t task) {
	sig := s.runner.Run(ctx, t.entryName, t.strat, t.symbol, t.timeframeMinutes)

	fields := []zap.Field{
		zap.String("dispatch_id", t.dispatchID),
		zap.String("entry", t.entryName),
		zap.String("symbol", t.symbol),
		zap.String("signal", string(sig.Kind)),
		zap.String("reason", sig.Reason),
	}

	switch sig.Kind {
	case types.SignalKindBuy, types.SignalKindSell, types.SignalKindClose, types.SignalKindHold:
		s.log.Info("strategy evaluated", fields...)
	default:
		s.log.Warn("strategy evaluated", fields...)
	}

	accepted, err := s.store.Record(sig)
	if err != nil {
		// The in-memory decision stands; only the durable write failed.
		s.log.Error("failed to persist signal", append(fields, zap.Error(err))...)
	}

	if accepted {
		s.log.Info("trade logged", fields...)
	} else if sig.Kind.Actionable() {
		s.log.Info("duplicate signal ignored", fields...)
	}
}

func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
