package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KushT00/Forex-Ultimate/internal/logger"
	"github.com/KushT00/Forex-Ultimate/internal/strategy"
	"github.com/KushT00/Forex-Ultimate/internal/types"
	"github.com/KushT00/Forex-Ultimate/pkg/errors"
)

// fakeClock is a settable clock shared by the scheduler tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
}

// fakeStrategy delegates to a function and counts invocations per symbol.
type fakeStrategy struct {
	name     string
	mu       sync.Mutex
	calls    map[string]int
	evaluate func(ctx context.Context, symbol string, timeframeMinutes int) (strategy.RawResult, error)
}

func (f *fakeStrategy) Name() string {
	return f.name
}

func (f *fakeStrategy) Evaluate(ctx context.Context, symbol string, timeframeMinutes int) (strategy.RawResult, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[symbol]++
	f.mu.Unlock()

	return f.evaluate(ctx, symbol, timeframeMinutes)
}

func (f *fakeStrategy) callCount(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[symbol]
}

type RunnerTestSuite struct {
	suite.Suite
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

func utc(hour, minute, second int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, second, 0, time.UTC)
}

func (suite *RunnerTestSuite) TestBoundaryNotConfirmed() {
	clock := newFakeClock(utc(9, 3, 0)) // not a 5-minute boundary
	runner := NewRunner(clock, logger.NewNopLogger())

	strat := &fakeStrategy{
		name: "test",
		evaluate: func(context.Context, string, int) (strategy.RawResult, error) {
			suite.Fail("strategy must not run off-boundary")

			return nil, nil
		},
	}

	sig := runner.Run(context.Background(), "MA_5min", strat, "EURUSD", 5)

	suite.Equal(types.SignalKindHold, sig.Kind)
	suite.Equal("boundary not confirmed", sig.Reason)
	suite.Equal("MA_5min", sig.Strategy)
	suite.Equal("EURUSD", sig.Symbol)
	suite.Zero(strat.callCount("EURUSD"))
}

func (suite *RunnerTestSuite) TestNormalizesActionableResult() {
	clock := newFakeClock(utc(9, 5, 0))
	runner := NewRunner(clock, logger.NewNopLogger())

	strat := &fakeStrategy{
		name: "test",
		evaluate: func(context.Context, string, int) (strategy.RawResult, error) {
			return strategy.RawResult{
				strategy.KeySignal:     "BUY",
				strategy.KeyReason:     "Bullish MA crossover",
				strategy.KeyEntryPrice: 1910.25,
				strategy.KeyTimestamp:  "2024-01-01T09:05:00Z",
				"fast_ma":              1909.1,
				"slow_ma":              1905.7,
			}, nil
		},
	}

	sig := runner.Run(context.Background(), "MA_5min", strat, "XAUUSD", 5)

	suite.Equal(types.SignalKindBuy, sig.Kind)
	suite.Equal("Bullish MA crossover", sig.Reason)
	suite.InDelta(1910.25, sig.EntryPrice.Unwrap(), 1e-9)
	suite.Equal("2024-01-01T09:05:00Z", sig.Timestamp)
	suite.Equal(map[string]float64{"fast_ma": 1909.1, "slow_ma": 1905.7}, sig.Indicators)
	suite.Equal(utc(9, 5, 0), sig.GeneratedAt)
}

func (suite *RunnerTestSuite) TestMissingReasonDefaults() {
	clock := newFakeClock(utc(9, 5, 0))
	runner := NewRunner(clock, logger.NewNopLogger())

	strat := &fakeStrategy{
		name: "test",
		evaluate: func(context.Context, string, int) (strategy.RawResult, error) {
			return strategy.RawResult{strategy.KeySignal: "HOLD"}, nil
		},
	}

	sig := runner.Run(context.Background(), "MA_5min", strat, "EURUSD", 5)

	suite.Equal(types.SignalKindHold, sig.Kind)
	suite.Equal("No reason provided", sig.Reason)
	suite.True(sig.EntryPrice.IsNone())
}

func (suite *RunnerTestSuite) TestUnrecognizedSignalKind() {
	clock := newFakeClock(utc(9, 5, 0))
	runner := NewRunner(clock, logger.NewNopLogger())

	strat := &fakeStrategy{
		name: "test",
		evaluate: func(context.Context, string, int) (strategy.RawResult, error) {
			return strategy.RawResult{strategy.KeySignal: "YOLO"}, nil
		},
	}

	sig := runner.Run(context.Background(), "MA_5min", strat, "EURUSD", 5)

	suite.Equal(types.SignalKindNoSignal, sig.Kind)
	suite.Contains(sig.Reason, "YOLO")
}

func (suite *RunnerTestSuite) TestDataUnavailableBecomesNoData() {
	clock := newFakeClock(utc(9, 5, 0))
	runner := NewRunner(clock, logger.NewNopLogger())

	strat := &fakeStrategy{
		name: "test",
		evaluate: func(context.Context, string, int) (strategy.RawResult, error) {
			return nil, errors.New(errors.ErrCodeDataUnavailable, "provider returned no klines")
		},
	}

	sig := runner.Run(context.Background(), "MA_5min", strat, "EURUSD", 5)

	suite.Equal(types.SignalKindNoData, sig.Kind)
	suite.Contains(sig.Reason, "no klines")
}

func (suite *RunnerTestSuite) TestFailureBecomesErrorSignal() {
	clock := newFakeClock(utc(9, 5, 0))
	runner := NewRunner(clock, logger.NewNopLogger())

	strat := &fakeStrategy{
		name: "test",
		evaluate: func(context.Context, string, int) (strategy.RawResult, error) {
			return nil, fmt.Errorf("indicator blew up")
		},
	}

	sig := runner.Run(context.Background(), "MA_5min", strat, "EURUSD", 5)

	suite.Equal(types.SignalKindError, sig.Kind)
	suite.Contains(sig.Reason, "indicator blew up")
}

func (suite *RunnerTestSuite) TestPanicBecomesErrorSignal() {
	clock := newFakeClock(utc(9, 5, 0))
	runner := NewRunner(clock, logger.NewNopLogger())

	strat := &fakeStrategy{
		name: "test",
		evaluate: func(context.Context, string, int) (strategy.RawResult, error) {
			panic("division by zero")
		},
	}

	sig := runner.Run(context.Background(), "MA_5min", strat, "EURUSD", 5)

	suite.Equal(types.SignalKindError, sig.Kind)
	suite.Contains(sig.Reason, "division by zero")
}
