package scheduler

import (
	"context"
	"fmt"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/KushT00/Forex-Ultimate/internal/candle"
	"github.com/KushT00/Forex-Ultimate/internal/logger"
	"github.com/KushT00/Forex-Ultimate/internal/strategy"
	"github.com/KushT00/Forex-Ultimate/internal/types"
	"github.com/KushT00/Forex-Ultimate/pkg/errors"
)

// Runner invokes one strategy against one symbol and normalizes the result
// into a Signal. Failures are captured in the signal, never propagated, so a
// misbehaving strategy cannot take down the scheduling loop.
type Runner struct {
	clock candle.Clock
	log   *logger.Logger
}

// NewRunner creates a strategy runner.
func NewRunner(clock candle.Clock, log *logger.Logger) *Runner {
	return &Runner{
		clock: clock,
		log:   log,
	}
}

// Run evaluates the strategy for one symbol at the current candle close.
//
// The boundary is re-validated before evaluation: scheduler tick granularity
// can drift past the exact boundary second, and a stale evaluation would
// attach to the wrong candle. A failed re-validation produces a HOLD skip
// signal, not an error.
func (r *Runner) Run(ctx context.Context, entryName string, strat strategy.Strategy, symbol string, timeframeMinutes int) types.Signal {
	now := r.clock.Now().UTC()

	sig := types.Signal{
		Strategy:         entryName,
		Symbol:           symbol,
		TimeframeMinutes: timeframeMinutes,
		Kind:             types.SignalKindHold,
		Reason:           "",
		EntryPrice:       optional.None[float64](),
		Indicators:       nil,
		Timestamp:        "",
		GeneratedAt:      now,
	}

	if !candle.IsBoundary(now, timeframeMinutes) {
		sig.Reason = "boundary not confirmed"

		r.log.Info("skipping evaluation, boundary not confirmed",
			zap.String("entry", entryName),
			zap.String("symbol", symbol),
			zap.Int("timeframe_minutes", timeframeMinutes),
			zap.Time("now", now),
		)

		return sig
	}

	raw, err := r.evaluate(ctx, strat, symbol, timeframeMinutes)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeDataUnavailable) {
			sig.Kind = types.SignalKindNoData
		} else {
			sig.Kind = types.SignalKindError
		}

		sig.Reason = err.Error()

		return sig
	}

	r.normalize(&sig, raw)

	return sig
}

// evaluate calls the strategy, converting a panic into an error so one bad
// strategy run cannot crash the worker.
func (r *Runner) evaluate(ctx context.Context, strat strategy.Strategy, symbol string, timeframeMinutes int) (raw strategy.RawResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf(errors.ErrCodeStrategyPanic, "strategy panicked: %v", rec)
		}
	}()

	raw, err = strat.Evaluate(ctx, symbol, timeframeMinutes)
	if err != nil && !errors.HasCode(err, errors.ErrCodeDataUnavailable) {
		err = errors.Wrap(errors.ErrCodeStrategyFailure, "strategy evaluation failed", err)
	}

	return raw, err
}

// normalize maps the heterogeneous raw result onto the common signal shape.
// Missing fields default; numeric values outside the well-known keys are
// collected as indicator fields.
func (r *Runner) normalize(sig *types.Signal, raw strategy.RawResult) {
	kindValue, _ := raw[strategy.KeySignal].(string)

	switch kind := types.SignalKind(kindValue); kind {
	case types.SignalKindBuy, types.SignalKindSell, types.SignalKindClose,
		types.SignalKindHold, types.SignalKindNoSignal, types.SignalKindNoData,
		types.SignalKindError:
		sig.Kind = kind
	default:
		sig.Kind = types.SignalKindNoSignal
		sig.Reason = fmt.Sprintf("strategy returned unrecognized signal %q", kindValue)
	}

	if reason, ok := raw[strategy.KeyReason].(string); ok && sig.Reason == "" {
		sig.Reason = reason
	}

	if sig.Reason == "" {
		sig.Reason = "No reason provided"
	}

	if price, ok := toFloat(raw[strategy.KeyEntryPrice]); ok {
		sig.EntryPrice = optional.Some(price)
	}

	if timestamp, ok := raw[strategy.KeyTimestamp].(string); ok {
		sig.Timestamp = timestamp
	}

	for key, value := range raw {
		switch key {
		case strategy.KeySignal, strategy.KeyReason, strategy.KeyEntryPrice, strategy.KeyTimestamp:
			continue
		}

		if v, ok := toFloat(value); ok {
			if sig.Indicators == nil {
				sig.Indicators = make(map[string]float64)
			}

			sig.Indicators[key] = v
		}
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
