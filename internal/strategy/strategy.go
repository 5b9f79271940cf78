// Package strategy implements the trading-signal functions evaluated by the
// scheduler. Strategies are interchangeable behind the single Evaluate
// operation and return an unstructured result that the strategy runner
// normalizes into a Signal.
package strategy

import (
	"context"

	"github.com/KushT00/Forex-Ultimate/pkg/errors"
	"github.com/KushT00/Forex-Ultimate/pkg/marketdata"
)

// Raw result keys shared by all strategies. Every result carries at least
// KeySignal; the remaining keys are optional.
const (
	KeySignal     = "signal"
	KeyReason     = "reason"
	KeyEntryPrice = "entry_price"
	KeyTimestamp  = "timestamp"
)

// RawResult is the unstructured output of one strategy evaluation. Numeric
// values outside the well-known keys are strategy-specific indicator fields
// (fast_ma, rsi_value, ...).
type RawResult map[string]any

// Strategy evaluates one symbol on one timeframe and produces a raw result.
type Strategy interface {
	// Name returns the strategy identifier.
	Name() string
	// Evaluate runs the strategy against the most recent candles for the
	// symbol. Data fetch failures are returned as errors; decisions
	// (including NO_DATA on short history) are returned in the RawResult.
	Evaluate(ctx context.Context, symbol string, timeframeMinutes int) (RawResult, error)
}

// Kind identifiers accepted in the schedule configuration.
const (
	KindMACrossover   = "ma_crossover"
	KindRSIDivergence = "rsi_divergence"
	KindSupertrendRSI = "supertrend_rsi"
)

// New creates a strategy of the given kind with its default parameters,
// fetching candles from the given provider.
func New(kind string, provider marketdata.Provider) (Strategy, error) {
	switch kind {
	case KindMACrossover:
		return NewMACrossover(provider, 0, 0), nil
	case KindRSIDivergence:
		return NewRSIDivergence(provider, 0, 0), nil
	case KindSupertrendRSI:
		return NewSupertrendRSI(provider, 0, 0, 0), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy kind: %s", kind)
	}
}
