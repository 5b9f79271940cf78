package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type SignalKind string

const (
	// SignalKindBuy is an actionable long entry signal
	SignalKindBuy SignalKind = "BUY"
	// SignalKindSell is an actionable short entry signal
	SignalKindSell SignalKind = "SELL"
	// SignalKindClose is an actionable signal to close an open position
	SignalKindClose SignalKind = "CLOSE"
	// SignalKindHold means the strategy evaluated and decided to do nothing
	SignalKindHold SignalKind = "HOLD"
	// SignalKindNoSignal means the strategy could not produce a decision yet
	SignalKindNoSignal SignalKind = "NO_SIGNAL"
	// SignalKindNoData means the market data provider had no usable history
	SignalKindNoData SignalKind = "NO_DATA"
	// SignalKindError means the strategy evaluation itself failed
	SignalKindError SignalKind = "ERROR"
)

// Actionable reports whether a signal of this kind is eligible for the
// trade log. Only BUY, SELL and CLOSE are ever persisted.
func (k SignalKind) Actionable() bool {
	switch k {
	case SignalKindBuy, SignalKindSell, SignalKindClose:
		return true
	default:
		return false
	}
}

// Signal is one strategy decision for one symbol at one candle close.
// Immutable once created; ownership transfers to the trade log on acceptance.
type Signal struct {
	// Strategy is the registered schedule name that produced the signal
	Strategy string `json:"strategy_name"`
	// Symbol is the instrument the signal applies to
	Symbol string `json:"symbol"`
	// TimeframeMinutes is the candle duration the strategy evaluated
	TimeframeMinutes int `json:"timeframe_minutes"`
	// Kind is the decision the strategy made
	Kind SignalKind `json:"signal"`
	// Reason is the human readable explanation for the decision
	Reason string `json:"reason"`
	// EntryPrice is the suggested entry, present only on actionable signals
	EntryPrice optional.Option[float64] `json:"entry_price,omitempty"`
	// Indicators holds strategy specific values (fast_ma, rsi_value, ...)
	Indicators map[string]float64 `json:"indicators,omitempty"`
	// Timestamp identifies the source candle, RFC3339 in UTC
	Timestamp string `json:"timestamp"`
	// GeneratedAt is when the strategy run produced the signal
	GeneratedAt time.Time `json:"generated_at"`
}

// SignalKey is the identity of a loggable signal. Two signals with the same
// key are duplicates regardless of reason or entry price.
type SignalKey struct {
	Strategy  string
	Symbol    string
	Timestamp string
	Kind      SignalKind
}

// Key returns the dedup identity of the signal.
func (s Signal) Key() SignalKey {
	return SignalKey{
		Strategy:  s.Strategy,
		Symbol:    s.Symbol,
		Timestamp: s.Timestamp,
		Kind:      s.Kind,
	}
}
