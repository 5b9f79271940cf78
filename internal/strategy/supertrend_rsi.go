package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/KushT00/Forex-Ultimate/internal/indicator"
	"github.com/KushT00/Forex-Ultimate/internal/types"
	"github.com/KushT00/Forex-Ultimate/pkg/marketdata"
)

// SupertrendRSI signals on Supertrend direction changes and closes positions
// when RSI leaves its extreme zones.
type SupertrendRSI struct {
	provider  marketdata.Provider
	atrPeriod int
	factor    float64
	rsiPeriod int
}

// NewSupertrendRSI creates the strategy. Non-positive parameters fall back
// to the defaults (ATR 10, factor 3.0, RSI 14).
func NewSupertrendRSI(provider marketdata.Provider, atrPeriod int, factor float64, rsiPeriod int) *SupertrendRSI {
	if atrPeriod <= 0 {
		atrPeriod = 10
	}

	if factor <= 0 {
		factor = 3.0
	}

	if rsiPeriod <= 0 {
		rsiPeriod = 14
	}

	return &SupertrendRSI{
		provider:  provider,
		atrPeriod: atrPeriod,
		factor:    factor,
		rsiPeriod: rsiPeriod,
	}
}

// Name implements the Strategy interface.
func (s *SupertrendRSI) Name() string {
	return KindSupertrendRSI
}

// Evaluate implements the Strategy interface.
func (s *SupertrendRSI) Evaluate(ctx context.Context, symbol string, timeframeMinutes int) (RawResult, error) {
	// Enough candles for one day of bars plus indicator warmup.
	count := (24*60)/timeframeMinutes + s.atrPeriod + s.rsiPeriod + 20

	candles, err := s.provider.FetchCandles(ctx, symbol, timeframeMinutes, 0, count)
	if err != nil {
		return nil, err
	}

	if len(candles) < s.atrPeriod+s.rsiPeriod {
		return RawResult{
			KeySignal: string(types.SignalKindNoData),
			KeyReason: "Insufficient candles",
		}, nil
	}

	st := indicator.Supertrend(candles, s.atrPeriod, s.factor)
	rsi := indicator.RSISeries(types.Closes(candles), s.rsiPeriod)

	n := len(candles)
	last, prev := n-1, n-2
	lastCandle := candles[last]

	var kind types.SignalKind

	var reason string

	switch {
	case st.Direction[prev] <= 0 && st.Direction[last] > 0:
		kind = types.SignalKindBuy
		reason = "Trend changed to UP"
	case st.Direction[prev] >= 0 && st.Direction[last] < 0:
		kind = types.SignalKindSell
		reason = "Trend changed to DOWN"
	case rsi[prev] > 70 && rsi[last] < 70:
		kind = types.SignalKindClose
		reason = fmt.Sprintf("RSI crossed below 70 - RSI: %.2f", rsi[last])
	case rsi[prev] < 30 && rsi[last] > 30:
		kind = types.SignalKindClose
		reason = fmt.Sprintf("RSI crossed above 30 - RSI: %.2f", rsi[last])
	default:
		return RawResult{
			KeySignal:    string(types.SignalKindHold),
			KeyReason:    "No trend change or RSI recross",
			"rsi_value":  rsi[last],
			"supertrend": st.Line[last],
			KeyTimestamp: lastCandle.Time.UTC().Format(time.RFC3339),
		}, nil
	}

	return RawResult{
		KeySignal:     string(kind),
		KeyReason:     reason,
		KeyEntryPrice: lastCandle.Close,
		"rsi_value":   rsi[last],
		"supertrend":  st.Line[last],
		KeyTimestamp:  lastCandle.Time.UTC().Format(time.RFC3339),
	}, nil
}
