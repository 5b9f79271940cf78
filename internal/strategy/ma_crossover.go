package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/KushT00/Forex-Ultimate/internal/indicator"
	"github.com/KushT00/Forex-Ultimate/internal/types"
	"github.com/KushT00/Forex-Ultimate/pkg/marketdata"
)

// MACrossover signals on the fast moving average crossing the slow one.
type MACrossover struct {
	provider   marketdata.Provider
	fastPeriod int
	slowPeriod int
}

// NewMACrossover creates the crossover strategy. Non-positive periods fall
// back to the defaults (fast 10, slow 20).
func NewMACrossover(provider marketdata.Provider, fastPeriod, slowPeriod int) *MACrossover {
	if fastPeriod <= 0 {
		fastPeriod = 10
	}

	if slowPeriod <= 0 {
		slowPeriod = 20
	}

	return &MACrossover{
		provider:   provider,
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
	}
}

// Name implements the Strategy interface.
func (s *MACrossover) Name() string {
	return KindMACrossover
}

// Evaluate implements the Strategy interface.
func (s *MACrossover) Evaluate(ctx context.Context, symbol string, timeframeMinutes int) (RawResult, error) {
	candles, err := s.provider.FetchCandles(ctx, symbol, timeframeMinutes, 0, s.slowPeriod+10)
	if err != nil {
		return nil, err
	}

	if len(candles) < s.slowPeriod {
		return RawResult{
			KeySignal: string(types.SignalKindNoData),
			KeyReason: "Insufficient data for analysis",
		}, nil
	}

	closes := types.Closes(candles)

	// Need one extra candle to compare against the previous bar's averages.
	if len(closes) <= s.slowPeriod {
		return RawResult{
			KeySignal: string(types.SignalKindNoSignal),
			KeyReason: "Moving averages not calculated yet",
		}, nil
	}

	currentFast := indicator.SMA(closes, s.fastPeriod)
	currentSlow := indicator.SMA(closes, s.slowPeriod)
	prevFast := indicator.SMA(closes[:len(closes)-1], s.fastPeriod)
	prevSlow := indicator.SMA(closes[:len(closes)-1], s.slowPeriod)

	last := candles[len(candles)-1]
	timestamp := last.Time.UTC().Format(time.RFC3339)

	switch {
	case prevFast <= prevSlow && currentFast > currentSlow:
		return RawResult{
			KeySignal:     string(types.SignalKindBuy),
			KeyReason:     fmt.Sprintf("Bullish MA crossover - Fast MA (%.5f) crossed above Slow MA (%.5f)", currentFast, currentSlow),
			KeyEntryPrice: last.Close,
			"fast_ma":     currentFast,
			"slow_ma":     currentSlow,
			KeyTimestamp:  timestamp,
		}, nil
	case prevFast >= prevSlow && currentFast < currentSlow:
		return RawResult{
			KeySignal:     string(types.SignalKindSell),
			KeyReason:     fmt.Sprintf("Bearish MA crossover - Fast MA (%.5f) crossed below Slow MA (%.5f)", currentFast, currentSlow),
			KeyEntryPrice: last.Close,
			"fast_ma":     currentFast,
			"slow_ma":     currentSlow,
			KeyTimestamp:  timestamp,
		}, nil
	default:
		trend := "BEARISH"
		if currentFast > currentSlow {
			trend = "BULLISH"
		}

		return RawResult{
			KeySignal:    string(types.SignalKindHold),
			KeyReason:    fmt.Sprintf("No crossover - %s trend continues", trend),
			"fast_ma":    currentFast,
			"slow_ma":    currentSlow,
			KeyTimestamp: timestamp,
		}, nil
	}
}
