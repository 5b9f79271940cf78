package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/KushT00/Forex-Ultimate/internal/indicator"
	"github.com/KushT00/Forex-Ultimate/internal/types"
	"github.com/KushT00/Forex-Ultimate/pkg/marketdata"
)

// RSIDivergence signals on price/RSI divergences, falling back to plain
// overbought/oversold extremes when no divergence is present.
type RSIDivergence struct {
	provider  marketdata.Provider
	rsiPeriod int
	lookback  int
}

// NewRSIDivergence creates the divergence strategy. Non-positive parameters
// fall back to the defaults (period 14, lookback 10).
func NewRSIDivergence(provider marketdata.Provider, rsiPeriod, lookback int) *RSIDivergence {
	if rsiPeriod <= 0 {
		rsiPeriod = 14
	}

	if lookback <= 0 {
		lookback = 10
	}

	return &RSIDivergence{
		provider:  provider,
		rsiPeriod: rsiPeriod,
		lookback:  lookback,
	}
}

// Name implements the Strategy interface.
func (s *RSIDivergence) Name() string {
	return KindRSIDivergence
}

// extremum is a local peak or trough at a series index.
type extremum struct {
	index int
	value float64
}

// Evaluate implements the Strategy interface.
func (s *RSIDivergence) Evaluate(ctx context.Context, symbol string, timeframeMinutes int) (RawResult, error) {
	candles, err := s.provider.FetchCandles(ctx, symbol, timeframeMinutes, 0, s.rsiPeriod+s.lookback+10)
	if err != nil {
		return nil, err
	}

	if len(candles) < s.rsiPeriod+s.lookback {
		return RawResult{
			KeySignal: string(types.SignalKindNoData),
			KeyReason: "Insufficient data for analysis",
		}, nil
	}

	rsi := indicator.RSISeries(types.Closes(candles), s.rsiPeriod)

	// Divergence detection only looks at the recent window.
	recentLen := s.lookback + 5
	if recentLen > len(candles) {
		recentLen = len(candles)
	}

	recent := candles[len(candles)-recentLen:]
	recentRSI := rsi[len(rsi)-recentLen:]

	if len(recent) < 5 {
		return RawResult{
			KeySignal: string(types.SignalKindNoSignal),
			KeyReason: "Not enough recent data for divergence analysis",
		}, nil
	}

	var pricePeaks, priceTroughs, rsiPeaks, rsiTroughs []extremum

	for i := 2; i < len(recent)-2; i++ {
		if isPeak(highs(recent), i) {
			pricePeaks = append(pricePeaks, extremum{i, recent[i].High})
		}

		if isTrough(lows(recent), i) {
			priceTroughs = append(priceTroughs, extremum{i, recent[i].Low})
		}

		if isPeak(recentRSI, i) {
			rsiPeaks = append(rsiPeaks, extremum{i, recentRSI[i]})
		}

		if isTrough(recentRSI, i) {
			rsiTroughs = append(rsiTroughs, extremum{i, recentRSI[i]})
		}
	}

	last := recent[len(recent)-1]
	currentRSI := recentRSI[len(recentRSI)-1]
	timestamp := last.Time.UTC().Format(time.RFC3339)

	// Bearish divergence: price makes higher highs while RSI makes lower highs.
	if len(pricePeaks) >= 2 && len(rsiPeaks) >= 2 {
		pp, rp := pricePeaks[len(pricePeaks)-2:], rsiPeaks[len(rsiPeaks)-2:]
		if pp[1].value > pp[0].value && rp[1].value < rp[0].value {
			return RawResult{
				KeySignal:     string(types.SignalKindSell),
				KeyReason:     "Bearish RSI divergence detected - Price higher highs, RSI lower highs",
				KeyEntryPrice: last.Close,
				"rsi_value":   currentRSI,
				KeyTimestamp:  timestamp,
			}, nil
		}
	}

	// Bullish divergence: price makes lower lows while RSI makes higher lows.
	if len(priceTroughs) >= 2 && len(rsiTroughs) >= 2 {
		pt, rt := priceTroughs[len(priceTroughs)-2:], rsiTroughs[len(rsiTroughs)-2:]
		if pt[1].value < pt[0].value && rt[1].value > rt[0].value {
			return RawResult{
				KeySignal:     string(types.SignalKindBuy),
				KeyReason:     "Bullish RSI divergence detected - Price lower lows, RSI higher lows",
				KeyEntryPrice: last.Close,
				"rsi_value":   currentRSI,
				KeyTimestamp:  timestamp,
			}, nil
		}
	}

	switch {
	case currentRSI > 70:
		return RawResult{
			KeySignal:     string(types.SignalKindSell),
			KeyReason:     fmt.Sprintf("Overbought condition - RSI: %.2f", currentRSI),
			KeyEntryPrice: last.Close,
			"rsi_value":   currentRSI,
			KeyTimestamp:  timestamp,
		}, nil
	case currentRSI < 30:
		return RawResult{
			KeySignal:     string(types.SignalKindBuy),
			KeyReason:     fmt.Sprintf("Oversold condition - RSI: %.2f", currentRSI),
			KeyEntryPrice: last.Close,
			"rsi_value":   currentRSI,
			KeyTimestamp:  timestamp,
		}, nil
	default:
		return RawResult{
			KeySignal:    string(types.SignalKindHold),
			KeyReason:    fmt.Sprintf("No divergence or extreme RSI - Current RSI: %.2f", currentRSI),
			"rsi_value":  currentRSI,
			KeyTimestamp: timestamp,
		}, nil
	}
}

func highs(candles []types.Candle) []float64 {
	values := make([]float64, len(candles))
	for i, c := range candles {
		values[i] = c.High
	}

	return values
}

func lows(candles []types.Candle) []float64 {
	values := make([]float64, len(candles))
	for i, c := range candles {
		values[i] = c.Low
	}

	return values
}

// isPeak reports whether index i is strictly above its two neighbors on
// each side.
func isPeak(values []float64, i int) bool {
	return values[i] > values[i-1] && values[i] > values[i-2] &&
		values[i] > values[i+1] && values[i] > values[i+2]
}

// isTrough reports whether index i is strictly below its two neighbors on
// each side.
func isTrough(values []float64, i int) bool {
	return values[i] < values[i-1] && values[i] < values[i-2] &&
		values[i] < values[i+1] && values[i] < values[i+2]
}
