package indicator

import (
	"math"

	"github.com/KushT00/Forex-Ultimate/internal/types"
)

// SupertrendResult holds the Supertrend line and trend direction per candle.
// Direction is +1 in an uptrend and -1 in a downtrend.
type SupertrendResult struct {
	Line      []float64
	Direction []int
}

// Supertrend calculates the ATR-band trailing stop line. The line trails
// below price in an uptrend (carrying the highest lower band seen) and above
// price in a downtrend (carrying the lowest upper band seen).
func Supertrend(candles []types.Candle, atrPeriod int, factor float64) SupertrendResult {
	n := len(candles)
	result := SupertrendResult{
		Line:      make([]float64, n),
		Direction: make([]int, n),
	}

	if n == 0 {
		return result
	}

	atr := ATRSeries(candles, atrPeriod)

	hl2 := (candles[0].High + candles[0].Low) / 2
	result.Line[0] = hl2
	result.Direction[0] = 1

	for i := 1; i < n; i++ {
		hl2 = (candles[i].High + candles[i].Low) / 2
		upperBand := hl2 + factor*atr[i]
		lowerBand := hl2 - factor*atr[i]

		if candles[i].Close > result.Line[i-1] {
			result.Line[i] = math.Max(lowerBand, result.Line[i-1])
			result.Direction[i] = 1
		} else {
			result.Line[i] = math.Min(upperBand, result.Line[i-1])
			result.Direction[i] = -1
		}
	}

	return result
}
