package indicator

import (
	"math"

	"github.com/KushT00/Forex-Ultimate/internal/types"
)

// TrueRangeSeries calculates the true range for each candle. The first
// candle has no previous close, so its true range is the high-low spread.
func TrueRangeSeries(candles []types.Candle) []float64 {
	series := make([]float64, len(candles))

	for i, c := range candles {
		tr := c.High - c.Low
		if i > 0 {
			prevClose := candles[i-1].Close
			tr = math.Max(tr, math.Max(
				math.Abs(c.High-prevClose),
				math.Abs(c.Low-prevClose),
			))
		}

		series[i] = tr
	}

	return series
}

// ATRSeries calculates the Average True Range as a rolling simple moving
// average of the true range.
func ATRSeries(candles []types.Candle, period int) []float64 {
	return SMASeries(TrueRangeSeries(candles), period)
}
