// Package indicator implements the technical indicators used by the trading
// strategies. All functions operate on candle or price series in ascending
// time order.
package indicator

// SMA calculates the simple moving average over the last period values.
// Returns 0 when there are fewer values than the period.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}

	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}

	return sum / float64(period)
}

// SMASeries calculates the rolling simple moving average. Entries before a
// full window is available average over however many values exist so far.
func SMASeries(values []float64, period int) []float64 {
	series := make([]float64, len(values))

	sum := 0.0
	for i, v := range values {
		sum += v
		window := period
		if i+1 < period {
			window = i + 1
		} else if i >= period {
			sum -= values[i-period]
		}

		series[i] = sum / float64(window)
	}

	return series
}
