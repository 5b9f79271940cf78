package indicator

// RSISeries calculates the Relative Strength Index over close prices using
// rolling average gains and losses. The first entry has no price change and
// carries the first computable RSI value so the series has no gaps.
func RSISeries(closes []float64, period int) []float64 {
	series := make([]float64, len(closes))
	if len(closes) < 2 {
		for i := range series {
			series[i] = 50
		}

		return series
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))

	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := 1; i < len(closes); i++ {
		// Average over the trailing window of available changes, at
		// least one.
		start := i - period + 1
		if start < 1 {
			start = 1
		}

		avgGain := 0.0
		avgLoss := 0.0

		for j := start; j <= i; j++ {
			avgGain += gains[j]
			avgLoss += losses[j]
		}

		window := float64(i - start + 1)
		avgGain /= window
		avgLoss /= window

		if avgLoss == 0 {
			series[i] = 100
			continue
		}

		rs := avgGain / avgLoss
		series[i] = 100 - (100 / (1 + rs))
	}

	series[0] = series[1]

	return series
}
