// Package candle maps wall-clock time to candle-close boundaries.
//
// All boundary math is anchored to midnight UTC: a boundary occurs at every
// minute index since midnight that is a multiple of the timeframe. Anchoring
// every timeframe to the same origin keeps multi-timeframe entries aligned
// (15-minute and 60-minute boundaries coincide at the top of each hour), and
// using UTC avoids DST transitions shifting or skipping boundaries.
package candle

import "time"

// IsBoundary reports whether the minute containing now is a candle-close
// boundary for the given timeframe. timeframeMinutes must be positive.
func IsBoundary(now time.Time, timeframeMinutes int) bool {
	return minutesSinceMidnight(now.UTC())%timeframeMinutes == 0
}

// NextBoundary returns the first candle-close boundary strictly after now.
// When now sits exactly on a boundary the result is the following boundary,
// never now itself, so a fired boundary cannot re-trigger.
func NextBoundary(now time.Time, timeframeMinutes int) time.Time {
	utc := now.UTC()

	delta := timeframeMinutes - minutesSinceMidnight(utc)%timeframeMinutes
	if delta == 0 {
		delta = timeframeMinutes
	}

	// Truncate to the start of the current minute so the boundary instant
	// carries no second or sub-second component.
	base := utc.Truncate(time.Minute)

	return base.Add(time.Duration(delta) * time.Minute)
}

func minutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
