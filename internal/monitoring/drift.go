package monitoring

import "math"

// DefaultDriftThreshold is the number of baseline standard deviations the
// current mean must move before drift is reported.
const DefaultDriftThreshold = 2.0

// DriftScore computes the standardized deviation of currentMean from
// baselineMean in units of baselineStd. ok is false when baselineStd is zero
// or not finite, in which case no score can be produced.
func DriftScore(currentMean, baselineMean, baselineStd float64) (score float64, ok bool) {
	if baselineStd <= 0 || math.IsNaN(baselineStd) || math.IsInf(baselineStd, 0) {
		return 0, false
	}
	return math.Abs(currentMean-baselineMean) / baselineStd, true
}

// DriftExceeds applies the threshold test to a drift score.
func DriftExceeds(score, threshold float64) bool {
	return score > threshold
}
