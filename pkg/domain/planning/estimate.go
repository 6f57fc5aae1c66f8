package planning

import "math"

// DefaultCalibrationFactor is applied when no historical estimate
// accuracy data is available. Raw model estimates skew optimistic, so
// half the raw total is the conservative default.
const DefaultCalibrationFactor = 0.5

// CalibrateEstimate corrects a raw estimate total toward observed
// actuals. Rounding is half-up so calibrating 33 minutes by 0.5 yields
// 17, not 16.
func CalibrateEstimate(totalMinutes, factor float64) int {
	if totalMinutes <= 0 || factor <= 0 {
		return 0
	}
	return int(math.Floor(totalMinutes*factor + 0.5))
}
