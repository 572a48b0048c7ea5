package dynamics

import "math"

// MaxGainReductionDB is the largest gain reduction the curve reports.
const MaxGainReductionDB = 60.0

// GainReductionDB evaluates the quadratic soft-knee compression curve and
// returns the gain reduction in dB (non-negative) for a detector level of
// envDB against thresholdDB. Ratios below 1 behave as 1 and negative knee
// widths as a hard knee.
func GainReductionDB(envDB, thresholdDB, ratio, kneeDB float64) float64 {
	if !(ratio > 1) {
		return 0
	}

	if !(kneeDB > 0) {
		kneeDB = 0
	}

	slope := 1 - 1/ratio
	over := envDB - thresholdDB
	half := kneeDB / 2

	var gr float64

	switch {
	case over <= -half:
		return 0
	case over >= half:
		gr = over * slope
	default:
		x := over + half
		gr = x * x / (2 * kneeDB) * slope
	}

	return clampGainReduction(gr)
}

func clampGainReduction(gr float64) float64 {
	if math.IsNaN(gr) || gr < 0 {
		return 0
	}

	if gr > MaxGainReductionDB {
		return MaxGainReductionDB
	}

	return gr
}
