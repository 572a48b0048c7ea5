package dynamics

const (
	// AutoMakeupFactor is the share of the peak gain reduction restored by
	// automatic makeup gain.
	AutoMakeupFactor = 0.75

	// AutoMakeupThresholdDB is the peak gain reduction a block must exceed
	// before automatic makeup overrides the manual value.
	AutoMakeupThresholdDB = 0.1

	// MakeupRampSeconds is the ramp time of the makeup gain smoother.
	MakeupRampSeconds = 0.05
)

// AutoMakeupDB returns the makeup gain in dB compensating peakGainReductionDB.
func AutoMakeupDB(peakGainReductionDB float64) float64 {
	return peakGainReductionDB * AutoMakeupFactor
}

// MakeupTargetDB picks the makeup gain for a block: manualDB, unless auto is
// set and the block's peak gain reduction exceeds AutoMakeupThresholdDB.
func MakeupTargetDB(manualDB float64, auto bool, peakGainReductionDB float64) float64 {
	if auto && peakGainReductionDB > AutoMakeupThresholdDB {
		return AutoMakeupDB(peakGainReductionDB)
	}

	return manualDB
}
