package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
)

const (
	// envelopeEpsilon keeps the dB conversion of a silent envelope finite.
	envelopeEpsilon = 1e-6

	minThresholdDB = -60.0
	maxThresholdDB = 0.0
	minRatio       = 1.0
	maxRatio       = 100.0
	minKneeDB      = 0.0
	maxKneeDB      = 24.0
	minAttackMs    = 0.01
	maxAttackMs    = 1000.0
	minReleaseMs   = 20.0
	maxReleaseMs   = 5000.0
)

// StageConfig holds the per-block parameters of one compression stage.
type StageConfig struct {
	ThresholdDB float64
	Ratio       float64
	AttackMs    float64
	ReleaseMs   float64
	KneeDB      float64
}

// DefaultStageConfig returns the leveler defaults (-24 dB, 4:1, 10/150 ms,
// 6 dB knee).
func DefaultStageConfig() StageConfig {
	return StageConfig{
		ThresholdDB: -24,
		Ratio:       4,
		AttackMs:    10,
		ReleaseMs:   150,
		KneeDB:      6,
	}
}

// Sanitize returns c with every field clamped to its valid range. NaN
// fields fall back to the lower bound.
func (c StageConfig) Sanitize() StageConfig {
	return StageConfig{
		ThresholdDB: clampField(c.ThresholdDB, minThresholdDB, maxThresholdDB),
		Ratio:       clampField(c.Ratio, minRatio, maxRatio),
		AttackMs:    clampField(c.AttackMs, minAttackMs, maxAttackMs),
		ReleaseMs:   clampField(c.ReleaseMs, minReleaseMs, maxReleaseMs),
		KneeDB:      clampField(c.KneeDB, minKneeDB, maxKneeDB),
	}
}

// Stage is one compressor stage: envelope follower on the detector signal,
// soft-knee gain curve, one-pole gain smoothing and topology shaping of the
// gain-reduced program sample.
//
// A Stage holds a single envelope, so channels processed through the same
// Stage share (and sequentially drive) its detector state.
type Stage struct {
	sampleRate float64
	cfg        StageConfig

	env  EnvelopeFollower
	gain GainSmoother

	lastGR float64
}

// NewStage returns a Stage at sampleRate with DefaultStageConfig.
func NewStage(sampleRate float64) (*Stage, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("stage sample rate must be positive and finite: %f", sampleRate)
	}

	s := &Stage{sampleRate: sampleRate}
	s.SetParameters(DefaultStageConfig())
	s.Reset()

	return s, nil
}

// SetSampleRate changes the sample rate and re-derives the time coefficients.
func (s *Stage) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("stage sample rate must be positive and finite: %f", sampleRate)
	}

	s.sampleRate = sampleRate
	s.env.SetTimes(s.cfg.AttackMs, s.cfg.ReleaseMs, sampleRate)

	return nil
}

// SetParameters latches cfg for the following samples. Out-of-range values
// are clamped. Call once per block before processing.
func (s *Stage) SetParameters(cfg StageConfig) {
	s.cfg = cfg.Sanitize()
	s.env.SetTimes(s.cfg.AttackMs, s.cfg.ReleaseMs, s.sampleRate)
}

// Parameters returns the latched configuration.
func (s *Stage) Parameters() StageConfig { return s.cfg }

// SampleRate returns the sample rate in Hz.
func (s *Stage) SampleRate() float64 { return s.sampleRate }

// ProcessSample compresses input using detector for level detection and
// returns the shaped output and the gain reduction in dB.
func (s *Stage) ProcessSample(input, detector float64, mode Topology) (float64, float64) {
	env := s.env.Process(detector)
	envDB := 20 * mathLog10(env+envelopeEpsilon)

	gr := GainReductionDB(envDB, s.cfg.ThresholdDB, s.cfg.Ratio, s.cfg.KneeDB)
	g := s.gain.Process(mathPower10(-gr / 20))
	s.lastGR = gr

	return Shape(input*g, mode), gr
}

// Envelope returns the current detector envelope (linear).
func (s *Stage) Envelope() float64 { return s.env.Value() }

// Gain returns the current smoothed linear gain.
func (s *Stage) Gain() float64 { return s.gain.Value() }

// GainReduction returns the gain reduction computed for the last sample.
func (s *Stage) GainReduction() float64 { return s.lastGR }

// Reset clears the envelope and returns the gain to unity.
func (s *Stage) Reset() {
	s.env.Reset()
	s.gain.Reset()
	s.lastGR = 0
}

func clampField(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}

	return core.Clamp(v, lo, hi)
}
