// Package svf implements a topology-preserving-transform state-variable
// filter (Simper TPT SVF) with per-channel integrator state.
package svf

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
)

// DefaultQ is the Butterworth quality factor.
const DefaultQ = 1 / math.Sqrt2

const (
	minCutoffHz    = 1.0
	maxCutoffRatio = 0.49
)

// SVF is a second-order state-variable filter whose high-pass output is
// used as a detector prefilter. Coefficients are shared by all channels;
// integrator state is kept per channel.
type SVF struct {
	sampleRate float64
	cutoff     float64
	k          float64

	a1, a2, a3 float64

	ic1eq []float64
	ic2eq []float64
}

// New returns an SVF for channels channels at sampleRate, tuned to
// cutoffHz with Butterworth damping.
func New(sampleRate float64, channels int, cutoffHz float64) (*SVF, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("svf sample rate must be positive and finite: %f", sampleRate)
	}

	if channels <= 0 {
		return nil, fmt.Errorf("svf channel count must be positive: %d", channels)
	}

	f := &SVF{
		sampleRate: sampleRate,
		k:          1 / DefaultQ,
		ic1eq:      make([]float64, channels),
		ic2eq:      make([]float64, channels),
	}
	f.SetCutoff(cutoffHz)

	return f, nil
}

// SetCutoff retunes the filter. The cutoff is clamped to
// [1 Hz, 0.49*sampleRate]; non-finite values keep the previous tuning.
// Integrator state is preserved, so retuning between blocks is click-free.
func (f *SVF) SetCutoff(hz float64) {
	if !core.IsFinite(hz) {
		return
	}

	hz = core.Clamp(hz, minCutoffHz, maxCutoffRatio*f.sampleRate)
	if hz == f.cutoff {
		return
	}

	f.cutoff = hz
	g := math.Tan(math.Pi * hz / f.sampleRate)
	f.a1 = 1 / (1 + g*(g+f.k))
	f.a2 = g * f.a1
	f.a3 = g * f.a2
}

// Cutoff returns the effective cutoff in Hz.
func (f *SVF) Cutoff() float64 { return f.cutoff }

// SampleRate returns the sample rate in Hz.
func (f *SVF) SampleRate() float64 { return f.sampleRate }

// Channels returns the number of channel states held.
func (f *SVF) Channels() int { return len(f.ic1eq) }

// ProcessSample returns the high-pass output for one sample of channel ch.
// Out-of-range channels pass through unchanged.
func (f *SVF) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= len(f.ic1eq) {
		return x
	}

	ic1, ic2 := f.ic1eq[ch], f.ic2eq[ch]
	v3 := x - ic2
	v1 := f.a1*ic1 + f.a2*v3
	v2 := ic2 + f.a2*ic1 + f.a3*v3
	f.ic1eq[ch] = core.FlushDenormals(2*v1 - ic1)
	f.ic2eq[ch] = core.FlushDenormals(2*v2 - ic2)

	return x - f.k*v1 - v2
}

// ProcessBlock high-pass filters buf in place for channel ch.
func (f *SVF) ProcessBlock(buf []float64, ch int) {
	if ch < 0 || ch >= len(f.ic1eq) {
		return
	}

	a1, a2, a3, k := f.a1, f.a2, f.a3, f.k
	ic1, ic2 := f.ic1eq[ch], f.ic2eq[ch]

	for i, x := range buf {
		v3 := x - ic2
		v1 := a1*ic1 + a2*v3
		v2 := ic2 + a2*ic1 + a3*v3
		ic1 = core.FlushDenormals(2*v1 - ic1)
		ic2 = core.FlushDenormals(2*v2 - ic2)
		buf[i] = x - k*v1 - v2
	}

	f.ic1eq[ch], f.ic2eq[ch] = ic1, ic2
}

// Reset clears all integrator state.
func (f *SVF) Reset() {
	for i := range f.ic1eq {
		f.ic1eq[i] = 0
		f.ic2eq[i] = 0
	}
}
