// Package mix blends processed and unprocessed signals and soft-limits the
// result.
package mix

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
)

// limitDrive is the input scaling of the soft limiter; dividing the tanh
// output by the same value keeps the small-signal gain at unity.
const limitDrive = 0.9

// Ratio converts a mix percentage to a wet fraction in [0, 1].
func Ratio(mixPercent float64) float64 {
	if math.IsNaN(mixPercent) {
		return 1
	}

	return core.Clamp(mixPercent, 0, 100) / 100
}

// WetDry blends a wet path carrying a per-frame gain (such as a makeup
// ramp) with a dry path:
//
//	out = wet*gain*mix + dry*(1-mix)
//
// Frame gains are scaled by the mix once per block with SetGains; Process
// then blends any number of channels against them. A WetDry is sized at
// construction and never allocates afterwards.
type WetDry struct {
	wetGain []float64
	dryGain float64
	n       int
}

// NewWetDry returns a WetDry for blocks of up to maxBlock frames.
func NewWetDry(maxBlock int) (*WetDry, error) {
	if maxBlock <= 0 {
		return nil, fmt.Errorf("mix block size must be positive: %d", maxBlock)
	}

	return &WetDry{wetGain: make([]float64, maxBlock), dryGain: 0}, nil
}

// SetGains latches the frame gains and mix percentage for the next Process
// calls. len(gains) must not exceed the maximum block size; extra values
// are ignored.
func (w *WetDry) SetGains(gains []float64, mixPercent float64) {
	m := Ratio(mixPercent)
	w.n = min(len(gains), len(w.wetGain))
	vecmath.ScaleBlock(w.wetGain[:w.n], gains[:w.n], m)
	w.dryGain = 1 - m
}

// Process writes the blend of wet and dry into dst. dry is used as scratch
// and overwritten. All slices must be at least as long as the latched gain
// block; only that many frames are processed.
func (w *WetDry) Process(dst, wet, dry []float64) {
	n := w.n
	vecmath.ScaleBlockInPlace(dry[:n], w.dryGain)
	vecmath.MulAddBlock(dst[:n], wet[:n], w.wetGain[:n], dry[:n])
}

// SoftLimit returns tanh(0.9*x)/0.9.
func SoftLimit(x float64) float64 {
	return math.Tanh(limitDrive*x) / limitDrive
}

// SoftLimitBlock soft-limits buf in place.
func SoftLimitBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = math.Tanh(limitDrive*x) / limitDrive
	}
}
