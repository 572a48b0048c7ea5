// Package dcblock provides a per-channel one-pole DC blocking high-pass.
package dcblock

import (
	"fmt"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
)

// DefaultPole is the feedback coefficient a in y = x - x[n-1] + a*y[n-1].
const DefaultPole = 0.9997

// Blocker removes DC offset from up to Channels() independent channels.
// Each channel keeps one history pair (previous input, previous output).
type Blocker struct {
	pole float64
	x1   []float64
	y1   []float64
}

// New returns a Blocker for channels channels using DefaultPole.
func New(channels int) (*Blocker, error) {
	return NewWithPole(channels, DefaultPole)
}

// NewWithPole returns a Blocker with a custom pole. The pole must lie in
// [0, 1) for the filter to be stable.
func NewWithPole(channels int, pole float64) (*Blocker, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("dc blocker channel count must be positive: %d", channels)
	}

	if pole < 0 || pole >= 1 {
		return nil, fmt.Errorf("dc blocker pole must be in [0, 1): %f", pole)
	}

	return &Blocker{
		pole: pole,
		x1:   make([]float64, channels),
		y1:   make([]float64, channels),
	}, nil
}

// Channels returns the number of channel histories held.
func (b *Blocker) Channels() int { return len(b.x1) }

// Pole returns the feedback coefficient.
func (b *Blocker) Pole() float64 { return b.pole }

// ProcessSample filters one sample of channel ch. Out-of-range channels
// pass through unchanged. Outputs below the denormal range are flushed to
// zero so the feedback state reaches exact silence.
func (b *Blocker) ProcessSample(x float64, ch int) float64 {
	if ch < 0 || ch >= len(b.x1) {
		return x
	}

	y := core.FlushDenormals(x - b.x1[ch] + b.pole*b.y1[ch])
	b.x1[ch] = x
	b.y1[ch] = y

	return y
}

// ProcessBlock filters buf in place for channel ch.
func (b *Blocker) ProcessBlock(buf []float64, ch int) {
	if ch < 0 || ch >= len(b.x1) {
		return
	}

	x1, y1 := b.x1[ch], b.y1[ch]
	for i, x := range buf {
		y := core.FlushDenormals(x - x1 + b.pole*y1)
		x1, y1 = x, y
		buf[i] = y
	}

	b.x1[ch], b.y1[ch] = x1, y1
}

// Reset clears all channel histories.
func (b *Blocker) Reset() {
	for i := range b.x1 {
		b.x1[i] = 0
		b.y1[i] = 0
	}
}
