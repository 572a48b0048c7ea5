// Package meter publishes per-block level statistics from the audio
// goroutine to any number of polling readers without locks.
package meter

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
)

// Smoothing is the per-block weight of the previous RMS value.
const Smoothing = 0.99

// MaxGainReductionDB bounds the published gain reduction.
const MaxGainReductionDB = 60.0

// Reading is a point-in-time copy of all meter values. Fields are loaded
// individually, so a Reading taken while a block is being published may
// mix values from two consecutive blocks.
type Reading struct {
	InputRMS        float64
	OutputRMS       float64
	GainReductionDB float64
	OutputPeak      float64
	Blocks          uint64
}

// Meter holds float64 values as atomic bit patterns. Publish and
// PublishPeak must be called from a single goroutine; the getters are safe
// from any goroutine.
type Meter struct {
	inputRMS   atomic.Uint64
	outputRMS  atomic.Uint64
	gr         atomic.Uint64
	outputPeak atomic.Uint64
	blocks     atomic.Uint64
}

// Publish folds one block into the meters: the block RMS values are
// computed from the sums of squares over n samples and smoothed
// exponentially, and peakGR replaces the gain reduction reading.
func (m *Meter) Publish(inSumSq, outSumSq float64, n int, peakGR float64) {
	if n > 0 {
		m.inputRMS.Store(math.Float64bits(smooth(load(&m.inputRMS), inSumSq, n)))
		m.outputRMS.Store(math.Float64bits(smooth(load(&m.outputRMS), outSumSq, n)))
	}

	if math.IsNaN(peakGR) {
		peakGR = 0
	}

	peakGR = core.Clamp(peakGR, 0, MaxGainReductionDB)

	m.gr.Store(math.Float64bits(peakGR))
	m.blocks.Add(1)
}

// PublishPeak stores the absolute output peak of the last block.
func (m *Meter) PublishPeak(peak float64) {
	m.outputPeak.Store(math.Float64bits(math.Abs(peak)))
}

// InputRMS returns the smoothed input RMS (linear).
func (m *Meter) InputRMS() float64 { return load(&m.inputRMS) }

// OutputRMS returns the smoothed output RMS (linear).
func (m *Meter) OutputRMS() float64 { return load(&m.outputRMS) }

// GainReduction returns the peak gain reduction of the last block in dB.
func (m *Meter) GainReduction() float64 { return load(&m.gr) }

// OutputPeak returns the absolute output peak of the last block.
func (m *Meter) OutputPeak() float64 { return load(&m.outputPeak) }

// Blocks returns the number of published blocks.
func (m *Meter) Blocks() uint64 { return m.blocks.Load() }

// Snapshot returns all current values.
func (m *Meter) Snapshot() Reading {
	return Reading{
		InputRMS:        m.InputRMS(),
		OutputRMS:       m.OutputRMS(),
		GainReductionDB: m.GainReduction(),
		OutputPeak:      m.OutputPeak(),
		Blocks:          m.Blocks(),
	}
}

// Reset zeroes every value.
func (m *Meter) Reset() {
	m.inputRMS.Store(0)
	m.outputRMS.Store(0)
	m.gr.Store(0)
	m.outputPeak.Store(0)
	m.blocks.Store(0)
}

func load(v *atomic.Uint64) float64 {
	return math.Float64frombits(v.Load())
}

func smooth(prev, sumSq float64, n int) float64 {
	inst := math.Sqrt(math.Max(sumSq, 0) / float64(n))
	if math.IsNaN(inst) || math.IsInf(inst, 0) {
		return prev
	}

	return core.FlushDenormals(prev*Smoothing + inst*(1-Smoothing))
}
