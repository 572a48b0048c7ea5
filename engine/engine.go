// Package engine runs the dual-stage compressor over planar audio blocks.
//
// Each block is processed in two passes. The first pass DC-blocks the
// program signal and runs it through stage 1 and, if enabled, stage 2,
// both keyed by a high-pass filtered copy of the input; it collects the
// block's peak gain reduction and RMS statistics. Between the passes the
// makeup gain target is derived from those statistics. The second pass
// applies the ramped makeup gain, blends with the dry input and soft-limits.
//
// The gain reduction of the two stages is summed in dB for metering and
// auto-makeup. This approximates, but is not identical to, the reduction of
// the cascaded stages after topology shaping.
package engine

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
	"github.com/cwbudde/algo-dualcomp/dsp/dynamics"
	"github.com/cwbudde/algo-dualcomp/dsp/filter/dcblock"
	"github.com/cwbudde/algo-dualcomp/dsp/filter/svf"
	"github.com/cwbudde/algo-dualcomp/dsp/mix"
	"github.com/cwbudde/algo-dualcomp/measure/meter"
	"github.com/cwbudde/algo-dualcomp/param"
)

// Engine is the block processor. Prepare must succeed before processing;
// until then blocks pass through untouched. ProcessBlock and Process are
// meant for a single audio goroutine and never allocate or lock. Meter and
// ActiveTopology may be read from any goroutine.
type Engine struct {
	sampleRate float64
	maxBlock   int
	layout     Layout
	prepared   bool

	dc     *dcblock.Blocker
	sc     *svf.SVF
	stage1 *dynamics.Stage
	stage2 *dynamics.Stage
	makeup *dynamics.Ramp
	blend  *mix.WetDry

	dry   [][]float64
	side  [][]float64
	gains []float64

	meter    meter.Meter
	topology atomic.Int32
}

// New returns an Engine prepared from processor options. The channel count
// selects a symmetric layout.
func New(opts ...core.ProcessorOption) (*Engine, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	e := &Engine{}
	if err := e.Prepare(cfg.SampleRate, cfg.BlockSize, LayoutFor(cfg.Channels)); err != nil {
		return nil, err
	}

	return e, nil
}

// Prepare sizes all state and scratch for sampleRate, blocks of up to
// maxBlock frames and layout, and resets the processing state. It is the
// only method that allocates.
func (e *Engine) Prepare(sampleRate float64, maxBlock int, layout Layout) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("engine sample rate must be positive and finite: %f", sampleRate)
	}

	if maxBlock <= 0 {
		return fmt.Errorf("engine block size must be positive: %d", maxBlock)
	}

	if err := NegotiateLayout(layout); err != nil {
		return fmt.Errorf("engine prepare: %w", err)
	}

	channels := layout.Inputs
	defaults := param.Default()

	dc, err := dcblock.New(channels)
	if err != nil {
		return fmt.Errorf("engine prepare: %w", err)
	}

	sc, err := svf.New(sampleRate, channels, defaults.SidechainHz)
	if err != nil {
		return fmt.Errorf("engine prepare: %w", err)
	}

	stage1, err := dynamics.NewStage(sampleRate)
	if err != nil {
		return fmt.Errorf("engine prepare: %w", err)
	}

	stage2, err := dynamics.NewStage(sampleRate)
	if err != nil {
		return fmt.Errorf("engine prepare: %w", err)
	}

	blend, err := mix.NewWetDry(maxBlock)
	if err != nil {
		return fmt.Errorf("engine prepare: %w", err)
	}

	e.sampleRate = sampleRate
	e.maxBlock = maxBlock
	e.layout = layout
	e.dc = dc
	e.sc = sc
	e.stage1 = stage1
	e.stage2 = stage2
	e.makeup = dynamics.NewRamp(sampleRate, dynamics.MakeupRampSeconds, 1)
	e.blend = blend
	e.dry = core.NewPlanar(channels, maxBlock)
	e.side = core.NewPlanar(channels, maxBlock)
	e.gains = make([]float64, maxBlock)
	e.prepared = true

	e.Reset()

	return nil
}

// Reset clears filter, envelope, gain and meter state. The makeup gain
// returns to unity.
func (e *Engine) Reset() {
	if !e.prepared {
		return
	}

	e.dc.Reset()
	e.sc.Reset()
	e.stage1.Reset()
	e.stage2.Reset()
	e.makeup.SetCurrentAndTarget(1)
	e.meter.Reset()
	e.topology.Store(int32(dynamics.TopologyVCA))
}

// Process reads the current snapshot from src and processes buf. When src
// is nil or reports its parameters as unavailable the block passes through
// unchanged, apart from silencing channels beyond the input count.
func (e *Engine) Process(buf [][]float64, src param.Source) {
	if src == nil {
		e.silenceExtra(buf)
		return
	}

	snap, ok := src.Snapshot()
	if !ok {
		e.silenceExtra(buf)
		return
	}

	e.ProcessBlock(buf, snap)
}

// ProcessBlock compresses buf in place using snap for the whole call.
// buf holds one slice per channel; channels at or beyond the layout's
// input count are zeroed. Blocks longer than the prepared maximum are
// processed in chunks. Out-of-range parameter values are clamped.
func (e *Engine) ProcessBlock(buf [][]float64, snap param.Snapshot) {
	e.silenceExtra(buf)

	if !e.prepared {
		return
	}

	channels := min(len(buf), e.layout.Inputs)
	if channels == 0 {
		return
	}

	frames := len(buf[0])
	for ch := 1; ch < channels; ch++ {
		frames = min(frames, len(buf[ch]))
	}

	snap = snap.Sanitize()
	e.sc.SetCutoff(snap.SidechainHz)
	e.stage1.SetParameters(snap.StageConfig(1))
	e.stage2.SetParameters(snap.StageConfig(2))
	e.topology.Store(int32(snap.Topology))

	for lo := 0; lo < frames; lo += e.maxBlock {
		hi := min(lo+e.maxBlock, frames)
		e.processChunk(buf[:channels], lo, hi, &snap)
	}
}

func (e *Engine) processChunk(buf [][]float64, lo, hi int, snap *param.Snapshot) {
	n := hi - lo
	mode := snap.Topology
	dual := snap.DualStage

	var peakGR, inSq, outSq float64

	for ch, channel := range buf {
		x := channel[lo:hi]
		dry := e.dry[ch][:n]
		side := e.side[ch][:n]

		copy(dry, x)
		copy(side, x)
		e.sc.ProcessBlock(side, ch)

		for i, in := range x {
			v := e.dc.ProcessSample(in, ch)
			inSq += v * v

			out, gr := e.stage1.ProcessSample(v, side[i], mode)
			if dual {
				var gr2 float64
				out, gr2 = e.stage2.ProcessSample(out, side[i], mode)
				gr += gr2
			}

			if gr > peakGR {
				peakGR = gr
			}

			x[i] = out
		}

		outSq += vecmath.DotProduct(x, x)
	}

	peakGR = math.Min(peakGR, dynamics.MaxGainReductionDB)
	e.meter.Publish(inSq, outSq, n*len(buf), peakGR)

	target := dynamics.MakeupTargetDB(snap.MakeupDB, snap.AutoMakeup, peakGR)
	e.makeup.SetTarget(core.DBToLinear(target))

	gains := e.gains[:n]
	e.makeup.Render(gains)
	e.blend.SetGains(gains, snap.MixPercent)

	peak := 0.0

	for ch, channel := range buf {
		x := channel[lo:hi]
		e.blend.Process(x, x, e.dry[ch][:n])
		mix.SoftLimitBlock(x)
		peak = math.Max(peak, vecmath.MaxAbs(x))
	}

	e.meter.PublishPeak(peak)
}

func (e *Engine) silenceExtra(buf [][]float64) {
	if !e.prepared {
		return
	}

	for ch := e.layout.Inputs; ch < len(buf); ch++ {
		core.Zero(buf[ch])
	}
}

// Meter returns the engine's level meter.
func (e *Engine) Meter() *meter.Meter { return &e.meter }

// ActiveTopology returns the topology latched for the most recent block.
func (e *Engine) ActiveTopology() dynamics.Topology {
	return dynamics.Topology(e.topology.Load())
}

// SampleRate returns the prepared sample rate.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// MaxBlockSize returns the prepared maximum chunk length.
func (e *Engine) MaxBlockSize() int { return e.maxBlock }

// Layout returns the prepared channel layout.
func (e *Engine) Layout() Layout { return e.layout }

// MakeupGain returns the current linear makeup gain.
func (e *Engine) MakeupGain() float64 {
	if !e.prepared {
		return 1
	}

	return e.makeup.Current()
}

// LatencySamples reports the processing latency. No look-ahead delay is
// applied.
func (e *Engine) LatencySamples() int { return 0 }

// TailSeconds reports how long output continues after input stops.
func (e *Engine) TailSeconds() float64 { return 0 }
