package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
	"github.com/cwbudde/algo-dualcomp/dsp/dynamics"
	"github.com/cwbudde/algo-dualcomp/engine"
	"github.com/cwbudde/algo-dualcomp/measure/thd"
	"github.com/cwbudde/algo-dualcomp/param"
)

const thdSize = 16384

func runTHD(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("thd", stderr)
	freq := fs.Float64("freq", 1000, "test tone frequency in Hz (snapped to an FFT bin)")
	level := fs.Float64("level", -6, "test tone level in dBFS")
	rate := fs.Float64("rate", 48000, "sample rate in Hz")
	full := fs.Bool("engine", false, "measure the full compressor with default parameters instead of the shaper alone")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !(*rate > 0) || !(*freq > 0) || *freq >= *rate/2 {
		return fmt.Errorf("thd: frequency %g Hz out of range for %g Hz", *freq, *rate)
	}

	bin := math.Max(1, math.Round(*freq*thdSize / *rate))
	fundamental := bin * *rate / thdSize
	amp := core.DBToLinear(*level)

	analyzer, err := thd.NewAnalyzer(thdSize, thd.Config{SampleRate: *rate, FundamentalFreq: fundamental})
	if err != nil {
		return fmt.Errorf("thd: %w", err)
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Topology\tCharacter\tTHD [%%]\tEven [%%]\tOdd [%%]\tTHD [dB]\n")
	fmt.Fprintf(tw, "--------\t---------\t-------\t--------\t-------\t--------\n")

	for _, topo := range dynamics.Topologies() {
		var signal []float64
		if *full {
			signal, err = engineTone(topo, *rate, fundamental, amp)
			if err != nil {
				return err
			}
		} else {
			signal = shaperTone(topo, *rate, fundamental, amp)
		}

		r := analyzer.Analyze(signal)
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%.4f\t%.1f\n",
			topo, topo.Description(), r.THD*100, r.EvenHD*100, r.OddHD*100, r.THDdB)
	}

	return tw.Flush()
}

func tone(rate, freq, amp float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}

	return out
}

func shaperTone(topo dynamics.Topology, rate, freq, amp float64) []float64 {
	out := tone(rate, freq, amp, thdSize)
	for i, x := range out {
		out[i] = dynamics.Shape(x, topo)
	}

	return out
}

// engineTone runs a mono tone through the compressor long enough to settle
// and returns the last thdSize samples.
func engineTone(topo dynamics.Topology, rate, freq, amp float64) ([]float64, error) {
	eng, err := engine.New(core.WithSampleRate(rate), core.WithChannels(1))
	if err != nil {
		return nil, fmt.Errorf("thd: %w", err)
	}

	snap, err := param.Default().With(param.IDTopology, float64(topo))
	if err != nil {
		return nil, fmt.Errorf("thd: %w", err)
	}

	store := param.NewStore()
	store.Replace(snap)

	signal := tone(rate, freq, amp, 3*thdSize)
	renderFile(eng, store, [][]float64{signal}, eng.MaxBlockSize())

	return signal[len(signal)-thdSize:], nil
}
