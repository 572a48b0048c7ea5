package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
	"github.com/cwbudde/algo-dualcomp/engine"
	"github.com/cwbudde/algo-dualcomp/internal/wavio"
	"github.com/cwbudde/algo-dualcomp/param"
)

func runProcess(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("process", stderr)
	in := fs.String("in", "", "input WAV file (16/24-bit PCM or 32-bit float)")
	out := fs.String("out", "", "output WAV file (32-bit float)")
	src := sessionSource{}
	fs.StringVar(&src.path, "config", "", "TOML session file")
	fs.StringVar(&src.preset, "preset", "", "factory preset name")
	fs.Var(&src.sets, "set", "parameter override name=value (repeatable)")
	block := fs.Int("block", 0, "block size in frames (default from session or 512)")
	verbose := fs.Bool("v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *in == "" || *out == "" {
		fs.Usage()
		return errors.New("process: -in and -out are required")
	}

	logger := newLogger(stderr, *verbose)

	session, snap, err := src.load()
	if err != nil {
		return err
	}

	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	audio, err := wavio.Read(f)
	f.Close()

	if err != nil {
		return fmt.Errorf("process %s: %w", *in, err)
	}

	// The file decides rate and channel count.
	opts := append(session.ProcessorOptions(),
		core.WithSampleRate(float64(audio.SampleRate)),
		core.WithChannels(len(audio.Channels)),
		core.WithBlockSize(*block),
	)
	cfg := core.ApplyProcessorOptions(opts...)

	eng, err := engine.New(opts...)
	if err != nil {
		return fmt.Errorf("process %s: %w", *in, err)
	}

	logger.Debug("processing",
		"in", *in,
		"frames", audio.Frames(),
		"sample_rate", audio.SampleRate,
		"channels", len(audio.Channels),
		"block", cfg.BlockSize,
	)

	store := param.NewStore()
	store.Replace(snap)

	start := time.Now()
	renderFile(eng, store, audio.Channels, cfg.BlockSize)
	elapsed := time.Since(start)

	o, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	if err := wavio.Write(o, audio.SampleRate, audio.Channels); err != nil {
		o.Close()
		return fmt.Errorf("process %s: %w", *out, err)
	}

	if err := o.Close(); err != nil {
		return fmt.Errorf("process %s: %w", *out, err)
	}

	logger.Info("done", "out", *out, "elapsed", elapsed)

	return printReading(stdout, eng)
}

// renderFile runs channels through eng in place, block frames at a time.
func renderFile(eng *engine.Engine, src param.Source, channels [][]float64, block int) {
	if len(channels) == 0 {
		return
	}

	n := len(channels[0])
	view := make([][]float64, len(channels))

	for lo := 0; lo < n; lo += block {
		hi := min(lo+block, n)
		for ch := range channels {
			view[ch] = channels[ch][lo:hi]
		}

		eng.Process(view, src)
	}
}

func printReading(w io.Writer, eng *engine.Engine) error {
	r := eng.Meter().Snapshot()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Input RMS\t%.2f dBFS\n", core.LinearToDB(r.InputRMS))
	fmt.Fprintf(tw, "Output RMS\t%.2f dBFS\n", core.LinearToDB(r.OutputRMS))
	fmt.Fprintf(tw, "Gain Reduction\t%.2f dB\n", r.GainReductionDB)
	fmt.Fprintf(tw, "Output Peak\t%.2f dBFS\n", core.LinearToDB(r.OutputPeak))
	fmt.Fprintf(tw, "Makeup\t%.2f dB\n", core.LinearToDB(eng.MakeupGain()))
	fmt.Fprintf(tw, "Topology\t%s\n", eng.ActiveTopology())
	fmt.Fprintf(tw, "Blocks\t%d\n", r.Blocks)

	return tw.Flush()
}
