package main

import (
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath/cpu"
)

func runInfo(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("info", stderr)
	generic := fs.Bool("generic", false, "report with SIMD kernels disabled")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *generic {
		cpu.SetForcedFeatures(cpu.Features{ForceGeneric: true, Architecture: runtime.GOARCH})
		defer cpu.ResetDetection()
	}

	f := cpu.DetectFeatures()

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Architecture\t%s\n", f.Architecture)
	fmt.Fprintf(tw, "SSE2\t%t\n", f.HasSSE2)
	fmt.Fprintf(tw, "AVX2\t%t\n", f.HasAVX2)
	fmt.Fprintf(tw, "NEON\t%t\n", f.HasNEON)
	fmt.Fprintf(tw, "Generic forced\t%t\n", f.ForceGeneric)
	fmt.Fprintf(tw, "Go\t%s\n", runtime.Version())

	return tw.Flush()
}
