package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-dualcomp/param"
)

func runPresets(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("presets", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Preset\tSettings\n")
	fmt.Fprintf(tw, "------\t--------\n")

	for _, p := range param.Presets() {
		settings := "(keeps current values)"

		if len(p.Values) > 0 {
			parts := make([]string, 0, len(p.Values))
			for _, v := range p.Values {
				d, _ := param.ByID(v.ID)
				parts = append(parts, d.Name+"="+d.Format(v.Value))
			}

			settings = strings.Join(parts, ", ")
		}

		fmt.Fprintf(tw, "%s\t%s\n", p.Name, settings)
	}

	return tw.Flush()
}

func runParams(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("params", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tName\tLabel\tMin\tMax\tDefault\n")
	fmt.Fprintf(tw, "--\t----\t-----\t---\t---\t-------\n")

	for _, d := range param.Definitions() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Name, d.Label,
			d.Format(d.Min), d.Format(d.Max), d.Format(d.Default),
		)
	}

	return tw.Flush()
}
