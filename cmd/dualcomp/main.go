// Command dualcomp runs the dual-stage compressor offline or live and
// prints its parameter, preset and coloration tables.
//
// Usage:
//
//	dualcomp <command> [flags]
//
// Commands:
//
//	process  compress a WAV file
//	live     run a duplex audio device through the compressor
//	presets  list factory presets
//	params   list parameters
//	thd      measure harmonic distortion per topology
//	info     print detected SIMD features
//
// Examples:
//
//	dualcomp process -in vox.wav -out vox-comp.wav -preset "Vocal Leveler"
//	dualcomp process -in drums.wav -out out.wav -set ratio1=6 -set dual_stage=on
//	dualcomp live -config session.toml -watch
//	dualcomp thd -freq 100 -level -6
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type command struct {
	name    string
	summary string
	run     func(args []string, stdout, stderr io.Writer) error
}

var commands = []command{
	{"process", "compress a WAV file", runProcess},
	{"live", "run a duplex audio device through the compressor", runLive},
	{"presets", "list factory presets", runPresets},
	{"params", "list parameters", runParams},
	{"thd", "measure harmonic distortion per topology", runTHD},
	{"info", "print detected SIMD features", runInfo},
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return flag.ErrHelp
	}

	name := strings.ToLower(args[0])
	for _, c := range commands {
		if c.name == name {
			return c.run(args[1:], stdout, stderr)
		}
	}

	switch name {
	case "-h", "-help", "--help", "help":
		usage(stderr)
		return flag.ErrHelp
	}

	usage(stderr)

	return fmt.Errorf("unknown command %q", args[0])
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: dualcomp <command> [flags]\n\nCommands:\n")

	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}

	fmt.Fprintf(w, "\nRun 'dualcomp <command> -h' for command flags.\n")
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	return fs
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
