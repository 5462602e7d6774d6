// Command modgraph renders a modulation graph patch offline.
//
// Usage:
//
//	modgraph [flags] [patch.json]
//
// Without a patch file it renders the built-in demo: a jitter line
// modulating the reverb time of a comb filter on a sine oscillator.
//
// Examples:
//
//	modgraph -seconds 4 -wav demo.wav
//	modgraph -rate 48000 -seed 7 -peaks 8 patch.json
//	modgraph -print-demo > patch.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-modgraph/dsp/core"
	"github.com/cwbudde/algo-modgraph/dsp/graph"
	"github.com/cwbudde/algo-modgraph/dsp/patch"
	"github.com/cwbudde/algo-modgraph/dsp/spectrum"
	"github.com/cwbudde/algo-modgraph/render"
)

type options struct {
	rate      float64
	block     int
	seed      int64
	seconds   float64
	strict    bool
	wavPath   string
	fadeMS    float64
	peaks     int
	fftSize   int
	logLevel  string
	logFormat string
	printDemo bool
	patchPath string
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("modgraph", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&o.rate, "rate", 44100, "sample rate in Hz")
	fs.IntVar(&o.block, "block", 512, "render block size in samples")
	fs.Int64Var(&o.seed, "seed", 1, "random seed; 0 selects a time-based seed")
	fs.Float64Var(&o.seconds, "seconds", 2, "duration to render")
	fs.BoolVar(&o.strict, "strict", false, "fail on out-of-range modulated parameters instead of clamping")
	fs.StringVar(&o.wavPath, "wav", "", "write the rendered audio to this 16-bit stereo WAV file")
	fs.Float64Var(&o.fadeMS, "fade", 10, "fade in/out length in milliseconds applied before export")
	fs.IntVar(&o.peaks, "peaks", 5, "number of spectrum peaks to report (0 disables)")
	fs.IntVar(&o.fftSize, "fft", 4096, "spectrum frame size")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", "text", "log format: text or json")
	fs.BoolVar(&o.printDemo, "print-demo", false, "print the built-in demo patch as JSON and exit")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: modgraph [flags] [patch.json]\n\n")
		fmt.Fprintf(stderr, "Renders a modulation graph offline and reports its spectrum.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.rate <= 0 {
		return o, fmt.Errorf("sample rate must be > 0: %v", o.rate)
	}
	if fs.NArg() > 1 {
		return o, fmt.Errorf("expected at most one patch file, got %d", fs.NArg())
	}
	o.patchPath = fs.Arg(0)
	return o, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	hopts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if o.printDemo {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(patch.Demo())
	}

	logger, err := newLogger(stderr, o.logLevel, o.logFormat)
	if err != nil {
		return err
	}

	p := patch.Demo()
	if o.patchPath != "" {
		if p, err = patch.Load(o.patchPath); err != nil {
			return err
		}
	}

	ctx, err := core.NewContext(
		core.WithSampleRate(o.rate),
		core.WithBlockSize(o.block),
		core.WithSeed(o.seed),
		core.WithStrict(o.strict),
		core.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	g, err := p.Build(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Teardown(); err != nil {
			logger.Error("teardown", "err", err)
		}
	}()

	if err := printOrder(stdout, g); err != nil {
		return err
	}

	left, right, err := render.Seconds(g, o.seconds)
	if err != nil {
		return err
	}
	logger.Info("rendered", "frames", len(left), "seconds", o.seconds, "checksum", render.Checksum(left, right))

	if o.peaks > 0 && len(left) > 0 {
		if err := printPeaks(stdout, left, o.rate, o.fftSize, o.peaks); err != nil {
			return err
		}
	}

	if o.wavPath != "" {
		fade := int(o.fadeMS / 1000 * o.rate)
		render.Fade(left, fade, fade)
		render.Fade(right, fade, fade)
		if err := writeWAV(o.wavPath, int(o.rate), left, right); err != nil {
			return err
		}
		logger.Info("wrote wav", "path", o.wavPath)
	}

	return nil
}

func printOrder(w io.Writer, g *graph.Graph) error {
	order, err := g.Order()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNODE\tKIND\tARGUMENTS\tPARAMETERS")
	for i, n := range order {
		decl, err := graph.ArgumentsOf(n.Kind())
		if err != nil {
			return err
		}
		args := []string{"-"}
		if values := n.Arguments(); len(values) > 0 {
			args = args[:0]
			for j, v := range values {
				args = append(args, fmt.Sprintf("%s=%g", decl[j].Name, v))
			}
		}

		var params []string
		for _, slot := range n.Slots() {
			p, _ := n.Parameter(slot)
			params = append(params, slot+"="+p.String())
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i, n.Label(), n.Kind(), strings.Join(args, " "), strings.Join(params, " "))
	}
	return tw.Flush()
}

func printPeaks(w io.Writer, samples []float64, rate float64, size, count int) error {
	a, err := spectrum.NewAnalyzer(size, rate)
	if err != nil {
		return err
	}

	frame := samples
	if len(frame) > size {
		frame = frame[len(frame)-size:]
	}
	mag, err := a.Magnitude(frame)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "FREQ (Hz)\tLEVEL (dB)\t")
	for _, p := range a.Peaks(mag, count) {
		fmt.Fprintf(tw, "%.1f\t%.1f\t\n", p.Frequency, core.LinearToDB(p.Magnitude))
	}
	return tw.Flush()
}

func writeWAV(path string, rate int, left, right []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WriteWAV(f, rate, left, right); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
