// ABOUTME: Entry point for the lohigh CLI
// ABOUTME: Parses flags and positionals, loads configuration and runs the app
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gongahkia/lohigh/internal/app"
	"github.com/gongahkia/lohigh/internal/combine"
	"github.com/gongahkia/lohigh/internal/config"
	"github.com/gongahkia/lohigh/internal/version"
	"github.com/gongahkia/lohigh/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// seconds is a flag value accepting "1.5", "1.5s" or a Go duration
type seconds float64

func (s *seconds) String() string {
	return strconv.FormatFloat(float64(*s), 'g', -1, 64)
}

func (s *seconds) Set(value string) error {
	value = strings.TrimSpace(value)
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, "s"), 64)
	if err != nil {
		d, derr := time.ParseDuration(value)
		if derr != nil {
			return fmt.Errorf("invalid number of seconds %q", value)
		}
		f = d.Seconds()
	}
	if f < 0 {
		return fmt.Errorf("must not be negative, got %q", value)
	}
	*s = seconds(f)
	return nil
}

// options holds the parsed command line
type options struct {
	app          app.Config
	level        float64
	noNormalize  bool
	fade         seconds
	preview      seconds
	minFreeMB    int
	listAmbients bool
	verbose      bool
	quiet        bool
	json         bool
	version      bool
}

func newFlagSet(cfg *config.Config, o *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("lohigh", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	o.fade = seconds(cfg.Fade)
	o.minFreeMB = cfg.MinFreeMB

	fs.Var(&o.fade, "fade", "Crossfade between files in seconds (e.g. 1.5)")
	fs.Float64Var(&o.level, "level", cfg.Level, "Normalize audio to target level (0.0-1.0)")
	fs.BoolVar(&o.noNormalize, "no-normalize", false, "Disable volume normalization")
	fs.Var(&o.preview, "preview", "Process only the first N seconds of each file")
	fs.IntVar(&o.app.Combine.LoopCount, "loop", cfg.Loop, "Repeat the first file N times")
	fs.BoolVar(&o.app.Reverse, "reverse", cfg.Reverse, "Swap file order (bed after content)")
	fs.StringVar(&o.app.Ambient, "ambient", cfg.Ambient, "Ambient bed: name, random, or a file path")
	fs.BoolVar(&o.listAmbients, "list-ambients", false, "List available ambient beds and exit")
	fs.BoolVar(&o.app.Batch, "batch", false, "Combine the bed with every input file")
	fs.StringVar(&o.app.OutputDir, "output-dir", cfg.OutputDir, "Output directory for batch mode")
	fs.StringVar(&o.app.Playlist, "playlist", "", "Chain the files listed in FILE into one output")
	fs.BoolVar(&o.app.Shuffle, "shuffle", cfg.Shuffle, "Randomize batch or playlist order")
	fs.BoolVar(&o.app.NoClobber, "no-clobber", cfg.NoClobber, "Refuse to overwrite an existing output")
	fs.BoolVar(&o.app.Force, "force", cfg.Force, "Overwrite outputs even with no-clobber")
	fs.BoolVar(&o.app.Combine.Strict, "strict", cfg.Strict, "Refuse inputs with different formats")
	fs.BoolVar(&o.app.Combine.Atomic, "atomic", cfg.Atomic, "Write to a temporary file and rename on success")
	fs.BoolVar(&o.app.DryRun, "dry-run", false, "Show what would be done without writing")
	fs.BoolVar(&o.app.Play, "play", false, "Play the result after writing it")
	fs.BoolVar(&o.app.TUI, "tui", false, "Show an interactive progress display for batch and playlist runs")
	fs.BoolVar(&o.verbose, "v", false, "Show detailed processing information")
	fs.BoolVar(&o.verbose, "verbose", false, "Alias for -v")
	fs.BoolVar(&o.quiet, "q", false, "Suppress all output except errors")
	fs.BoolVar(&o.quiet, "quiet", false, "Alias for -q")
	fs.BoolVar(&o.json, "json", false, "Print a JSON result document")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")

	return fs
}

// parseArgs parses flags that may appear before, between or after the
// positional arguments
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	var o options
	fs := newFlagSet(cfg, &o, stderr)
	positional, err := parseArgs(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	if o.version {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	level := logger.Normal
	switch {
	case o.quiet:
		level = logger.Quiet
	case o.verbose:
		level = logger.Verbose
	}
	log := logger.New(stdout, stderr, level, o.json)
	if cfg.Path != "" {
		log.Debug("Read configuration from %s", cfg.Path)
	}

	o.app.Args = positional
	o.app.AssetDir = cfg.AssetDir
	o.app.Volume = cfg.Volume
	o.app.Combine.FadeSeconds = float64(o.fade)
	o.app.Combine.PreviewSeconds = float64(o.preview)
	o.app.Combine.NormalizeLevel = o.level
	if o.noNormalize {
		o.app.Combine.NormalizeLevel = 0
	}
	if o.minFreeMB > 0 {
		o.app.Combine.MinFreeBytes = uint64(o.minFreeMB) << 20
	}

	if err := validate(o); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	a := app.New(o.app, log, stdin, stdout)
	if o.listAmbients {
		a.ListAmbients()
		return 0
	}

	if err := a.Run(ctx); err != nil {
		report(stderr, err)
		return 1
	}
	return 0
}

func validate(o options) error {
	if o.level < 0 || o.level > 1 {
		return fmt.Errorf("level must be between 0.0 and 1.0, got %g", o.level)
	}
	if o.app.Combine.LoopCount < 1 {
		return fmt.Errorf("loop count must be at least 1, got %d", o.app.Combine.LoopCount)
	}
	return nil
}

// report prints err and any suggestion for it to stderr
func report(stderr io.Writer, err error) {
	var cerr *combine.Error
	switch {
	case errors.Is(err, app.ErrArgCount):
		fmt.Fprintln(stderr, "DJ Sacabambaspis cannot make music because there are an incorrect number of files.")
		usage(stderr)
		return
	case errors.Is(err, app.ErrUsage):
		fmt.Fprintf(stderr, "error: %v\n", err)
		usage(stderr)
		return
	case errors.As(err, &cerr):
		fmt.Fprintf(stderr, "DJ Sacabambaspis %v\n", err)
	case errors.Is(err, app.ErrOutputExists):
		fmt.Fprintf(stderr, "error: %v\n", err)
		fmt.Fprintln(stderr, "suggestion: use a different output filename, or use -force to overwrite")
		return
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
	}

	if hint := combine.Hint(err); hint != "" {
		fmt.Fprintf(stderr, "suggestion: %s\n", hint)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `
Usage:
  Single file mode:
    lohigh <input_file1> <input_file2> <output_file.wav>
    lohigh <input_file2> <output_file.wav>

  Batch mode:
    lohigh -batch file1.wav file2.wav ... [-output-dir=DIR]

  Playlist mode:
    lohigh -playlist=files.txt output.wav

  Stdin/stdout mode (use '-' for stdin/stdout):
    cat input.wav | lohigh - - > output.wav
    lohigh input.wav - > output.wav

Flags:
`)
	var o options
	newFlagSet(config.Default(), &o, w).PrintDefaults()
}
