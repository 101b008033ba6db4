// ABOUTME: lohigh application orchestration
// ABOUTME: Resolves inputs and dispatches single, batch and playlist runs
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/gongahkia/lohigh/internal/ambient"
	"github.com/gongahkia/lohigh/internal/combine"
	"github.com/gongahkia/lohigh/internal/fsutil"
	"github.com/gongahkia/lohigh/pkg/logger"
)

// Stdio marks a path as stdin or stdout
const Stdio = "-"

var (
	// ErrUsage wraps command-line misuse detected before any file is touched
	ErrUsage = errors.New("usage error")
	// ErrArgCount is the usage error for a wrong number of positionals
	ErrArgCount = fmt.Errorf("%w: incorrect number of files", ErrUsage)
	// ErrOutputExists is returned when no-clobber protects an existing output
	ErrOutputExists = errors.New("output file already exists")
	// ErrBatchFailed is returned when any file of a batch failed
	ErrBatchFailed = errors.New("batch processing failed")
)

// Config holds settings for one run
type Config struct {
	// Args are the positional arguments: inputs and output
	Args []string

	Ambient   string
	AssetDir  string
	OutputDir string
	Playlist  string

	Batch     bool
	Shuffle   bool
	Reverse   bool
	NoClobber bool
	Force     bool
	DryRun    bool
	Play      bool
	TUI       bool
	Volume    int

	Combine combine.Options
}

// App runs lohigh
type App struct {
	cfg     Config
	log     *logger.Logger
	stdin   io.Reader
	stdout  io.Writer
	beds    *ambient.Selector
	shuffle func(files []string)
	play    func(ctx context.Context, path string) error
}

// New creates an App reading stdin for "-" inputs and writing "-" outputs
// to stdout
func New(cfg Config, log *logger.Logger, stdin io.Reader, stdout io.Writer) *App {
	a := &App{
		cfg:    cfg,
		log:    log,
		stdin:  stdin,
		stdout: stdout,
		beds:   ambient.NewSelector(cfg.AssetDir, log),
		shuffle: func(files []string) {
			rand.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })
		},
	}
	a.play = func(ctx context.Context, path string) error {
		return Play(ctx, path, cfg.Volume)
	}
	return a
}

// ListAmbients prints the available ambient beds
func (a *App) ListAmbients() {
	for _, line := range a.beds.List() {
		fmt.Fprintln(a.stdout, line)
	}
}

// Run executes the configured mode
func (a *App) Run(ctx context.Context) error {
	switch {
	case a.cfg.Playlist != "":
		return a.runPlaylist(ctx)
	case a.cfg.Batch:
		return a.runBatch(ctx)
	default:
		return a.runSingle(ctx)
	}
}

// resolve maps positional arguments to the two inputs and the output
func (a *App) resolve() (in1, in2, out string, err error) {
	args := a.cfg.Args
	switch len(args) {
	case 3:
		in1, in2, out = args[0], args[1], args[2]
		if a.cfg.Reverse {
			in1, in2 = in2, in1
		}
	case 2:
		bed := a.beds.Select(a.cfg.Ambient)
		if a.cfg.Reverse {
			in1, in2 = args[0], bed
		} else {
			in1, in2 = bed, args[0]
		}
		out = args[1]
	default:
		return "", "", "", fmt.Errorf("%w (%d)", ErrArgCount, len(args))
	}

	if in1 == Stdio && in2 == Stdio {
		return "", "", "", fmt.Errorf("%w: only one input can be read from stdin", ErrUsage)
	}
	return in1, in2, out, nil
}

func (a *App) runSingle(ctx context.Context) error {
	in1, in2, out, err := a.resolve()
	if err != nil {
		return err
	}

	if a.cfg.DryRun {
		return a.dryRun(in1, in2, out)
	}

	if err := a.checkClobber(out); err != nil {
		a.result([]string{in1, in2}, out, err)
		return err
	}

	err = a.combineStdio(in1, in2, out)
	a.result([]string{in1, in2}, out, err)
	if err != nil {
		return err
	}

	if a.cfg.Play && out != Stdio {
		a.log.Info("Playing %s", out)
		if err := a.play(ctx, out); err != nil {
			return fmt.Errorf("playback failed: %w", err)
		}
	}
	return nil
}

// combineStdio runs one combine, staging "-" paths through temp files
func (a *App) combineStdio(in1, in2, out string) error {
	log := a.log
	if out == Stdio {
		log = a.log.Stderr()
	}

	stage := func(path string) (string, func(), error) {
		if path != Stdio {
			return path, func() {}, nil
		}
		log.Debug("Reading input from stdin")
		return fsutil.Stage(a.stdin)
	}

	src1, cleanup1, err := stage(in1)
	if err != nil {
		return err
	}
	defer cleanup1()

	src2, cleanup2, err := stage(in2)
	if err != nil {
		return err
	}
	defer cleanup2()

	return a.withOutput(out, func(target string) error {
		_, err := combine.New(log, a.cfg.Combine).Combine(src1, src2, target)
		return err
	})
}

// withOutput calls fn with the path to write; "-" is written to a temp file
// which is then copied to stdout
func (a *App) withOutput(out string, fn func(target string) error) error {
	if out != Stdio {
		return fn(out)
	}

	target := fsutil.TempFile("", ".wav")
	defer os.Remove(target)

	if err := fn(target); err != nil {
		return err
	}
	if err := fsutil.Emit(target, a.stdout); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

func (a *App) checkClobber(out string) error {
	if out == Stdio || a.cfg.Force || !a.cfg.NoClobber {
		return nil
	}
	if fsutil.Exists(out) {
		return fmt.Errorf("%w: '%s'", ErrOutputExists, out)
	}
	return nil
}

func (a *App) dryRun(in1, in2, out string) error {
	plan, err := combine.New(a.log, a.cfg.Combine).Plan(in1, in2, out)
	if err != nil {
		return err
	}

	a.log.Info("=== DRY RUN MODE ===")
	for i, info := range []*combine.Info{plan.Input1, plan.Input2} {
		a.log.Info("")
		a.log.Info("Input File %d: %s", i+1, info.Path)
		a.log.Info("  Size: %d KB", info.Size/1024)
		a.log.Info("  Duration: %.2f seconds", info.Duration.Seconds())
		a.log.Info("  Format: %s", info.Format)
	}

	a.log.Info("")
	a.log.Info("Output File: %s", out)
	a.log.Info("  Estimated Size: %d KB", plan.Size/1024)
	a.log.Info("  Estimated Duration: %.2f seconds", plan.Duration.Seconds())

	opts := a.cfg.Combine
	a.log.Info("")
	a.log.Info("Settings:")
	if opts.FadeSeconds > 0 {
		a.log.Info("  Crossfade: %g seconds", opts.FadeSeconds)
	} else {
		a.log.Info("  Crossfade: disabled")
	}
	if opts.NormalizeLevel > 0 {
		a.log.Info("  Normalization: %.1f%%", opts.NormalizeLevel*100)
	} else {
		a.log.Info("  Normalization: disabled")
	}
	if opts.PreviewSeconds > 0 {
		a.log.Info("  Preview: first %g seconds", opts.PreviewSeconds)
	}
	if opts.LoopCount > 1 {
		a.log.Info("  Loop: %dx", opts.LoopCount)
	}

	a.log.Info("")
	a.log.Info("No files were modified (dry run).")

	size := plan.Size
	return a.log.Result(logger.Result{
		Status:         "dry_run",
		InputFiles:     []string{in1, in2},
		OutputFile:     out,
		SizeBytes:      &size,
		FadeDuration:   opts.FadeSeconds,
		NormalizeLevel: opts.NormalizeLevel,
		LoopCount:      max(opts.LoopCount, 1),
	})
}

// result prints the JSON document for a finished run
func (a *App) result(inputs []string, out string, err error) {
	r := logger.Result{
		Status:         "success",
		InputFiles:     inputs,
		OutputFile:     out,
		FadeDuration:   a.cfg.Combine.FadeSeconds,
		NormalizeLevel: a.cfg.Combine.NormalizeLevel,
		LoopCount:      max(a.cfg.Combine.LoopCount, 1),
	}
	if err != nil {
		r.Status = "error"
		r.Error = err.Error()
	}
	// Stdout carries the WAV itself when writing to "-"
	log := a.log
	if out == Stdio {
		log = a.log.Stderr()
	} else if info, statErr := os.Stat(out); statErr == nil && !info.IsDir() {
		size := info.Size()
		r.SizeBytes = &size
	}

	if jerr := log.Result(r); jerr != nil {
		log.Error("failed to write JSON result: %v", jerr)
	}
}
