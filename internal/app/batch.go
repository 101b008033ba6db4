// ABOUTME: Batch mode
// ABOUTME: Combines the ambient bed with each input into <name>_lofi.wav files
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gongahkia/lohigh/internal/combine"
	"github.com/gongahkia/lohigh/internal/ui"
	"github.com/gongahkia/lohigh/pkg/logger"
)

// BatchOutput returns the batch output path for input inside dir
func BatchOutput(dir, input string) string {
	base := filepath.Base(input)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(dir, base+"_lofi.wav")
}

// tracker reports per-file progress either to a TUI or to the log
type tracker interface {
	started(i int, name string)
	finished(i int, err error)
	skipped(i int, reason string)
}

type logTracker struct {
	log   *logger.Logger
	total int
}

func (t logTracker) started(i int, name string) {
	t.log.Info("")
	t.log.Info("[%d/%d] Processing: %s", i+1, t.total, name)
}

func (t logTracker) finished(i int, err error) {
	if err != nil {
		t.log.Error("  %v", err)
		if hint := combine.Hint(err); hint != "" {
			t.log.Error("  suggestion: %s", hint)
		}
	}
}

func (t logTracker) skipped(i int, reason string) {
	t.log.Error("  Skipping: %s", reason)
}

type tuiTracker struct {
	p *ui.Progress
}

func (t tuiTracker) started(i int, name string)   { t.p.Started(i) }
func (t tuiTracker) finished(i int, err error)    { t.p.Finished(i, err) }
func (t tuiTracker) skipped(i int, reason string) { t.p.Skipped(i, reason) }

// startTracker returns the progress reporter for a run and a stop function.
// Cancelling from the TUI cancels the returned context.
func (a *App) startTracker(ctx context.Context, title string, names []string) (context.Context, tracker, *logger.Logger, func()) {
	if !a.cfg.TUI || a.log.JSON() {
		return ctx, logTracker{log: a.log, total: len(names)}, a.log, func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	p := ui.NewProgress(title, names)
	p.Start()

	go func() {
		select {
		case <-p.QuitChan():
			cancel()
		case <-ctx.Done():
		}
	}()

	stop := func() {
		if err := p.Stop(); err != nil {
			a.log.Error("progress display: %v", err)
		}
		cancel()
	}
	// Text output would corrupt the display
	return ctx, tuiTracker{p: p}, logger.Discard(), stop
}

func (a *App) runBatch(ctx context.Context) error {
	files := append([]string(nil), a.cfg.Args...)
	if len(files) == 0 {
		return fmt.Errorf("%w: batch mode requires at least one input file", ErrUsage)
	}

	if a.cfg.Shuffle {
		a.shuffle(files)
		a.log.Debug("Shuffled file order for creative mixing")
	}

	bed := a.beds.Select(a.cfg.Ambient)

	if !a.cfg.DryRun {
		if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("could not create output directory %s: %w", a.cfg.OutputDir, err)
		}
	}

	a.log.Info("Batch processing %d file(s)...", len(files))

	ctx, track, log, stop := a.startTracker(ctx, "Batch processing", files)
	succeeded, failed, skipped := 0, 0, 0
	for i, file := range files {
		if ctx.Err() != nil {
			break
		}

		track.started(i, file)
		out := BatchOutput(a.cfg.OutputDir, file)

		in1, in2 := bed, file
		if a.cfg.Reverse {
			in1, in2 = file, bed
		}

		if a.cfg.DryRun {
			_, err := combine.New(log, a.cfg.Combine).Plan(in1, in2, out)
			if err == nil {
				log.Info("  Would write %s", out)
				succeeded++
			} else {
				failed++
			}
			track.finished(i, err)
			continue
		}

		if err := a.checkClobber(out); err != nil {
			track.skipped(i, "output file already exists (use -force to overwrite)")
			skipped++
			continue
		}

		_, err := combine.New(log, a.cfg.Combine).Combine(in1, in2, out)
		track.finished(i, err)
		if err != nil {
			failed++
		} else {
			succeeded++
		}
	}
	stop()

	a.log.Info("")
	a.log.Info("=== Batch processing complete ===")
	a.log.Info("  Successful: %d", succeeded)
	a.log.Info("  Failed: %d", failed)
	a.log.Info("  Skipped: %d", skipped)
	a.log.Info("  Total: %d", len(files))

	var err error
	switch {
	case failed > 0:
		err = fmt.Errorf("%w: %d of %d file(s) failed", ErrBatchFailed, failed, len(files))
	case ctx.Err() != nil:
		err = ctx.Err()
	}
	a.result(files, a.cfg.OutputDir, err)
	return err
}
