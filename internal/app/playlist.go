// ABOUTME: Playlist mode
// ABOUTME: Chains the files listed in a playlist into a single output
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gongahkia/lohigh/internal/combine"
	"github.com/gongahkia/lohigh/internal/playlist"
)

func (a *App) runPlaylist(ctx context.Context) error {
	if len(a.cfg.Args) != 1 {
		return fmt.Errorf("%w: playlist mode requires exactly one output file", ErrUsage)
	}
	out := a.cfg.Args[0]

	files, err := playlist.Read(a.cfg.Playlist)
	if err != nil {
		return err
	}

	if a.cfg.Shuffle {
		a.shuffle(files)
		a.log.Debug("Shuffled playlist order for creative mixing")
	}

	if a.cfg.DryRun {
		a.log.Info("=== DRY RUN MODE ===")
		for i, f := range files {
			info, err := combine.Inspect(f)
			if err != nil {
				return err
			}
			a.log.Info("  %d. %s (%s, %.2f seconds)", i+1, f, info.Format, info.Duration.Seconds())
		}
		a.log.Info("Output File: %s", out)
		a.log.Info("No files were modified (dry run).")
		return nil
	}

	if err := a.checkClobber(out); err != nil {
		a.result(files, out, err)
		return err
	}

	a.log.Info("Processing playlist with %d file(s)...", len(files))

	steps := make([]string, len(files)-1)
	for i := range steps {
		steps[i] = filepath.Base(files[i+1])
	}
	steps[0] = filepath.Base(files[0]) + " + " + steps[0]

	ctx, track, log, stop := a.startTracker(ctx, "Playlist", steps)
	if out == Stdio {
		log = log.Stderr()
	}

	err = a.withOutput(out, func(target string) error {
		return playlist.Chain(ctx, combine.New(log, a.cfg.Combine), files, target, func(s playlist.Step) {
			if s.Index > 1 {
				track.finished(s.Index-2, nil)
			}
			track.started(s.Index-1, filepath.Base(s.First)+" + "+filepath.Base(s.Next))
		})
	})
	track.finished(len(steps)-1, err)
	stop()

	a.result(files, out, err)
	if err != nil {
		return err
	}

	a.log.Info("")
	a.log.Info("Playlist processing complete: %s", out)
	return nil
}
