// ABOUTME: Playlist reading and chained combining
// ABOUTME: Parses plain text and .m3u lists, then joins entries pairwise into one file
package playlist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gongahkia/lohigh/internal/combine"
	"github.com/gongahkia/lohigh/internal/fsutil"
)

// ErrTooShort is returned for playlists with fewer than two entries
var ErrTooShort = errors.New("playlist needs at least two files")

// Read returns the file paths listed in the playlist at path. Blank lines
// and lines starting with # are skipped. Relative entries are resolved
// against the playlist's directory.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read playlist file '%s': %w", path, err)
	}
	defer f.Close()

	base := filepath.Dir(path)
	var files []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		files = append(files, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read playlist file '%s': %w", path, err)
	}

	if len(files) < 2 {
		return nil, fmt.Errorf("%w, '%s' lists %d", ErrTooShort, path, len(files))
	}
	return files, nil
}

// Step describes one pairwise combine of a chain
type Step struct {
	Index int // 1-based
	Total int
	First string
	Next  string
}

// Chain combines files in order into output: the first two into an
// intermediate, that with the third, and so on, the last pair going to
// output. Intermediates are removed whether or not the chain succeeds.
// onStep, when set, is called before each combine.
func Chain(ctx context.Context, c *combine.Combiner, files []string, output string, onStep func(Step)) error {
	if len(files) < 2 {
		return ErrTooShort
	}

	var intermediates []string
	defer func() {
		for _, path := range intermediates {
			_ = os.Remove(path)
		}
	}()

	current := files[0]
	total := len(files) - 1
	for i, next := range files[1:] {
		if err := ctx.Err(); err != nil {
			return err
		}

		target := output
		if i < total-1 {
			target = fsutil.TempFile(filepath.Dir(output), ".wav")
			intermediates = append(intermediates, target)
		}

		if onStep != nil {
			onStep(Step{Index: i + 1, Total: total, First: current, Next: next})
		}

		if _, err := c.Combine(current, next, target); err != nil {
			return fmt.Errorf("playlist step %d/%d: %w", i+1, total, err)
		}

		// The previous intermediate has been consumed
		if i > 0 {
			_ = os.Remove(current)
		}
		current = target
	}

	return nil
}
