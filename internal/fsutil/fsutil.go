// ABOUTME: Filesystem helpers for the combiner and CLI
// ABOUTME: Free space checks, uuid temp names and stdin/stdout staging
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrInsufficientSpace is returned when a filesystem cannot hold an output
var ErrInsufficientSpace = errors.New("insufficient disk space")

// CheckSpace verifies the filesystem holding path has need bytes available.
// When free space cannot be determined (unsupported platform, missing parent
// directory) the check passes and opening the output reports the problem.
func CheckSpace(path string, need uint64) error {
	free, err := FreeSpace(filepath.Dir(path))
	if err != nil {
		return nil
	}
	if free < need {
		return fmt.Errorf("%w: need %d MB, %d MB available", ErrInsufficientSpace, need>>20, free>>20)
	}
	return nil
}

// TempPath returns a unique sibling of path for staged writes
func TempPath(path string) string {
	return fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
}

// TempFile returns a unique path in dir ending in ext
func TempFile(dir, ext string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "lohigh-"+uuid.NewString()+ext)
}

// Stage copies r into a new temporary WAV file. The returned cleanup
// removes it.
func Stage(r io.Reader) (path string, cleanup func(), err error) {
	path = TempFile("", ".wav")
	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create staging file: %w", err)
	}
	cleanup = func() { _ = os.Remove(path) }

	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to stage input: %w", err)
	}

	return path, cleanup, nil
}

// Emit copies the file at path to w
func Emit(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// Exists reports whether path names an existing file
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
