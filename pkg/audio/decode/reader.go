// ABOUTME: Reader interface and file opener
// ABOUTME: Validates the path and picks a decoder from the file extension
package decode

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gongahkia/lohigh/pkg/audio"
)

// MaxFileSize is the largest input accepted by Open
const MaxFileSize = 1 << 30

var (
	ErrNotFound            = errors.New("file not found")
	ErrPermission          = errors.New("permission denied")
	ErrEmptyFile           = errors.New("file is empty")
	ErrFileTooLarge        = errors.New("file is too large")
	ErrUnsupportedFormat   = errors.New("unsupported audio format")
	ErrUnsupportedEncoding = errors.New("unsupported sample encoding")
)

// Reader is an open audio stream positioned at its first sample
type Reader interface {
	// Format returns the stream's format descriptor
	Format() audio.Format
	// Frames returns the number of frames declared by the container
	Frames() int64
	// Read fills samples with interleaved 16-bit samples and returns how many
	// were stored. It returns io.EOF only when no samples remain.
	Read(samples []int16) (int, error)
	// Close releases the underlying file
	Close() error
}

// Open opens the audio file at path for reading
func Open(path string) (Reader, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return nil, ErrPermission
	case err != nil:
		return nil, err
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%w: is a directory", ErrUnsupportedFormat)
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w (%d MB, limit %d MB)", ErrFileTooLarge, info.Size()>>20, MaxFileSize>>20)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, ErrPermission
		}
		return nil, err
	}

	var r Reader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		r, err = newFLAC(f)
	case ".mp3":
		r, err = newMP3(f)
	default:
		r, err = newWAV(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return r, nil
}

// ReadAll reads every declared frame of r with a single bulk read
func ReadAll(r Reader) ([]int16, error) {
	samples := make([]int16, r.Frames()*int64(r.Format().Channels))
	n, err := r.Read(samples)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return samples[:n], nil
}
