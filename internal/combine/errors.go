// ABOUTME: Structured combiner errors
// ABOUTME: Records the failed operation and path, and maps causes to hints
package combine

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/gongahkia/lohigh/internal/fsutil"
	"github.com/gongahkia/lohigh/pkg/audio"
	"github.com/gongahkia/lohigh/pkg/audio/decode"
	"github.com/gongahkia/lohigh/pkg/audio/encode"
)

// Op identifies the stage of a combine that failed
type Op string

const (
	OpOpenInput      Op = "open input"
	OpOpenOutput     Op = "open output"
	OpFormatMismatch Op = "check formats"
	OpDiskSpace      Op = "check disk space"
	OpRead           Op = "read"
	OpWrite          Op = "write"
	OpRename         Op = "commit output"
)

// ErrFormatMismatch is matched by errors from strict format checks
var ErrFormatMismatch = errors.New("audio format mismatch between input files")

// Error describes a failed combine stage
type Error struct {
	Op   Op
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Op {
	case OpOpenInput:
		return fmt.Sprintf("can't open the input file named '%s': %v", e.Path, e.Err)
	case OpOpenOutput:
		return fmt.Sprintf("can't open the output file named '%s': %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("can't %s '%s': %v", e.Op, e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MismatchError reports the two formats that failed a strict check
type MismatchError struct {
	First  audio.Format
	Second audio.Format
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: %s vs %s", ErrFormatMismatch, e.First, e.Second)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrFormatMismatch
}

// Hint returns a one-line suggestion for err, or "" when there is none
func Hint(err error) string {
	var mismatch *MismatchError
	if errors.As(err, &mismatch) {
		return fmt.Sprintf("convert files to matching format using ffmpeg: ffmpeg -i input.wav -ar %d -ac %d output.wav",
			mismatch.First.SampleRate, mismatch.First.Channels)
	}

	var cerr *Error
	output := errors.As(err, &cerr) && cerr.Op == OpOpenOutput

	switch {
	case errors.Is(err, decode.ErrNotFound):
		return "check the file path and try again"
	case errors.Is(err, decode.ErrPermission):
		return "check the file permissions"
	case errors.Is(err, decode.ErrEmptyFile):
		return "the file contains no audio data"
	case errors.Is(err, decode.ErrFileTooLarge):
		return "split the file into smaller parts"
	case errors.Is(err, decode.ErrUnsupportedFormat), errors.Is(err, decode.ErrUnsupportedEncoding):
		return "ensure the file is a WAV, FLAC or MP3 file"
	case errors.Is(err, encode.ErrUnsupportedFormat):
		return "convert the first input to 8, 16, 24 or 32-bit PCM"
	case errors.Is(err, fsutil.ErrInsufficientSpace):
		return "free up disk space or choose a different output location"
	case output && errors.Is(err, fs.ErrNotExist):
		return "check that the output directory exists"
	case output && errors.Is(err, fs.ErrPermission):
		return "check that the output directory is writable"
	}
	return ""
}
