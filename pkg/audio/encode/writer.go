// ABOUTME: WAV file writer
// ABOUTME: Writes 16-bit samples through go-audio/wav at the output bit depth
package encode

import (
	"errors"
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gongahkia/lohigh/pkg/audio"
)

// ErrUnsupportedFormat is returned for formats the WAV writer cannot store
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Writer is an open audio stream accepting samples sequentially
type Writer interface {
	// Format returns the format samples are stored in
	Format() audio.Format
	// Write appends interleaved 16-bit samples
	Write(samples []int16) (int, error)
	// Close finalises the container and releases the file
	Close() error
}

// WAVWriter writes PCM samples to a WAV file
type WAVWriter struct {
	file    *os.File
	encoder *wav.Encoder
	format  audio.Format
	buf     *goaudio.IntBuffer
	carry   []int16 // trailing samples short of a whole frame
	written int64
}

// Create creates (or truncates) the file at path and writes a WAV header
// describing format
func Create(path string, format audio.Format) (*WAVWriter, error) {
	format, err := outputFormat(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	encoder := wav.NewEncoder(f, format.SampleRate, format.BitDepth, format.Channels, int(format.Tag))
	w := &WAVWriter{
		file:    f,
		encoder: encoder,
		format:  format,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
			SourceBitDepth: format.BitDepth,
		},
	}

	// An empty buffer makes the encoder emit its header now
	w.buf.Data = []int{}
	if err := encoder.Write(w.buf); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	return w, nil
}

// outputFormat normalises format to something the WAV encoder can store
func outputFormat(format audio.Format) (audio.Format, error) {
	if format.SampleRate <= 0 {
		return format, fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, format.SampleRate)
	}
	if format.Channels < 1 || format.Channels > 0xFFFF {
		return format, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, format.Channels)
	}
	switch format.BitDepth {
	case 8, 16, 24, 32:
	default:
		return format, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedFormat, format.BitDepth)
	}

	switch format.Tag {
	case 0, audio.TagPCM, audio.TagExtensible:
		// the encoder only writes the plain 16-byte fmt chunk
		format.Tag = audio.TagPCM
	default:
		return format, fmt.Errorf("%w: WAV format tag 0x%04x", ErrUnsupportedFormat, format.Tag)
	}

	format.Codec = audio.CodecPCM
	return format, nil
}

func (w *WAVWriter) Format() audio.Format { return w.format }

// Write stores samples after everything written so far. Samples that do not
// complete a frame are held back until the next Write.
func (w *WAVWriter) Write(samples []int16) (int, error) {
	pending := samples
	if len(w.carry) > 0 {
		pending = append(w.carry, samples...)
	}

	whole := len(pending) - len(pending)%w.format.Channels
	if cap(w.buf.Data) < whole {
		w.buf.Data = make([]int, whole)
	}
	w.buf.Data = w.buf.Data[:whole]
	for i, s := range pending[:whole] {
		w.buf.Data[i] = audio.ToDepth(s, w.format.BitDepth)
	}

	if whole > 0 {
		if err := w.encoder.Write(w.buf); err != nil {
			return 0, err
		}
		w.written += int64(whole)
	}

	w.carry = append([]int16(nil), pending[whole:]...)
	return len(samples), nil
}

// Samples returns the number of samples committed to the file
func (w *WAVWriter) Samples() int64 {
	return w.written
}

// Close finalises the header sizes and closes the file. A trailing partial
// frame is discarded.
func (w *WAVWriter) Close() error {
	return errors.Join(w.encoder.Close(), w.file.Close())
}
