// ABOUTME: WAV file reader
// ABOUTME: Reads RIFF/WAVE PCM through go-audio/wav and narrows samples to 16-bit
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gongahkia/lohigh/pkg/audio"
)

// scratchSamples bounds the container-width buffer used per decode pass
const scratchSamples = 64 * 1024

// WAVReader reads PCM samples from a WAV file
type WAVReader struct {
	file      *os.File
	decoder   *wav.Decoder
	format    audio.Format
	frames    int64
	remaining int64
	scratch   []int
}

func newWAV(f *os.File) (*WAVReader, error) {
	d := wav.NewDecoder(f)
	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if d.NumChans == 0 || d.SampleRate == 0 {
		return nil, fmt.Errorf("%w: invalid WAV header", ErrUnsupportedFormat)
	}

	if d.WavAudioFormat != audio.TagPCM && d.WavAudioFormat != audio.TagExtensible {
		return nil, fmt.Errorf("%w: WAV format tag 0x%04x", ErrUnsupportedEncoding, d.WavAudioFormat)
	}
	switch d.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit PCM", ErrUnsupportedEncoding, d.BitDepth)
	}

	format := audio.Format{
		Codec:      audio.CodecPCM,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Tag:        d.WavAudioFormat,
	}

	frames := dataFrames(f, d.PCMSize, format.FrameSize())
	return &WAVReader{
		file:      f,
		decoder:   d,
		format:    format,
		frames:    frames,
		remaining: frames * int64(format.Channels),
	}, nil
}

// dataFrames returns the frame count of the data chunk, bounded by the bytes
// that follow the chunk header. Streamed WAVs carry a 0xFFFFFFFF placeholder
// that go-audio reports as zero.
func dataFrames(f *os.File, declared int, frameSize int) int64 {
	size := int64(declared)

	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return size / int64(frameSize)
	}
	info, err := f.Stat()
	if err != nil {
		return size / int64(frameSize)
	}

	if avail := info.Size() - pos; size <= 0 || size > avail {
		size = max(avail, 0)
	}
	return size / int64(frameSize)
}

func (r *WAVReader) Format() audio.Format { return r.format }
func (r *WAVReader) Frames() int64        { return r.frames }

func (r *WAVReader) Read(samples []int16) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	want := int(min(int64(len(samples)), r.remaining))
	if want == 0 {
		return 0, io.EOF
	}
	if r.scratch == nil {
		r.scratch = make([]int, scratchSamples)
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: r.format.Channels, SampleRate: r.format.SampleRate},
	}

	// PCMBuffer performs a single unbounded read, so stop at the data chunk end
	total := 0
	for total < want {
		buf.Data = r.scratch[:min(want-total, len(r.scratch))]
		n, err := r.decoder.PCMBuffer(buf)
		for i := 0; i < n; i++ {
			samples[total+i] = audio.FromDepth(buf.Data[i], r.format.BitDepth)
		}
		total += n

		if err != nil && !errors.Is(err, io.EOF) {
			return total, err
		}
		if n == 0 || err != nil {
			break
		}
	}

	r.remaining -= int64(total)
	if total == 0 {
		return 0, io.EOF
	}
	return total, nil
}

func (r *WAVReader) Close() error {
	return r.file.Close()
}
