// ABOUTME: MP3 file reader
// ABOUTME: Decodes MP3 with go-mp3, which always yields 16-bit stereo
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gongahkia/lohigh/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Reader reads samples from an MP3 file
type MP3Reader struct {
	file    *os.File
	decoder *mp3.Decoder
	format  audio.Format
	frames  int64
	buf     []byte
}

func newMP3(f *os.File) (*MP3Reader, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	format := audio.Format{
		Codec:      audio.CodecMP3,
		SampleRate: decoder.SampleRate(),
		Channels:   2, // MP3 decoder outputs stereo
		BitDepth:   16,
		Tag:        audio.TagPCM,
	}

	var frames int64
	if length := decoder.Length(); length > 0 {
		frames = length / int64(format.FrameSize())
	}

	return &MP3Reader{
		file:    f,
		decoder: decoder,
		format:  format,
		frames:  frames,
	}, nil
}

func (r *MP3Reader) Format() audio.Format { return r.format }
func (r *MP3Reader) Frames() int64        { return r.frames }

func (r *MP3Reader) Read(samples []int16) (int, error) {
	numBytes := len(samples) * 2
	if cap(r.buf) < numBytes {
		r.buf = make([]byte, numBytes)
	}
	buf := r.buf[:numBytes]

	n, err := io.ReadFull(r.decoder, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("mp3 decode error: %w", err)
	}

	numSamples := n / 2
	for i := 0; i < numSamples; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}

	if numSamples == 0 && len(samples) > 0 {
		return 0, io.EOF
	}
	return numSamples, nil
}

func (r *MP3Reader) Close() error {
	return r.file.Close()
}
