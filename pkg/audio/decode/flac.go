// ABOUTME: FLAC file reader
// ABOUTME: Decodes FLAC frames with mewkiz/flac into interleaved 16-bit samples
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gongahkia/lohigh/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACReader reads samples from a FLAC file
type FLACReader struct {
	file    *os.File
	stream  *flac.Stream
	format  audio.Format
	frames  int64
	pending []int16 // decoded but not yet returned
}

func newFLAC(f *os.File) (*FLACReader, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	info := stream.Info
	return &FLACReader{
		file:   f,
		stream: stream,
		format: audio.Format{
			Codec:      audio.CodecFLAC,
			SampleRate: int(info.SampleRate),
			Channels:   int(info.NChannels),
			BitDepth:   int(info.BitsPerSample),
			Tag:        audio.TagPCM,
		},
		frames: int64(info.NSamples),
	}, nil
}

func (r *FLACReader) Format() audio.Format { return r.format }
func (r *FLACReader) Frames() int64        { return r.frames }

func (r *FLACReader) Read(samples []int16) (int, error) {
	total := copy(samples, r.pending)
	r.pending = r.pending[total:]

	for total < len(samples) {
		frame, err := r.stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("flac decode failed: %w", err)
		}

		// Interleave the frame's subframes
		block := make([]int16, 0, int(frame.BlockSize)*r.format.Channels)
		for i := 0; i < int(frame.BlockSize); i++ {
			for ch := 0; ch < r.format.Channels; ch++ {
				sample := frame.Subframes[ch].Samples[i]
				block = append(block, audio.FromDepth(int(sample), r.format.BitDepth))
			}
		}

		n := copy(samples[total:], block)
		total += n
		r.pending = block[n:]
	}

	if total == 0 && len(samples) > 0 {
		return 0, io.EOF
	}
	return total, nil
}

func (r *FLACReader) Close() error {
	return r.file.Close()
}
