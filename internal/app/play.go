// ABOUTME: Playback of a finished output
// ABOUTME: Streams a decoded file to the sound card through the oto output
package app

import (
	"context"
	"errors"
	"io"

	"github.com/gongahkia/lohigh/pkg/audio/decode"
	"github.com/gongahkia/lohigh/pkg/audio/output"
)

// playChunkFrames is the number of frames written to the device per call
const playChunkFrames = 4096

// Play decodes path and plays it at volume until it ends or ctx is done
func Play(ctx context.Context, path string, volume int) error {
	r, err := decode.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	format := r.Format()
	return stream(ctx, r, output.NewOto(volume), playChunkFrames*format.Channels)
}

func stream(ctx context.Context, r decode.Reader, out output.Output, chunk int) (err error) {
	format := r.Format()
	if err := out.Open(format.SampleRate, format.Channels); err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	buf := make([]int16, chunk)
	for ctx.Err() == nil {
		n, rerr := r.Read(buf)
		if n > 0 {
			if err := out.Write(buf[:n]); err != nil {
				return err
			}
		}
		if errors.Is(rerr, io.EOF) {
			return nil
		}
		if rerr != nil {
			return rerr
		}
	}
	return nil
}
