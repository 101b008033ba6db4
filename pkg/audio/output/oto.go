// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams 16-bit PCM to the sound card with software volume control
package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gongahkia/lohigh/pkg/audio"
)

// drainPoll is how often Close checks whether playback has finished.
const drainPoll = 10 * time.Millisecond

// Oto output implementation using oto library
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	sampleRate int
	channels   int
	volume     int
	ready      bool
}

// NewOto creates a new Oto output at the given volume (0-100)
func NewOto(volume int) *Oto {
	return &Oto{volume: clampVolume(volume)}
}

// Open initializes the output device
func (o *Oto) Open(sampleRate, channels int) error {
	if o.ready {
		return errors.New("output already open")
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels

	// Persistent player fed through a pipe so writes stream continuously
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()

	o.ready = true
	return nil
}

// Write outputs audio samples (blocks until written)
func (o *Oto) Write(samples []int16) error {
	if !o.ready {
		return fmt.Errorf("output not initialized")
	}

	if _, err := o.pipeWriter.Write(encodeSamples(samples, o.volume)); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}

	return nil
}

// Close drains queued audio and releases output resources
func (o *Oto) Close() error {
	if !o.ready {
		return nil
	}
	o.ready = false

	// EOF on the pipe lets the player run out naturally
	o.pipeWriter.Close()
	for o.player.IsPlaying() {
		time.Sleep(drainPoll)
	}

	err := o.player.Close()
	o.pipeReader.Close()
	if serr := o.otoCtx.Suspend(); serr != nil && err == nil {
		err = serr
	}

	o.player = nil
	o.pipeReader, o.pipeWriter = nil, nil
	return err
}

// SetVolume sets the volume (0-100)
func (o *Oto) SetVolume(volume int) {
	o.volume = clampVolume(volume)
}

// Volume returns current volume
func (o *Oto) Volume() int {
	return o.volume
}

// encodeSamples applies volume and packs samples as little-endian bytes
func encodeSamples(samples []int16, volume int) []byte {
	multiplier := float64(volume) / 100.0

	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		if volume != 100 {
			s = audio.Clamp16(float64(s) * multiplier)
		}
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}
