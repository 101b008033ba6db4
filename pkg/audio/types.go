// ABOUTME: Audio type definitions
// ABOUTME: Defines the stream format descriptor and sample width conversions
package audio

import (
	"fmt"
	"time"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// WAV format tags
const (
	TagPCM        uint16 = 0x0001
	TagExtensible uint16 = 0xFFFE
)

// Codec names reported by decoders
const (
	CodecPCM  = "pcm"
	CodecFLAC = "flac"
	CodecMP3  = "mp3"
)

// Format describes an audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
	Tag        uint16 // WAV format tag of the container
}

// Matches reports whether two formats carry interchangeable sample data
func (f Format) Matches(other Format) bool {
	return f.SampleRate == other.SampleRate &&
		f.Channels == other.Channels &&
		f.BitDepth == other.BitDepth
}

// FrameSize returns the number of bytes per frame in the container
func (f Format) FrameSize() int {
	return f.Channels * (f.BitDepth / 8)
}

// Duration returns the playing time of frames at this format's sample rate
func (f Format) Duration(frames int64) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

func (f Format) String() string {
	return fmt.Sprintf("%s %dHz %s %d-bit", f.Codec, f.SampleRate, ChannelName(f.Channels), f.BitDepth)
}

// ChannelName returns a human readable channel layout
func ChannelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	// Left-shift to position 16-bit value in upper bits
	return int32(sample) << 8
}

// ToDepth converts a 16-bit sample to the integer representation used by a
// container of the given bit depth. 8-bit containers are unsigned.
func ToDepth(sample int16, bitDepth int) int {
	switch bitDepth {
	case 8:
		return int(sample>>8) + 128
	case 24:
		return int(SampleFromInt16(sample))
	case 32:
		return int(sample) << 16
	default:
		return int(sample)
	}
}

// FromDepth converts a container sample of the given bit depth to 16-bit
func FromDepth(value int, bitDepth int) int16 {
	switch {
	case bitDepth == 8:
		return int16((value - 128) << 8)
	case bitDepth == 16:
		return int16(value)
	case bitDepth == 24:
		return SampleToInt16(int32(value))
	case bitDepth > 16:
		return int16(value >> (bitDepth - 16))
	default:
		return int16(value << (16 - bitDepth))
	}
}

// Clamp16 saturates v to the int16 range
func Clamp16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
