// ABOUTME: Sample transforms used by the combiner options
// ABOUTME: Normalization, linear crossfade, looping and preview truncation
package process

import (
	"math"

	"github.com/gongahkia/lohigh/pkg/audio"
)

// silenceThreshold is the peak level below which audio is left untouched
const silenceThreshold = 0.001

// FramesFor returns the number of whole frames spanning seconds at rate
func FramesFor(seconds float64, rate int) int {
	if seconds <= 0 || rate <= 0 {
		return 0
	}
	return int(seconds * float64(rate))
}

// Truncate returns at most the first frames frames of samples
func Truncate(samples []int16, frames, channels int) []int16 {
	limit := frames * channels
	if frames < 0 || limit >= len(samples) {
		return samples
	}
	return samples[:limit]
}

// Loop returns samples repeated count times
func Loop(samples []int16, count int) []int16 {
	if count <= 1 {
		return samples
	}
	out := make([]int16, 0, len(samples)*count)
	for i := 0; i < count; i++ {
		out = append(out, samples...)
	}
	return out
}

// Peak returns the largest absolute amplitude as a fraction of full scale
func Peak(samples []int16) float64 {
	peak := 0
	for _, s := range samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return math.Min(float64(peak)/32767.0, 1.0)
}

// Normalize amplifies samples so their peak reaches target (0 < target <= 1).
// Audio already at or above target, or effectively silent, is returned as is.
func Normalize(samples []int16, target float64) []int16 {
	peak := Peak(samples)
	if peak < silenceThreshold || target <= 0 {
		return samples
	}

	scale := target / peak
	if scale <= 1.0 {
		return samples
	}
	scale = math.Min(scale, 1.0/peak)

	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = audio.Clamp16(float64(s) * scale)
	}
	return out
}

// Crossfade mixes tail fading out with head fading in over the shorter of
// the two. Every sample of a frame shares the same fade position.
func Crossfade(tail, head []int16, channels int) []int16 {
	n := min(len(tail), len(head))
	n -= n % channels
	if n == 0 {
		return nil
	}

	frames := n / channels
	out := make([]int16, n)
	for f := 0; f < frames; f++ {
		in := float64(f) / float64(frames)
		for ch := 0; ch < channels; ch++ {
			i := f*channels + ch
			out[i] = audio.Clamp16(float64(tail[i])*(1.0-in) + float64(head[i])*in)
		}
	}
	return out
}

// Join returns the pieces of first followed by second with fadeFrames frames
// crossfaded at the seam: first's body, the crossfade, then second's rest.
func Join(first, second []int16, fadeFrames, channels int) [][]int16 {
	fade := min(fadeFrames*channels, len(first), len(second))
	fade -= fade % channels
	if fade <= 0 {
		return [][]int16{first, second}
	}

	body := first[:len(first)-fade]
	mixed := Crossfade(first[len(first)-fade:], second[:fade], channels)
	return [][]int16{body, mixed, second[fade:]}
}
