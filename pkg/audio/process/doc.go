// ABOUTME: Audio processing package operating on interleaved 16-bit samples
// ABOUTME: Peak detection, normalization, crossfading, looping and truncation
// Package process provides sample-level transforms applied while combining.
//
// All functions take interleaved int16 samples, never modify their input and
// saturate results to the int16 range.
//
// Example:
//
//	fade := process.FramesFor(1.5, 44100)
//	joined := process.Join(first, second, fade, 2)
package process
