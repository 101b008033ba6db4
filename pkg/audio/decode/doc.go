// ABOUTME: Audio decoder package for reading audio files
// ABOUTME: Provides the Reader interface and WAV, FLAC and MP3 implementations
// Package decode opens audio files for reading.
//
// Supports: RIFF/WAVE PCM (8, 16, 24 and 32-bit), FLAC, MP3
//
// Every Reader reports the stream's Format and frame count and delivers
// interleaved 16-bit samples, whatever the container's own bit depth.
//
// Example:
//
//	r, err := decode.Open("ambient.wav")
//	defer r.Close()
//	buf := make([]int16, r.Frames()*int64(r.Format().Channels))
//	n, err := r.Read(buf)
package decode
