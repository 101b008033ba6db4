// ABOUTME: Audio encoder package for writing audio files
// ABOUTME: Provides the Writer interface and a WAV implementation
// Package encode opens audio files for writing.
//
// Writers accept interleaved 16-bit samples and store them at the bit depth
// of the Format they were created with (8, 16, 24 or 32-bit PCM). The
// container header is written when the file is created and finalised on
// Close.
//
// Example:
//
//	w, err := encode.Create("out.wav", format)
//	defer w.Close()
//	n, err := w.Write(samples)
package encode
