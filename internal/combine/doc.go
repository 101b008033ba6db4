// ABOUTME: Combiner package joining two audio files into one
// ABOUTME: Core open/read/write/close sequence plus optional processing
// Package combine joins two audio files into a single WAV file.
//
// The output takes its sample rate, channel count, bit depth and format tag
// from the first input. Samples of the first input are written first,
// followed by those of the second. The second input's format is not checked
// against the first unless Options.Strict is set.
//
// Example:
//
//	if err := combine.Combine("asset/ambient.wav", "track.wav", "out.wav"); err != nil {
//		log.Fatal(err)
//	}
package combine
