// ABOUTME: Audio output package for previewing results
// ABOUTME: Provides the Output interface and an oto implementation
// Package output plays interleaved 16-bit PCM through the system audio device.
//
// Example:
//
//	out := output.NewOto(100)
//	err := out.Open(44100, 2)
//	err = out.Write(samples)
//	err = out.Close()
package output
