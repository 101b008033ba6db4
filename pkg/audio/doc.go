// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the Format descriptor and sample conversion functions
// Package audio provides the fundamental types shared by the lohigh audio packages.
//
// Format describes an open stream: codec, sample rate, channel count, bit
// depth and the WAV format tag of its container. Samples move between
// packages as interleaved int16 values; ToDepth and FromDepth convert them to
// and from the integer representation of 8, 16, 24 and 32-bit containers.
//
// Example:
//
//	format := audio.Format{
//	    Codec:      audio.CodecPCM,
//	    SampleRate: 44100,
//	    Channels:   2,
//	    BitDepth:   16,
//	    Tag:        audio.TagPCM,
//	}
//
//	// Position a 16-bit sample in a 24-bit container
//	v := audio.ToDepth(sample16, 24)
package audio
