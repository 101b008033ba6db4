// ABOUTME: Tests for the audio file readers
// ABOUTME: Covers path validation, WAV bit depths, header sizes, bulk and chunked reads
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gongahkia/lohigh/pkg/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes container-width samples to a new PCM WAV file
func writeWAV(t *testing.T, path string, sampleRate, bitDepth, channels int, data []int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, int(audio.TagPCM))
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func TestOpen_PathErrors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.wav")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("this is not a riff file at all"), 0o644))

	junkFLAC := filepath.Join(dir, "junk.flac")
	require.NoError(t, os.WriteFile(junkFLAC, []byte("this is not a flac file"), 0o644))

	junkMP3 := filepath.Join(dir, "junk.mp3")
	require.NoError(t, os.WriteFile(junkMP3, []byte("this is not an mp3 file"), 0o644))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "missing.wav"), ErrNotFound},
		{"directory", dir, ErrUnsupportedFormat},
		{"empty file", empty, ErrEmptyFile},
		{"not a wav", junk, ErrUnsupportedFormat},
		{"not a flac", junkFLAC, ErrUnsupportedFormat},
		{"not an mp3", junkMP3, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Open(tt.path)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOpen_WAVFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeWAV(t, path, 22050, 16, 2, []int{1, -1, 2, -2, 3, -3})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, audio.Format{
		Codec:      audio.CodecPCM,
		SampleRate: 22050,
		Channels:   2,
		BitDepth:   16,
		Tag:        audio.TagPCM,
	}, r.Format())
	assert.Equal(t, int64(3), r.Frames())
}

func TestWAVReader_BitDepths(t *testing.T) {
	want := []int16{0, 256, -256, 32767, -32768, 1024}

	tests := []struct {
		name     string
		bitDepth int
	}{
		{"8-bit", 8},
		{"16-bit", 16},
		{"24-bit", 24},
		{"32-bit", 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]int, len(want))
			for i, s := range want {
				data[i] = audio.ToDepth(s, tt.bitDepth)
			}

			path := filepath.Join(t.TempDir(), "depth.wav")
			writeWAV(t, path, 8000, tt.bitDepth, 1, data)

			r, err := Open(path)
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, tt.bitDepth, r.Format().BitDepth)
			got, err := ReadAll(r)
			require.NoError(t, err)

			// 8-bit keeps only the high byte of every sample
			expected := want
			if tt.bitDepth == 8 {
				expected = make([]int16, len(want))
				for i, s := range want {
					expected[i] = s &^ 0xFF
				}
			}
			assert.Equal(t, expected, got)
		})
	}
}

func TestWAVReader_ChunkedReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunked.wav")
	writeWAV(t, path, 8000, 16, 1, []int{1, 2, 3, 4, 5})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]int16, 2)

	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int16{1, 2}, buf[:n])

	n, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []int16{3, 4}, buf[:n])

	// Short read: only one sample left
	n, err = r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int16(5), buf[0])

	n, err = r.Read(buf)
	assert.Equal(t, 0, n)
	assert.True(t, errors.Is(err, io.EOF), "expected io.EOF, got %v", err)
}

func TestReadAll_OversizedBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all.wav")
	writeWAV(t, path, 8000, 16, 2, []int{10, 20, 30, 40})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	samples, err := ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []int16{10, 20, 30, 40}, samples)
}

// writeRawWAV writes a mono 16-bit 8kHz WAV whose data chunk declares dataSize
// regardless of how many samples follow it
func writeRawWAV(t *testing.T, path string, dataSize uint32, samples []int16) {
	t.Helper()

	var b bytes.Buffer
	le := func(v any) { require.NoError(t, binary.Write(&b, binary.LittleEndian, v)) }

	b.WriteString("RIFF")
	le(uint32(36 + 2*len(samples)))
	b.WriteString("WAVEfmt ")
	le(uint32(16))
	le(audio.TagPCM)
	le(uint16(1))     // channels
	le(uint32(8000))  // sample rate
	le(uint32(16000)) // byte rate
	le(uint16(2))     // block align
	le(uint16(16))    // bits per sample
	b.WriteString("data")
	le(dataSize)
	le(samples)

	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
}

func TestWAVReader_DeclaredDataSize(t *testing.T) {
	present := []int16{1, 2, 3, 4}

	tests := []struct {
		name       string
		dataSize   uint32
		wantFrames int64
		want       []int16
	}{
		{"exact size", 8, 4, present},
		{"streaming placeholder", 0xFFFFFFFF, 4, present},
		{"overstated size", 0x7FFFF000, 4, present},
		{"understated size", 4, 2, []int16{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sized.wav")
			writeRawWAV(t, path, tt.dataSize, present)

			r, err := Open(path)
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, tt.wantFrames, r.Frames())

			got, err := ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Nothing past the data chunk end is handed out
			n, err := r.Read(make([]int16, 8))
			assert.Equal(t, 0, n)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestWAVReader_LargerThanScratch(t *testing.T) {
	data := make([]int, scratchSamples*2+3)
	for i := range data {
		data[i] = i % 1000
	}
	path := filepath.Join(t.TempDir(), "long.wav")
	writeWAV(t, path, 8000, 16, 1, data)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := ReadAll(r)
	require.NoError(t, err)
	require.Len(t, got, len(data))
	assert.Equal(t, int16(999), got[999])
	assert.Equal(t, int16(data[len(data)-1]), got[len(got)-1])
}
