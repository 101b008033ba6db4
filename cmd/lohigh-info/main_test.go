// ABOUTME: Tests for the audio file inspector
// ABOUTME: Verifies text and JSON output and the exit code on failures
package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/gongahkia/lohigh/pkg/audio"
	"github.com/gongahkia/lohigh/pkg/audio/encode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	w, err := encode.Create(path, audio.Format{Codec: audio.CodecPCM, SampleRate: 44100, Channels: 2, BitDepth: 16, Tag: audio.TagPCM})
	require.NoError(t, err)
	_, err = w.Write(make([]int16, 44100*2))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

func TestRun_Text(t *testing.T) {
	path := fixture(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{path}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr.String())
	assert.Contains(t, stdout.String(), "Format:      pcm 44100Hz Stereo 16-bit")
	assert.Contains(t, stdout.String(), "Frames:      44100")
	assert.Contains(t, stdout.String(), "Duration:    1.00 seconds")
}

func TestRun_JSON(t *testing.T) {
	path := fixture(t)
	missing := filepath.Join(t.TempDir(), "missing.wav")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-json", path, missing}, &stdout, &stderr)
	assert.Equal(t, 1, code, "any failed file fails the run")

	var results []fileInfo
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, 44100, results[0].SampleRate)
	assert.Equal(t, int64(44100), results[0].Frames)
	assert.Equal(t, 1.0, results[0].DurationSeconds)
	assert.Contains(t, results[1].Error, "file not found")
}

func TestRun_NoFiles(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage: lohigh-info")
}
