// ABOUTME: Tests for the console logger
// ABOUTME: Verifies level filtering, JSON mode and the result document
package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		jsonMode  bool
		wantInfo  bool
		wantDebug bool
	}{
		{"quiet", Quiet, false, false, false},
		{"normal", Normal, false, true, false},
		{"verbose", Verbose, false, true, true},
		{"json silences text", Verbose, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			l := New(&stdout, &stderr, tt.level, tt.jsonMode)

			l.Info("info %d", 1)
			l.Debug("debug %d", 2)
			l.Error("error %d", 3)

			assert.Equal(t, tt.wantInfo, bytes.Contains(stdout.Bytes(), []byte("info 1\n")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(stdout.Bytes(), []byte("[VERBOSE] debug 2\n")))
			assert.Equal(t, "error 3\n", stderr.String(), "errors are always printed")
		})
	}
}

func TestWarn(t *testing.T) {
	var stderr bytes.Buffer
	l := New(&bytes.Buffer{}, &stderr, Quiet, false)

	l.Warn("ambient file %q not found", "rain")
	assert.Equal(t, "warning: ambient file \"rain\" not found\n", stderr.String())
}

func TestResult(t *testing.T) {
	t.Run("ignored outside json mode", func(t *testing.T) {
		var stdout bytes.Buffer
		l := New(&stdout, &bytes.Buffer{}, Normal, false)
		require.NoError(t, l.Result(Result{Status: "success"}))
		assert.Empty(t, stdout.String())
	})

	t.Run("json document", func(t *testing.T) {
		var stdout bytes.Buffer
		l := New(&stdout, &bytes.Buffer{}, Normal, true)

		size := int64(1024)
		require.NoError(t, l.Result(Result{
			Status:     "success",
			InputFiles: []string{"a.wav", "b.wav"},
			OutputFile: "out.wav",
			SizeBytes:  &size,
			LoopCount:  1,
		}))

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
		assert.Equal(t, "success", doc["status"])
		assert.Equal(t, []interface{}{"a.wav", "b.wav"}, doc["input_files"])
		assert.Equal(t, float64(1024), doc["size_bytes"])
		assert.NotEmpty(t, doc["timestamp"])
		assert.NotContains(t, doc, "error")
	})
}

func TestStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l := New(&stdout, &stderr, Verbose, false).Stderr()

	l.Info("done")
	l.Debug("detail")

	assert.Empty(t, stdout.String())
	assert.Equal(t, "done\n[VERBOSE] detail\n", stderr.String())
	assert.Equal(t, Verbose, l.Level())
}
