// ABOUTME: Tests for the lohigh CLI entry point
// ABOUTME: Covers argument counts, interleaved flags, exit codes and output streams
package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gongahkia/lohigh/internal/config"
	"github.com/gongahkia/lohigh/pkg/audio"
	"github.com/gongahkia/lohigh/pkg/audio/decode"
	"github.com/gongahkia/lohigh/pkg/audio/encode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mono = audio.Format{Codec: audio.CodecPCM, SampleRate: 8000, Channels: 1, BitDepth: 16, Tag: audio.TagPCM}

func writeFixture(t *testing.T, path string, samples []int16) string {
	t.Helper()
	w, err := encode.Create(path, mono)
	require.NoError(t, err)
	_, err = w.Write(samples)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

func readSamples(t *testing.T, path string) []int16 {
	t.Helper()
	r, err := decode.Open(path)
	require.NoError(t, err)
	defer r.Close()
	samples, err := decode.ReadAll(r)
	require.NoError(t, err)
	return samples
}

// sandbox moves into a fresh directory holding asset/ambient.wav and
// isolates configuration from the host
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("LOHIGH_CONFIG", filepath.Join(dir, "no-rc"))
	for _, key := range []string{"LOHIGH_ASSET_DIR", "LOHIGH_AMBIENT", "LOHIGH_OUTPUT_DIR", "LOHIGH_FADE", "LOHIGH_LEVEL", "LOHIGH_LOOP", "LOHIGH_MIN_FREE_MB"} {
		t.Setenv(key, "")
	}

	require.NoError(t, os.Mkdir("asset", 0o755))
	writeFixture(t, filepath.Join("asset", "ambient.wav"), []int16{100, 101})
	return dir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_ThreeArgs(t *testing.T) {
	sandbox(t)
	writeFixture(t, "a.wav", []int16{1, 2})
	writeFixture(t, "b.wav", []int16{3})

	code, stdout, stderr := runCLI(t, "a.wav", "b.wav", "c.wav")
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "DJ Sacabambaspis has successfully made your sound lo-fi: c.wav\n", stdout)
	assert.Equal(t, []int16{1, 2, 3}, readSamples(t, "c.wav"))
}

func TestRun_TwoArgsUseDefaultBed(t *testing.T) {
	sandbox(t)
	writeFixture(t, "b.wav", []int16{7, 8})

	code, _, _ := runCLI(t, "b.wav", "c.wav")
	assert.Equal(t, 0, code)
	assert.Equal(t, []int16{100, 101, 7, 8}, readSamples(t, "c.wav"))
}

func TestRun_WrongArgCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"none", nil},
		{"one", []string{"a.wav"}},
		{"four", []string{"a.wav", "b.wav", "c.wav", "d.wav"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := sandbox(t)

			code, stdout, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "DJ Sacabambaspis cannot make music because there are an incorrect number of files.")
			assert.Contains(t, stderr, "Usage:")

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "nothing but the asset dir exists")
		})
	}
}

func TestRun_MissingInput(t *testing.T) {
	sandbox(t)
	writeFixture(t, "b.wav", []int16{1})

	code, stdout, stderr := runCLI(t, "missing.wav", "b.wav", "c.wav")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "DJ Sacabambaspis can't open the input file named 'missing.wav'")
	assert.Contains(t, stderr, "suggestion: check the file path and try again")
	assert.NoFileExists(t, "c.wav")
}

func TestRun_UnwritableOutput(t *testing.T) {
	sandbox(t)
	writeFixture(t, "a.wav", []int16{1})
	writeFixture(t, "b.wav", []int16{2})

	code, _, stderr := runCLI(t, "a.wav", "b.wav", filepath.Join("nope", "c.wav"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "can't open the output file named")
}

func TestRun_InterleavedFlags(t *testing.T) {
	sandbox(t)
	writeFixture(t, "a.wav", []int16{1})
	writeFixture(t, "b.wav", []int16{2})

	code, stdout, _ := runCLI(t, "-reverse", "a.wav", "--loop=2", "b.wav", "-q", "c.wav")
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout, "quiet suppresses the success message")
	assert.Equal(t, []int16{2, 2, 1}, readSamples(t, "c.wav"))
}

func TestRun_NoClobber(t *testing.T) {
	sandbox(t)
	writeFixture(t, "b.wav", []int16{2})
	require.NoError(t, os.WriteFile("c.wav", []byte("keep"), 0o644))

	code, _, stderr := runCLI(t, "-no-clobber", "b.wav", "c.wav")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "output file already exists")
	assert.Contains(t, stderr, "-force")

	code, _, _ = runCLI(t, "-no-clobber", "-force", "b.wav", "c.wav")
	assert.Equal(t, 0, code)
}

func TestRun_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"level too high", []string{"-level=2", "b.wav", "c.wav"}, "level must be between"},
		{"zero loop", []string{"-loop=0", "b.wav", "c.wav"}, "loop count must be at least 1"},
		{"negative fade", []string{"-fade=-1", "b.wav", "c.wav"}, "must not be negative"},
		{"unknown flag", []string{"-bogus", "b.wav", "c.wav"}, "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sandbox(t)
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRun_Version(t *testing.T) {
	sandbox(t)
	code, stdout, _ := runCLI(t, "-version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "lohigh "))
}

func TestRun_ListAmbients(t *testing.T) {
	sandbox(t)
	code, stdout, _ := runCLI(t, "-list-ambients")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "  - ambient\n")
}

func TestRun_JSON(t *testing.T) {
	sandbox(t)
	writeFixture(t, "b.wav", []int16{2})

	code, stdout, _ := runCLI(t, "-json", "b.wav", "c.wav")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, `"status": "success"`)
	assert.NotContains(t, stdout, "DJ Sacabambaspis")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := sandbox(t)
	writeFixture(t, "b.wav", []int16{2})
	rc := filepath.Join(dir, "rc.yaml")
	require.NoError(t, os.WriteFile(rc, []byte("loop: 3\n"), 0o644))
	t.Setenv("LOHIGH_CONFIG", rc)

	code, _, _ := runCLI(t, "b.wav", "c.wav")
	assert.Equal(t, 0, code)
	assert.Equal(t, []int16{100, 101, 100, 101, 100, 101, 2}, readSamples(t, "c.wav"))

	code, _, _ = runCLI(t, "-loop=1", "b.wav", "d.wav")
	assert.Equal(t, 0, code)
	assert.Equal(t, []int16{100, 101, 2}, readSamples(t, "d.wav"), "flags override the rc file")
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantPositional []string
		wantFade       float64
		wantQuiet      bool
	}{
		{"flags first", []string{"-fade=2", "a", "b"}, []string{"a", "b"}, 2, false},
		{"flags between", []string{"a", "-fade", "1.5s", "b"}, []string{"a", "b"}, 1.5, false},
		{"flags last", []string{"a", "b", "c", "--quiet"}, []string{"a", "b", "c"}, 0, true},
		{"stdin dash", []string{"-", "b", "-q"}, []string{"-", "b"}, 0, true},
		{"terminator", []string{"a", "--", "-q", "b"}, []string{"a", "-q", "b"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o options
			fs := newFlagSet(config.Default(), &o, io.Discard)
			positional, err := parseArgs(fs, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPositional, positional)
			assert.Equal(t, tt.wantFade, float64(o.fade))
			assert.Equal(t, tt.wantQuiet, o.quiet)
		})
	}
}

func TestParseArgs_Help(t *testing.T) {
	var o options
	fs := newFlagSet(config.Default(), &o, io.Discard)
	_, err := parseArgs(fs, []string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestSecondsFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1.5", 1.5, false},
		{"2s", 2, false},
		{"1m30s", 90, false},
		{"500ms", 0.5, false},
		{"-1", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s seconds
			err := s.Set(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, float64(s))
		})
	}
}
