// ABOUTME: Leveled console logger built on the standard log package
// ABOUTME: Routes info and verbose lines to stdout, warnings and errors to stderr
// Package logger provides console logging for the lohigh tools.
//
// Messages go through standard library loggers: informational and verbose
// output to stdout, warnings and errors to stderr. In JSON mode the text
// output on stdout is suppressed so that a single Result document can be
// written there instead.
package logger

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"time"
)

// Level controls how much is printed on stdout.
type Level int

// Verbosity levels.
const (
	// Quiet prints nothing but warnings and errors
	Quiet Level = iota
	// Normal prints progress and success messages
	Normal
	// Verbose adds detail lines prefixed with [VERBOSE]
	Verbose
)

// Logger writes leveled console messages.
type Logger struct {
	level  Level
	json   bool
	out    io.Writer
	errOut io.Writer

	infoLogger  *log.Logger
	debugLogger *log.Logger
	errorLogger *log.Logger
}

// New creates a logger writing to stdout and stderr.
func New(stdout, stderr io.Writer, level Level, jsonMode bool) *Logger {
	l := &Logger{
		level:       level,
		json:        jsonMode,
		out:         stdout,
		errOut:      stderr,
		infoLogger:  log.New(stdout, "", 0),
		debugLogger: log.New(stdout, "[VERBOSE] ", 0),
		errorLogger: log.New(stderr, "", 0),
	}

	if jsonMode || level < Normal {
		l.infoLogger.SetOutput(io.Discard)
	}
	if jsonMode || level < Verbose {
		l.debugLogger.SetOutput(io.Discard)
	}

	return l
}

// Default creates a normal-level logger on the process streams.
func Default() *Logger {
	return New(os.Stdout, os.Stderr, Normal, false)
}

// Discard creates a logger that prints nothing.
func Discard() *Logger {
	return New(io.Discard, io.Discard, Quiet, false)
}

// Stderr returns a logger with the same settings that prints everything to
// stderr, for runs where stdout carries data.
func (l *Logger) Stderr() *Logger {
	return New(l.errOut, l.errOut, l.level, l.json)
}

// Level returns the configured verbosity.
func (l *Logger) Level() Level {
	return l.level
}

// JSON reports whether the logger is in JSON mode.
func (l *Logger) JSON() bool {
	return l.json
}

// Info logs informational messages.
func (l *Logger) Info(message string, args ...interface{}) {
	l.infoLogger.Printf(message, args...)
}

// Debug logs verbose detail messages.
func (l *Logger) Debug(message string, args ...interface{}) {
	l.debugLogger.Printf(message, args...)
}

// Warn logs warnings to stderr.
func (l *Logger) Warn(message string, args ...interface{}) {
	l.errorLogger.Printf("warning: "+message, args...)
}

// Error logs error messages to stderr.
func (l *Logger) Error(message string, args ...interface{}) {
	l.errorLogger.Printf(message, args...)
}

// Result is the machine-readable summary printed in JSON mode.
type Result struct {
	Status         string   `json:"status"`
	InputFiles     []string `json:"input_files"`
	OutputFile     string   `json:"output_file"`
	Error          string   `json:"error,omitempty"`
	SizeBytes      *int64   `json:"size_bytes,omitempty"`
	FadeDuration   float64  `json:"fade_duration"`
	NormalizeLevel float64  `json:"normalize_level"`
	LoopCount      int      `json:"loop_count"`
	Timestamp      string   `json:"timestamp"`
}

// Result writes r as an indented JSON document when in JSON mode.
func (l *Logger) Result(r Result) error {
	if !l.json {
		return nil
	}
	if r.Timestamp == "" {
		r.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if r.InputFiles == nil {
		r.InputFiles = []string{}
	}

	enc := json.NewEncoder(l.out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
