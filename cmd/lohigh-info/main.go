// ABOUTME: Audio file inspector
// ABOUTME: Prints the format descriptor lohigh reads from each file
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gongahkia/lohigh/internal/combine"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// fileInfo is the JSON form of one inspected file
type fileInfo struct {
	Path            string  `json:"path"`
	SizeBytes       int64   `json:"size_bytes,omitempty"`
	Codec           string  `json:"codec,omitempty"`
	SampleRate      int     `json:"sample_rate,omitempty"`
	Channels        int     `json:"channels,omitempty"`
	BitDepth        int     `json:"bit_depth,omitempty"`
	Frames          int64   `json:"frames,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Error           string  `json:"error,omitempty"`
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lohigh-info", flag.ContinueOnError)
	fs.SetOutput(stderr)
	jsonOut := fs.Bool("json", false, "Print a JSON array instead of text")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: lohigh-info [-json] <file>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 1
	}

	code := 0
	var results []fileInfo
	for _, path := range fs.Args() {
		info, err := combine.Inspect(path)
		if err != nil {
			code = 1
			if *jsonOut {
				results = append(results, fileInfo{Path: path, Error: err.Error()})
			} else {
				fmt.Fprintf(stderr, "%s: %v\n", path, err)
			}
			continue
		}

		if *jsonOut {
			results = append(results, fileInfo{
				Path:            info.Path,
				SizeBytes:       info.Size,
				Codec:           info.Format.Codec,
				SampleRate:      info.Format.SampleRate,
				Channels:        info.Format.Channels,
				BitDepth:        info.Format.BitDepth,
				Frames:          info.Frames,
				DurationSeconds: info.Duration.Seconds(),
			})
			continue
		}

		fmt.Fprintf(stdout, "%s\n", info.Path)
		fmt.Fprintf(stdout, "  Size:        %d bytes\n", info.Size)
		fmt.Fprintf(stdout, "  Format:      %s\n", info.Format)
		fmt.Fprintf(stdout, "  Sample Rate: %d Hz\n", info.Format.SampleRate)
		fmt.Fprintf(stdout, "  Channels:    %d\n", info.Format.Channels)
		fmt.Fprintf(stdout, "  Bit Depth:   %d bits\n", info.Format.BitDepth)
		fmt.Fprintf(stdout, "  Frames:      %d\n", info.Frames)
		fmt.Fprintf(stdout, "  Duration:    %.2f seconds\n", info.Duration.Seconds())
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}

	return code
}
