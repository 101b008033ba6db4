// ABOUTME: Combiner implementation
// ABOUTME: Opens both inputs, writes their samples in order using input 1's format
package combine

import (
	"os"
	"time"

	"github.com/gongahkia/lohigh/internal/fsutil"
	"github.com/gongahkia/lohigh/pkg/audio"
	"github.com/gongahkia/lohigh/pkg/audio/decode"
	"github.com/gongahkia/lohigh/pkg/audio/encode"
	"github.com/gongahkia/lohigh/pkg/audio/process"
	"github.com/gongahkia/lohigh/pkg/logger"
)

// Options enables processing on top of plain concatenation. The zero value
// concatenates the inputs unchanged.
type Options struct {
	// FadeSeconds crossfades the end of input 1 into the start of input 2
	FadeSeconds float64
	// NormalizeLevel raises each input's peak toward this level (0 < l <= 1)
	NormalizeLevel float64
	// PreviewSeconds limits each input to its first N seconds
	PreviewSeconds float64
	// LoopCount repeats input 1 this many times
	LoopCount int
	// Strict refuses inputs whose rate, channels or bit depth differ. Without
	// it input 2 is reinterpreted in input 1's format and a trailing partial
	// frame is dropped.
	Strict bool
	// MinFreeBytes is the free space margin required beyond both input sizes
	MinFreeBytes uint64
	// Atomic writes to a temporary file and renames it into place
	Atomic bool
}

// Result describes a completed combine. Format is the written format: input
// 1's rate, channels and depth, with an extensible tag stored as plain PCM
// because the WAV encoder only emits WAVE_FORMAT_PCM headers.
type Result struct {
	Input1  string
	Input2  string
	Output  string
	Format  audio.Format
	Frames1 int64 // frames used from input 1 after preview and looping
	Frames2 int64 // frames used from input 2 after preview
	Samples int64 // samples committed to the output
	Size    int64 // output size in bytes
}

// Duration returns the playing time of the output
func (r *Result) Duration() time.Duration {
	if r.Format.Channels == 0 {
		return 0
	}
	return r.Format.Duration(r.Samples / int64(r.Format.Channels))
}

// Combiner joins audio files
type Combiner struct {
	log  *logger.Logger
	opts Options
	open func(path string) (decode.Reader, error)
}

// New creates a Combiner that reports through log
func New(log *logger.Logger, opts Options) *Combiner {
	if log == nil {
		log = logger.Discard()
	}
	return &Combiner{
		log:  log,
		opts: opts,
		open: decode.Open,
	}
}

// Combine writes the samples of input1 followed by those of input2 to
// output, in input1's format
func Combine(input1, input2, output string) error {
	_, err := New(logger.Default(), Options{}).Combine(input1, input2, output)
	return err
}

// Combine writes the samples of input1 followed by those of input2 to
// output, applying the configured options
func (c *Combiner) Combine(input1, input2, output string) (res *Result, err error) {
	r1, err := c.open(input1)
	if err != nil {
		return nil, &Error{Op: OpOpenInput, Path: input1, Err: err}
	}
	defer r1.Close()

	r2, err := c.open(input2)
	if err != nil {
		return nil, &Error{Op: OpOpenInput, Path: input2, Err: err}
	}
	defer r2.Close()

	f1, f2 := r1.Format(), r2.Format()
	c.log.Debug("Input 1: %s (%s, %d frames)", input1, f1, r1.Frames())
	c.log.Debug("Input 2: %s (%s, %d frames)", input2, f2, r2.Frames())

	if c.opts.Strict && !f1.Matches(f2) {
		return nil, &Error{Op: OpFormatMismatch, Path: input2, Err: &MismatchError{First: f1, Second: f2}}
	}

	if c.opts.MinFreeBytes > 0 {
		need := fileSize(input1) + fileSize(input2) + c.opts.MinFreeBytes
		if err := fsutil.CheckSpace(output, need); err != nil {
			return nil, &Error{Op: OpDiskSpace, Path: output, Err: err}
		}
	}

	// Output format comes from input 1 only
	format := audio.Format{
		Codec:      audio.CodecPCM,
		SampleRate: f1.SampleRate,
		Channels:   f1.Channels,
		BitDepth:   f1.BitDepth,
		Tag:        f1.Tag,
	}

	target := output
	if c.opts.Atomic {
		target = fsutil.TempPath(output)
	}

	w, err := encode.Create(target, format)
	if err != nil {
		return nil, &Error{Op: OpOpenOutput, Path: output, Err: err}
	}
	closed := false
	defer func() {
		if !closed {
			_ = w.Close()
		}
		if err != nil && c.opts.Atomic {
			_ = os.Remove(target)
		}
	}()

	res = &Result{Input1: input1, Input2: input2, Output: output, Format: w.Format()}

	first, err := c.load(r1, input1, c.opts.LoopCount)
	if err != nil {
		return nil, err
	}
	res.Frames1 = int64(len(first) / f1.Channels)

	var written int64
	fadeFrames := process.FramesFor(c.opts.FadeSeconds, f1.SampleRate)
	if fadeFrames == 0 {
		if err := c.write(w, output, first); err != nil {
			return nil, err
		}
		written += int64(len(first))
		first = nil
	}

	second, err := c.load(r2, input2, 1)
	if err != nil {
		return nil, err
	}
	res.Frames2 = int64(len(second) / f2.Channels)

	if fadeFrames == 0 {
		err = c.write(w, output, second)
		written += int64(len(second))
	} else {
		for _, piece := range process.Join(first, second, fadeFrames, f1.Channels) {
			if err = c.write(w, output, piece); err != nil {
				break
			}
			written += int64(len(piece))
		}
		c.log.Debug("Applied %gs crossfade between files", c.opts.FadeSeconds)
	}
	if err != nil {
		return nil, err
	}

	res.Samples = w.Samples()
	if dropped := written - res.Samples; dropped > 0 {
		c.log.Debug("Dropped %d trailing samples that do not fill a %d-channel frame", dropped, f1.Channels)
	}
	closed = true
	if err := w.Close(); err != nil {
		return nil, &Error{Op: OpWrite, Path: output, Err: err}
	}

	if c.opts.Atomic {
		if err := os.Rename(target, output); err != nil {
			return nil, &Error{Op: OpRename, Path: output, Err: err}
		}
	}

	if info, statErr := os.Stat(output); statErr == nil {
		res.Size = info.Size()
	}

	c.log.Info("DJ Sacabambaspis has successfully made your sound lo-fi: %s", output)
	return res, nil
}

// load bulk-reads r and applies preview, looping and normalization
func (c *Combiner) load(r decode.Reader, path string, loops int) ([]int16, error) {
	samples, err := decode.ReadAll(r)
	if err != nil {
		return nil, &Error{Op: OpRead, Path: path, Err: err}
	}

	format := r.Format()
	if short := r.Frames()*int64(format.Channels) - int64(len(samples)); short > 0 {
		c.log.Debug("Short read on %s: %d samples missing", path, short)
	}

	if c.opts.PreviewSeconds > 0 {
		frames := process.FramesFor(c.opts.PreviewSeconds, format.SampleRate)
		samples = process.Truncate(samples, frames, format.Channels)
		c.log.Debug("Preview mode: using %d frames of %s", len(samples)/format.Channels, path)
	}

	if loops > 1 {
		samples = process.Loop(samples, loops)
		c.log.Debug("Looping %s %d times", path, loops)
	}

	if c.opts.NormalizeLevel > 0 {
		before := process.Peak(samples)
		samples = process.Normalize(samples, c.opts.NormalizeLevel)
		c.log.Debug("Normalized %s: peak %.1f%% -> %.1f%%", path, before*100, process.Peak(samples)*100)
	}

	return samples, nil
}

func (c *Combiner) write(w encode.Writer, path string, samples []int16) error {
	if len(samples) == 0 {
		return nil
	}
	if _, err := w.Write(samples); err != nil {
		return &Error{Op: OpWrite, Path: path, Err: err}
	}
	return nil
}

// Info describes one audio file
type Info struct {
	Path     string
	Size     int64
	Format   audio.Format
	Frames   int64
	Duration time.Duration
}

// Inspect opens path and reports its format without reading samples
func Inspect(path string) (*Info, error) {
	r, err := decode.Open(path)
	if err != nil {
		return nil, &Error{Op: OpOpenInput, Path: path, Err: err}
	}
	defer r.Close()

	format := r.Format()
	return &Info{
		Path:     path,
		Size:     int64(fileSize(path)),
		Format:   format,
		Frames:   r.Frames(),
		Duration: format.Duration(r.Frames()),
	}, nil
}

// Plan is what a combine would produce, computed without writing anything
type Plan struct {
	Input1   *Info
	Input2   *Info
	Output   string
	Format   audio.Format
	Frames   int64
	Size     int64
	Duration time.Duration
}

// Plan inspects both inputs and estimates the output of Combine
func (c *Combiner) Plan(input1, input2, output string) (*Plan, error) {
	i1, err := Inspect(input1)
	if err != nil {
		return nil, err
	}
	i2, err := Inspect(input2)
	if err != nil {
		return nil, err
	}

	if c.opts.Strict && !i1.Format.Matches(i2.Format) {
		return nil, &Error{Op: OpFormatMismatch, Path: input2, Err: &MismatchError{First: i1.Format, Second: i2.Format}}
	}

	frames1 := c.previewFrames(i1)
	if c.opts.LoopCount > 1 {
		frames1 *= int64(c.opts.LoopCount)
	}
	frames2 := c.previewFrames(i2)

	// Input 2's samples are laid out in input 1's frame size
	samples := frames1*int64(i1.Format.Channels) + frames2*int64(i2.Format.Channels)
	fade := int64(process.FramesFor(c.opts.FadeSeconds, i1.Format.SampleRate)) * int64(i1.Format.Channels)
	fade = min(fade, frames1*int64(i1.Format.Channels), frames2*int64(i2.Format.Channels))
	fade -= fade % int64(i1.Format.Channels)
	samples -= fade
	frames := samples / int64(i1.Format.Channels)

	return &Plan{
		Input1:   i1,
		Input2:   i2,
		Output:   output,
		Format:   i1.Format,
		Frames:   frames,
		Size:     wavHeaderSize + frames*int64(i1.Format.FrameSize()),
		Duration: i1.Format.Duration(frames),
	}, nil
}

// wavHeaderSize is the size of a canonical PCM WAV header
const wavHeaderSize = 44

func (c *Combiner) previewFrames(info *Info) int64 {
	if c.opts.PreviewSeconds <= 0 {
		return info.Frames
	}
	return min(info.Frames, int64(process.FramesFor(c.opts.PreviewSeconds, info.Format.SampleRate)))
}

func fileSize(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return uint64(info.Size())
}
