// ABOUTME: Ambient bed selection
// ABOUTME: Resolves default, random, named and custom beds from the asset directory
package ambient

import (
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/gongahkia/lohigh/internal/fsutil"
	"github.com/gongahkia/lohigh/pkg/logger"
)

// Default is the bed used when no other choice applies
const Default = "ambient.wav"

// Random selects uniformly among the known beds present on disk
const Random = "random"

// Known lists the beds shipped in the asset directory
var Known = []string{
	"ambient.wav",
	"ambient_vinyl.wav",
	"ambient_rain.wav",
	"ambient_cafe.wav",
	"ambient_night.wav",
}

// Selector resolves bed choices against an asset directory
type Selector struct {
	dir  string
	log  *logger.Logger
	pick func(n int) int
}

// NewSelector creates a Selector for the beds in dir
func NewSelector(dir string, log *logger.Logger) *Selector {
	if log == nil {
		log = logger.Discard()
	}
	return &Selector{dir: dir, log: log, pick: rand.Intn}
}

// DefaultPath returns the path of the default bed
func (s *Selector) DefaultPath() string {
	return filepath.Join(s.dir, Default)
}

// Available returns the known beds present in the asset directory
func (s *Selector) Available() []string {
	var found []string
	for _, name := range Known {
		if fsutil.Exists(filepath.Join(s.dir, name)) {
			found = append(found, name)
		}
	}
	return found
}

// Select returns the bed path for choice. Unresolvable choices fall back to
// the default bed with a warning.
func (s *Selector) Select(choice string) string {
	if choice == "" {
		return s.DefaultPath()
	}

	if strings.EqualFold(choice, Random) {
		available := s.Available()
		if len(available) == 0 {
			s.log.Debug("No ambient files found, using default")
			return s.DefaultPath()
		}
		name := available[s.pick(len(available))]
		s.log.Debug("Randomly selected ambient: %s", name)
		return filepath.Join(s.dir, name)
	}

	candidates := []string{filepath.Join(s.dir, choice)}
	if !strings.HasSuffix(choice, ".wav") {
		candidates = append(candidates, filepath.Join(s.dir, choice+".wav"))
	}
	for _, path := range candidates {
		if fsutil.Exists(path) {
			s.log.Debug("Using ambient: %s", filepath.Base(path))
			return path
		}
	}

	if fsutil.Exists(choice) {
		s.log.Debug("Using custom ambient: %s", choice)
		return choice
	}

	s.log.Warn("ambient file '%s' not found, using default", choice)
	return s.DefaultPath()
}

// List returns display lines describing the available choices
func (s *Selector) List() []string {
	lines := []string{"Available ambient files:"}
	for _, name := range s.Available() {
		lines = append(lines, "  - "+strings.TrimSuffix(name, ".wav"))
	}
	return append(lines,
		"  - random (selects randomly from available files)",
		"  - Or provide a custom file path",
	)
}
