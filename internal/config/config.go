// ABOUTME: Application configuration from the rc file and environment
// ABOUTME: Reads ~/.lohighrc as YAML, then applies LOHIGH_* overrides
// Package config handles lohigh configuration management.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds defaults for the lohigh CLI. Command-line flags override
// every field.
type Config struct {
	// AssetDir is searched for ambient beds
	AssetDir string `yaml:"asset-dir"`
	// Ambient is the bed choice: empty for the default, "random", a name or a path
	Ambient string `yaml:"ambient"`
	// OutputDir receives batch outputs
	OutputDir string `yaml:"output-dir"`

	Fade  float64 `yaml:"fade"`
	Level float64 `yaml:"level"`
	Loop  int     `yaml:"loop"`

	Force     bool `yaml:"force"`
	NoClobber bool `yaml:"no-clobber"`
	Reverse   bool `yaml:"reverse"`
	Shuffle   bool `yaml:"shuffle"`
	Strict    bool `yaml:"strict"`
	Atomic    bool `yaml:"atomic"`

	// MinFreeMB is the free disk margin required beyond the input sizes
	MinFreeMB int `yaml:"min-free-mb"`
	// Volume is the playback volume (0-100) used by -play
	Volume int `yaml:"volume"`

	// Path is the rc file that was read, empty when none was found
	Path string `yaml:"-"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		AssetDir:  "asset",
		OutputDir: ".",
		Loop:      1,
		MinFreeMB: 100,
		Volume:    100,
	}
}

// Load reads the rc file named by LOHIGH_CONFIG (default ~/.lohighrc) and
// applies environment overrides. A missing rc file leaves the defaults.
func Load() (*Config, error) {
	cfg := Default()

	path := getEnv("LOHIGH_CONFIG", defaultPath())
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Fade < 0 {
		return fmt.Errorf("fade must not be negative, got %g", c.Fade)
	}
	if c.Level < 0 || c.Level > 1 {
		return fmt.Errorf("level must be between 0.0 and 1.0, got %g", c.Level)
	}
	if c.Loop < 1 {
		return fmt.Errorf("loop must be at least 1, got %d", c.Loop)
	}
	if c.MinFreeMB < 0 {
		return fmt.Errorf("min-free-mb must not be negative, got %d", c.MinFreeMB)
	}
	if c.Volume < 0 || c.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Volume)
	}
	return nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.Path = path
	return nil
}

func (c *Config) applyEnv() error {
	c.AssetDir = getEnv("LOHIGH_ASSET_DIR", c.AssetDir)
	c.Ambient = getEnv("LOHIGH_AMBIENT", c.Ambient)
	c.OutputDir = getEnv("LOHIGH_OUTPUT_DIR", c.OutputDir)

	var err error
	if c.Fade, err = getEnvFloat("LOHIGH_FADE", c.Fade); err != nil {
		return err
	}
	if c.Level, err = getEnvFloat("LOHIGH_LEVEL", c.Level); err != nil {
		return err
	}
	if c.Loop, err = getEnvInt("LOHIGH_LOOP", c.Loop); err != nil {
		return err
	}
	if c.MinFreeMB, err = getEnvInt("LOHIGH_MIN_FREE_MB", c.MinFreeMB); err != nil {
		return err
	}
	return nil
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lohighrc")
}

// getEnv returns the value of the environment variable key, or defaultValue if unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
