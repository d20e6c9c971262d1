// Package config loads and saves the YAML file shared by threephase and
// bodeplot. Missing files and missing keys fall back to DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ja7ad/phaseplot/pkg/logging"
	"github.com/ja7ad/phaseplot/pkg/render"
	"github.com/ja7ad/phaseplot/pkg/waveform"
)

// DefaultPath is the file both commands look for when --config is not given.
const DefaultPath = "phaseplot.yaml"

// Config is the full configuration file.
type Config struct {
	Waveform waveform.Config `yaml:"waveform"`
	Output   OutputConfig    `yaml:"output"`
	Bode     BodeConfig      `yaml:"bode"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// OutputConfig controls the threephase artifacts. Empty data paths disable
// the corresponding export.
type OutputConfig struct {
	Path    string `yaml:"path"`
	Unit    string `yaml:"unit"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	CSV     string `yaml:"csv,omitempty"`
	JSON    string `yaml:"json,omitempty"`
	Parquet string `yaml:"parquet,omitempty"`
}

// BodeConfig controls bodeplot discovery and output.
type BodeConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"`
	Out     string `yaml:"out"`
	PerFile bool   `yaml:"per_file"`
	OutDir  string `yaml:"out_dir,omitempty"`
}

// LoggingConfig holds the logger level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Waveform: waveform.DefaultConfig(),
		Output: OutputConfig{
			Path:   "three_phase.html",
			Unit:   "V",
			Width:  1200,
			Height: 600,
		},
		Bode: BodeConfig{
			Dir:     ".",
			Pattern: "*.csv",
			Out:     "bode_all.html",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes c as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if lvl := strings.TrimSpace(os.Getenv(logging.EnvLevel)); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Validate rejects values no command can work with. Non-positive waveform
// parameters are allowed: they produce an empty, degenerate set.
func (c *Config) Validate() error {
	w := c.Waveform
	for name, v := range map[string]float64{
		"frequency_hz":         w.FrequencyHz,
		"peak_amplitude":       w.PeakAmplitude,
		"cycles":               w.Cycles,
		"third_harmonic_ratio": w.ThirdHarmonicRatio,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: waveform.%s is %v", ErrInvalid, name, v)
		}
	}

	if _, err := render.FormatFromPath(c.Output.Path); err != nil {
		return fmt.Errorf("%w: output.path: %w", ErrInvalid, err)
	}
	if c.Output.Width < 0 || c.Output.Height < 0 {
		return fmt.Errorf("%w: output size %dx%d", ErrInvalid, c.Output.Width, c.Output.Height)
	}

	if c.Bode.Pattern == "" {
		return fmt.Errorf("%w: bode.pattern is empty", ErrInvalid)
	}
	if _, err := filepath.Match(c.Bode.Pattern, ""); err != nil {
		return fmt.Errorf("%w: bode.pattern: %w", ErrInvalid, err)
	}
	if _, err := render.FormatFromPath(c.Bode.Out); err != nil {
		return fmt.Errorf("%w: bode.out: %w", ErrInvalid, err)
	}
	return nil
}
