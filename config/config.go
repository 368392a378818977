// Package config - The resolved run configuration.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config holds every option of a benchmark run. It is resolved once
// from CLI flags (optionally seeded from a TOML file) and read-only
// for the rest of the run.
type Config struct {
	// Detector options.
	Family       string  `toml:"family"`
	Border       int     `toml:"border"`
	Threads      int     `toml:"threads"`
	Decimate     float64 `toml:"decimate"`
	BlurSigma    float64 `toml:"blur"`
	RefineEdges  bool    `toml:"refine_edges"`
	RefineDecode bool    `toml:"refine_decode"`
	RefinePose   bool    `toml:"refine_pose"`
	Debug        bool    `toml:"debug"`

	// Harness options.
	Iterations  int    `toml:"iters"`
	Quiet       bool   `toml:"quiet"`
	Benchmark   bool   `toml:"benchmark"`
	NoDisplay   bool   `toml:"no_display"`
	OutputDir   string `toml:"output_dir"`
	HistoryPath string `toml:"history"`
}

// Default returns the configuration matching the CLI defaults.
func Default() Config {
	return Config{
		Family:      "tag36h11",
		Border:      1,
		Threads:     4,
		Decimate:    1.0,
		RefineEdges: true,
		Iterations:  1,
	}
}

// Load reads a TOML configuration file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks option ranges and mode exclusivity, and normalizes
// implied settings: benchmark mode always suppresses the display.
func (c *Config) Validate() error {
	if c.Iterations < 1 {
		return errors.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.Threads < 1 {
		return errors.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	if c.Decimate < 1 {
		return errors.Errorf("decimate factor must be at least 1, got %g", c.Decimate)
	}
	if c.BlurSigma < 0 {
		return errors.Errorf("blur sigma must not be negative, got %g", c.BlurSigma)
	}
	if c.Quiet && c.Benchmark {
		return errors.New("quiet and benchmark modes are mutually exclusive")
	}
	if c.Benchmark {
		c.NoDisplay = true
	}
	return nil
}
