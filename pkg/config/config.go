// Package config loads meshalyzer's TOML configuration. All settings
// have working defaults; a missing config file is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the tool-wide settings.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// Cells is the marching cubes resolution for primitive generation.
	Cells int `toml:"cells"`
	// WeldTolerance is the vertex weld distance for primitive meshes.
	WeldTolerance float64 `toml:"weld_tolerance"`
	// EvalTimeout bounds a single script evaluation.
	EvalTimeout time.Duration `toml:"eval_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:      "info",
		Cells:         128,
		WeldTolerance: 1e-9,
		EvalTimeout:   5 * time.Second,
	}
}

// Load reads a TOML config file, filling unset fields from Default.
// A missing file returns Default with no error; a malformed file or
// invalid setting is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.Cells <= 0 {
		return fmt.Errorf("cells must be positive, got %d", c.Cells)
	}
	if c.WeldTolerance <= 0 {
		return fmt.Errorf("weld_tolerance must be positive, got %g", c.WeldTolerance)
	}
	if c.EvalTimeout <= 0 {
		return fmt.Errorf("eval_timeout must be positive, got %s", c.EvalTimeout)
	}
	return nil
}
