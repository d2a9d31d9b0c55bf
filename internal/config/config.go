// Package config loads the demo configuration from YAML and applies
// command line overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/readback"
	"github.com/gogpu/readback/internal/device"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Config is the demo configuration.
type Config struct {
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	Frames       int           `yaml:"frames"`
	Mode         string        `yaml:"mode"`
	Backend      string        `yaml:"backend"`
	Interval     time.Duration `yaml:"interval"`
	FenceTimeout time.Duration `yaml:"fence_timeout"`
	Output       string        `yaml:"output"`
	LogLevel     string        `yaml:"log_level"`
}

// Default returns the built-in configuration: a 1024x1024 staged readback
// of 120 frames at 60 Hz on the software renderer.
func Default() Config {
	return Config{
		Width:    1024,
		Height:   1024,
		Frames:   120,
		Mode:     "staged",
		Backend:  device.BackendSoftware,
		Interval: time.Second / 60,
		LogLevel: "warn",
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config file is not secret
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Overrides holds command line values. Nil fields leave the configuration
// unchanged.
type Overrides struct {
	Width        *int
	Height       *int
	Frames       *int
	Mode         *string
	Backend      *string
	Interval     *time.Duration
	FenceTimeout *time.Duration
	Output       *string
	LogLevel     *string
}

// Apply returns cfg with the non-nil overrides set.
func (cfg Config) Apply(o Overrides) Config {
	setInt(&cfg.Width, o.Width)
	setInt(&cfg.Height, o.Height)
	setInt(&cfg.Frames, o.Frames)
	setString(&cfg.Mode, o.Mode)
	setString(&cfg.Backend, o.Backend)
	setString(&cfg.Output, o.Output)
	setString(&cfg.LogLevel, o.LogLevel)
	if o.Interval != nil {
		cfg.Interval = *o.Interval
	}
	if o.FenceTimeout != nil {
		cfg.FenceTimeout = *o.FenceTimeout
	}
	return cfg
}

func setInt(dst, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks sizes, mode, backend, durations and log level.
func (cfg Config) Validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, cfg.Width, cfg.Height)
	}
	if _, err := readback.ParseMode(cfg.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := device.ParseBackend(cfg.Backend); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if cfg.Interval < 0 || cfg.FenceTimeout < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalid)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ParseMode returns the configured readback mode.
func (cfg Config) ParseMode() readback.Mode {
	m, _ := readback.ParseMode(cfg.Mode)
	return m
}

// ParseLevel maps a log level name to a slog level. The empty name is warn.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
