package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/procreate"
)

// Config holds the settings of one conversion. A YAML file may supply
// any of them; flags given on the command line take precedence.
type Config struct {
	Output     string    `yaml:"output"`
	Reference  string    `yaml:"reference"`
	LayersDir  string    `yaml:"layers_dir"`
	Format     string    `yaml:"format"`
	Workers    int       `yaml:"workers"`
	TilePolicy string    `yaml:"tile_policy"`
	Log        LogConfig `yaml:"log"`
}

// LogConfig selects the diagnostics written to stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the settings used when neither a file nor a flag
// says otherwise.
func DefaultConfig() *Config {
	return &Config{
		Output:     "final.png",
		Format:     "png",
		TilePolicy: procreate.TileAbort.String(),
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadConfig reads a YAML file over cfg. Unknown keys are rejected.
func LoadConfig(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings before any file is opened.
func (c *Config) Validate() error {
	if c.Output == "" {
		return errors.New("output path is required")
	}
	if err := procreate.CheckFormat(c.Output); err != nil {
		return err
	}
	if c.Reference != "" {
		if err := procreate.CheckFormat(c.Reference); err != nil {
			return err
		}
	}
	if c.LayersDir != "" {
		if err := procreate.CheckFormat("layer." + strings.TrimPrefix(c.Format, ".")); err != nil {
			return err
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if _, err := procreate.ParseTilePolicy(c.TilePolicy); err != nil {
		return err
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// Logger builds the slog logger described by l, writing to w.
func (l LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := l.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
