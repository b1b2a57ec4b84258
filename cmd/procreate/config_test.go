package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "procreate.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
output: out/flat.jpg
reference: out/ref.png
layers_dir: out/layers
format: tiff
workers: 3
tile_policy: transparent
log:
  level: debug
  format: json
`)
	cfg := DefaultConfig()
	if err := LoadConfig(path, cfg); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := Config{
		Output:     "out/flat.jpg",
		Reference:  "out/ref.png",
		LayersDir:  "out/layers",
		Format:     "tiff",
		Workers:    3,
		TilePolicy: "transparent",
		Log:        LogConfig{Level: "debug", Format: "json"},
	}
	if *cfg != want {
		t.Errorf("LoadConfig() = %+v, want %+v", *cfg, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadConfig(writeConfig(t, "workers: 2\n"), cfg); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Output != "final.png" || cfg.Format != "png" || cfg.Workers != 2 {
		t.Errorf("cfg = %+v, want defaults with workers 2", *cfg)
	}
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadConfig(writeConfig(t, ""), cfg); err != nil {
		t.Errorf("LoadConfig(empty) error = %v", err)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadConfig(writeConfig(t, "outptu: x.png\n"), cfg); err == nil {
		t.Error("LoadConfig() accepted an unknown key")
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, "output: from-config.png\nworkers: 4\ntile_policy: transparent\n")

	var flags Config
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.StringVarP(&flags.Output, "output", "o", "final.png", "")
	flagSet.IntVarP(&flags.Workers, "workers", "j", 0, "")
	flagSet.StringVar(&flags.TilePolicy, "tile-policy", "abort", "")
	if err := flagSet.Parse([]string{"-j", "2"}); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := LoadConfig(path, cfg); err != nil {
		t.Fatal(err)
	}
	override(cfg, &flags, flagSet)

	if cfg.Output != "from-config.png" {
		t.Errorf("Output = %q, want the config value", cfg.Output)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want the flag value 2", cfg.Workers)
	}
	if cfg.TilePolicy != "transparent" {
		t.Errorf("TilePolicy = %q, want the config value", cfg.TilePolicy)
	}
}

func TestRunWithConfig(t *testing.T) {
	input := fixture().WriteFile(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "configured.png")
	path := writeConfig(t, "output: "+out+"\nlog:\n  level: info\n  format: json\n")

	var stderr bytes.Buffer
	if err := run([]string{"--config", path, input}, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("configured output: %v", err)
	}
	if !bytes.Contains(stderr.Bytes(), []byte(`"level":"INFO"`)) {
		t.Errorf("expected JSON info logs on stderr, got %q", stderr.String())
	}
}

func TestLogConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "error", Format: "text"}.Logger(&buf)
	if err != nil {
		t.Fatal(err)
	}
	logger.Warn("hidden")
	logger.Error("shown")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) || !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("log output = %q", buf.String())
	}
}
