// Command procreate converts a .procreate document into a flattened image.
//
// Usage:
//
//	procreate [flags] <file.procreate>
//
// The document is rendered to --output (final.png by default). The
// composite the application stored in the file can be written next to it
// with --reference, and every layer can be exported separately with
// --layers. With --tree the layer tree is printed as YAML and nothing is
// rendered.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/procreate"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		flags      Config
		configPath string
		tree       bool
		showHelp   bool
	)

	flagSet := pflag.NewFlagSet("procreate", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&flags.Output, "output", "o", "final.png", "path of the rendered image")
	flagSet.StringVarP(&flags.Reference, "reference", "r", "", "also write the stored composite to this path")
	flagSet.StringVar(&flags.LayersDir, "layers", "", "export every layer into this directory")
	flagSet.StringVar(&flags.Format, "format", "png", "image format of exported layers")
	flagSet.IntVarP(&flags.Workers, "workers", "j", 0, "layers assembled in parallel (0 = GOMAXPROCS)")
	flagSet.StringVar(&flags.TilePolicy, "tile-policy", "abort", "on a bad tile: abort or transparent")
	flagSet.StringVar(&flags.Log.Level, "log-level", "warn", "debug, info, warn or error")
	flagSet.StringVar(&flags.Log.Format, "log-format", "text", "text or json")
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file")
	flagSet.BoolVar(&tree, "tree", false, "print the layer tree as YAML and exit")
	flagSet.BoolVarP(&showHelp, "help", "h", false, "show this help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if showHelp {
		printHelp(stderr, flagSet)
		return nil
	}
	if flagSet.NArg() != 1 {
		printHelp(stderr, flagSet)
		return fmt.Errorf("expected one .procreate file, got %d arguments", flagSet.NArg())
	}
	input := flagSet.Arg(0)

	cfg := DefaultConfig()
	if configPath != "" {
		if err := LoadConfig(configPath, cfg); err != nil {
			return err
		}
	}
	override(cfg, &flags, flagSet)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Log.Logger(stderr)
	if err != nil {
		return err
	}
	procreate.SetLogger(logger)
	defer procreate.SetLogger(nil)

	if tree {
		return printTree(stdout, input)
	}
	return convert(cfg, input)
}

// override copies every flag the user set explicitly into cfg.
func override(cfg, flags *Config, flagSet *pflag.FlagSet) {
	set := map[string]func(){
		"output":      func() { cfg.Output = flags.Output },
		"reference":   func() { cfg.Reference = flags.Reference },
		"layers":      func() { cfg.LayersDir = flags.LayersDir },
		"format":      func() { cfg.Format = flags.Format },
		"workers":     func() { cfg.Workers = flags.Workers },
		"tile-policy": func() { cfg.TilePolicy = flags.TilePolicy },
		"log-level":   func() { cfg.Log.Level = flags.Log.Level },
		"log-format":  func() { cfg.Log.Format = flags.Log.Format },
	}
	for name, apply := range set {
		if flagSet.Changed(name) {
			apply()
		}
	}
}

func printTree(w io.Writer, input string) error {
	c, err := procreate.OpenContainer(input)
	if err != nil {
		return err
	}
	defer c.Close()

	doc, err := c.Document()
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc.Outline()); err != nil {
		return err
	}
	return enc.Close()
}

// convert renders input and writes the requested outputs. Every output is
// encoded in memory before the first file is written, and a failed write
// removes the files written before it.
func convert(cfg *Config, input string) error {
	policy, err := procreate.ParseTilePolicy(cfg.TilePolicy)
	if err != nil {
		return err
	}

	doc, err := procreate.Open(input,
		procreate.WithWorkers(cfg.Workers),
		procreate.WithTilePolicy(policy),
	)
	if err != nil {
		return err
	}

	img, err := procreate.Render(doc)
	if err != nil {
		return err
	}

	out, err := procreate.Encode(cfg.Output, img)
	if err != nil {
		return err
	}
	files := []procreate.File{out}

	if cfg.Reference != "" {
		ref, err := procreate.Encode(cfg.Reference, doc.Composite.Image())
		if err != nil {
			return err
		}
		files = append(files, ref)
	}
	if cfg.LayersDir != "" {
		layers, err := procreate.EncodeLayers(doc, cfg.LayersDir, cfg.Format)
		if err != nil {
			return err
		}
		files = append(files, layers...)
	}

	return procreate.WriteFiles(files)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `procreate - flatten a .procreate document into an image

Usage:
  procreate [flags] <file.procreate>

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
	flagSet.SetOutput(io.Discard)
}
