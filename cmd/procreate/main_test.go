package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/procreate/internal/testutil"
)

func fixture() *testutil.Document {
	return &testutil.Document{
		Width:      6,
		Height:     4,
		TileSize:   4,
		AuthorName: "tester",
		Composite:  testutil.Layer{UUID: "ZZ-composite", Color: [4]byte{1, 2, 3, 255}, Opacity: 1},
		Layers: []any{
			testutil.Layer{UUID: "A", Name: "Ink", Color: [4]byte{255, 0, 0, 255}, Opacity: 1},
			testutil.Group{Name: "Sketch", Children: []any{
				testutil.Layer{UUID: "B", Name: "Paper", Color: [4]byte{0, 0, 255, 255}, Opacity: 1},
			}},
		},
	}
}

func decodePNG(t *testing.T, path string) (w, h int, r, g, b, a uint32) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	r, g, b, a = img.At(0, 0).RGBA()
	return img.Bounds().Dx(), img.Bounds().Dy(), r >> 8, g >> 8, b >> 8, a >> 8
}

func TestRunRendersOutput(t *testing.T) {
	input := fixture().WriteFile(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "final.png")
	ref := filepath.Join(dir, "reference.png")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-o", out, "-r", ref, input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run() error = %v (stderr %q)", err, stderr.String())
	}

	w, h, r, g, b, a := decodePNG(t, out)
	if w != 6 || h != 4 {
		t.Errorf("output size = %dx%d, want 6x4", w, h)
	}
	if r != 255 || g != 0 || b != 0 || a != 255 {
		t.Errorf("output pixel = (%d, %d, %d, %d), want red", r, g, b, a)
	}

	_, _, r, g, b, _ = decodePNG(t, ref)
	if r != 1 || g != 2 || b != 3 {
		t.Errorf("reference pixel = (%d, %d, %d), want (1, 2, 3)", r, g, b)
	}
}

func TestRunExportsLayers(t *testing.T) {
	input := fixture().WriteFile(t)
	dir := t.TempDir()
	layers := filepath.Join(dir, "layers")

	err := run([]string{"-o", filepath.Join(dir, "out.png"), "--layers", layers, input}, &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for _, name := range []string{"001-ink.png", "002-paper.png"} {
		if _, err := os.Stat(filepath.Join(layers, name)); err != nil {
			t.Errorf("layer file %s: %v", name, err)
		}
	}
}

func TestRunTree(t *testing.T) {
	input := fixture().WriteFile(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "final.png")

	var stdout bytes.Buffer
	if err := run([]string{"--tree", "-o", out, input}, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	got := stdout.String()
	for _, want := range []string{"author: tester", "name: Ink", "name: Sketch", "name: Paper", "kind: group"} {
		if !strings.Contains(got, want) {
			t.Errorf("tree output missing %q:\n%s", want, got)
		}
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("--tree wrote %s", out)
	}
}

func TestRunFailureWritesNothing(t *testing.T) {
	d := fixture()
	d.Layers[0] = testutil.Layer{UUID: "A", Name: "Ink", Opacity: 1, NoTiles: true}
	d.Entries = []testutil.Entry{{Name: "A0~0.chunk", Data: []byte{0xff, 0xff}}}
	input := d.WriteFile(t)

	dir := t.TempDir()
	out := filepath.Join(dir, "final.png")
	ref := filepath.Join(dir, "reference.png")

	err := run([]string{"-o", out, "-r", ref, input}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("run() succeeded with a corrupt tile")
	}
	for _, p := range []string{out, ref} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s exists after failure", p)
		}
	}
}

func TestRunTransparentPolicy(t *testing.T) {
	d := fixture()
	d.Layers[0] = testutil.Layer{UUID: "A", Name: "Ink", Opacity: 1, NoTiles: true}
	d.Entries = []testutil.Entry{{Name: "A0~0.chunk", Data: []byte{0xff, 0xff}}}
	input := d.WriteFile(t)
	out := filepath.Join(t.TempDir(), "final.png")

	var stderr bytes.Buffer
	if err := run([]string{"--tile-policy", "transparent", "-o", out, input}, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(stderr.String(), "tile") {
		t.Errorf("expected a tile warning on stderr, got %q", stderr.String())
	}
	_, _, r, g, b, _ := decodePNG(t, out)
	if r != 0 || g != 0 || b != 255 {
		t.Errorf("pixel = (%d, %d, %d), want the blue layer below", r, g, b)
	}
}

func TestRunErrors(t *testing.T) {
	input := fixture().WriteFile(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{}},
		{"two inputs", []string{input, input}},
		{"unknown flag", []string{"--nope", input}},
		{"unsupported output", []string{"-o", filepath.Join(dir, "out.webp"), input}},
		{"unsupported reference", []string{"-r", filepath.Join(dir, "ref.gif"), input}},
		{"unsupported layer format", []string{"--layers", dir, "--format", "xcf", input}},
		{"bad tile policy", []string{"--tile-policy", "maybe", input}},
		{"bad log level", []string{"--log-level", "loud", input}},
		{"bad log format", []string{"--log-format", "xml", input}},
		{"negative workers", []string{"-j", "-1", input}},
		{"missing input", []string{filepath.Join(dir, "missing.procreate")}},
		{"missing config", []string{"--config", filepath.Join(dir, "missing.yaml"), input}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
				t.Error("run() succeeded, want error")
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	var stderr bytes.Buffer
	if err := run([]string{"--help"}, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatalf("run(--help) error = %v", err)
	}
	if !strings.Contains(stderr.String(), "--tile-policy") {
		t.Errorf("help output missing flags:\n%s", stderr.String())
	}
}

func TestRunUnwritableOutputWritesNothing(t *testing.T) {
	input := fixture().WriteFile(t)

	tests := []struct {
		name  string
		setup func(t *testing.T, dir string) (ref string)
	}{
		{
			// The parent of the reference is a regular file, so its
			// directory cannot be created.
			name: "reference under a file",
			setup: func(t *testing.T, dir string) string {
				blocker := filepath.Join(dir, "blocker")
				if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
					t.Fatal(err)
				}
				return filepath.Join(blocker, "reference.png")
			},
		},
		{
			// The reference path is an existing directory, so its write
			// fails after the output has been written.
			name: "reference is a directory",
			setup: func(t *testing.T, dir string) string {
				ref := filepath.Join(dir, "reference.png")
				if err := os.Mkdir(ref, 0o755); err != nil {
					t.Fatal(err)
				}
				return ref
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, "final.png")
			layers := filepath.Join(dir, "layers")
			ref := tt.setup(t, dir)

			err := run([]string{"-o", out, "-r", ref, "--layers", layers, input}, &bytes.Buffer{}, &bytes.Buffer{})
			if err == nil {
				t.Fatal("run() succeeded with an unwritable reference")
			}
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Errorf("%s exists after failure", out)
			}
			entries, _ := os.ReadDir(layers)
			if len(entries) != 0 {
				t.Errorf("layer files left after failure: %v", entries)
			}
		})
	}
}

func TestRunCreatesOutputDirectories(t *testing.T) {
	input := fixture().WriteFile(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "a", "final.png")
	ref := filepath.Join(dir, "b", "c", "reference.png")

	if err := run([]string{"-o", out, "-r", ref, input}, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, p := range []string{out, ref} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
}
