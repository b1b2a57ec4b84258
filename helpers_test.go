package procreate

import (
	"bytes"
	stdimage "image"
	"testing"

	"github.com/gogpu/procreate/internal/testutil"
)

var (
	red         = [4]byte{255, 0, 0, 255}
	green       = [4]byte{0, 255, 0, 255}
	blue        = [4]byte{0, 0, 255, 255}
	transparent = [4]byte{}
)

func solid(uuid string, c [4]byte) testutil.Layer {
	return testutil.Layer{UUID: uuid, Name: uuid, Opacity: 1, Color: c}
}

// newDoc returns an 8x6 document with 4px tiles, so the last tile row is
// cut to 2px. The composite uuid shares no prefix with the short layer
// uuids used by the tests.
func newDoc(layers ...any) *testutil.Document {
	return &testutil.Document{
		Width:     8,
		Height:    6,
		TileSize:  4,
		Composite: testutil.Layer{UUID: "ZZ-composite", Opacity: 1, Color: [4]byte{10, 20, 30, 255}},
		Layers:    layers,
	}
}

func load(t *testing.T, d *testutil.Document, opts ...Option) *Document {
	t.Helper()
	data := d.Zip(t)
	doc, err := OpenReader(bytes.NewReader(data), int64(len(data)), opts...)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	return doc
}

func render(t *testing.T, d *testutil.Document) *stdimage.NRGBA {
	t.Helper()
	img, err := Render(load(t, d))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return img
}

func at(img *stdimage.NRGBA, x, y int) [4]byte {
	c := img.NRGBAAt(x, y)
	return [4]byte{c.R, c.G, c.B, c.A}
}

func samePixels(a, b *stdimage.NRGBA) bool {
	return a.Rect == b.Rect && bytes.Equal(a.Pix, b.Pix)
}
