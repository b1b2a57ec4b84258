package testutil

import (
	"fmt"
	"testing"

	"github.com/pierrec/lz4/v4"
	"howett.net/plist"
)

// Layer describes a SilicaLayer fixture and its tile data.
type Layer struct {
	UUID    string
	Name    string // omitted from the record when empty
	Blend   uint32
	Opacity float64
	Hidden  bool
	Clipped bool
	Version uint64

	// Width and Height default to the document size.
	Width, Height uint32

	// Color fills the layer unless Pixels is set.
	Color  [4]byte
	Pixels func(x, y int) [4]byte

	// Ext is the tile entry extension, "chunk" by default. "chunk" tiles
	// are LZO1X, "lz4" tiles are LZ4 blocks, "raw" tiles are stored as is.
	Ext string
	// NoTiles leaves the layer without tile entries.
	NoTiles bool

	// Omit lists record keys to drop.
	Omit []string
}

// Group describes a SilicaGroup fixture. Children holds Layer and Group
// values in stored order.
type Group struct {
	Name     string
	Hidden   bool
	Children []any

	// Omit lists record keys to drop.
	Omit []string
}

// Document describes a whole .procreate container.
type Document struct {
	Width, Height uint32
	TileSize      uint32
	AuthorName    string // omitted when empty
	Name          string // omitted when empty

	Composite Layer
	Layers    []any

	// Omit lists root keys to drop; Extra adds or replaces root keys.
	Omit  []string
	Extra map[string]any
	// Entries are appended to the container after the generated ones.
	Entries []Entry
}

// Archive returns the Document.archive bytes.
func (d *Document) Archive(tb testing.TB) []byte {
	tb.Helper()
	a := NewArchive()

	fields := map[string]any{
		"size":            a.String(fmt.Sprintf("{%d, %d}", d.Width, d.Height)),
		"tileSize":        int(d.TileSize),
		"composite":       d.layerRecord(a, d.Composite),
		"unwrappedLayers": d.children(tb, a, d.Layers),
	}
	if d.AuthorName != "" {
		fields["authorName"] = a.String(d.AuthorName)
	}
	if d.Name != "" {
		fields["name"] = a.String(d.Name)
	}
	for k, v := range d.Extra {
		fields[k] = v
	}
	for _, k := range d.Omit {
		delete(fields, k)
	}

	root := a.Object("SilicaDocument", fields)
	return a.MustMarshal(tb, map[string]any{"root": root})
}

func (d *Document) children(tb testing.TB, a *Archive, nodes []any) plist.UID {
	tb.Helper()
	uids := make([]plist.UID, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case Layer:
			uids = append(uids, d.layerRecord(a, n))
		case Group:
			fields := map[string]any{
				"isHidden": n.Hidden,
				"name":     a.String(n.Name),
				"children": d.children(tb, a, n.Children),
			}
			for _, k := range n.Omit {
				delete(fields, k)
			}
			uids = append(uids, a.Object("SilicaGroup", fields))
		default:
			tb.Fatalf("testutil: unsupported node %T", n)
		}
	}
	return a.Array(uids...)
}

func (d *Document) layerRecord(a *Archive, l Layer) plist.UID {
	w, h := d.layerSize(l)
	fields := map[string]any{
		"blend":      int(l.Blend),
		"clipped":    l.Clipped,
		"hidden":     l.Hidden,
		"opacity":    l.Opacity,
		"UUID":       a.String(l.UUID),
		"version":    int(l.Version),
		"sizeWidth":  int(w),
		"sizeHeight": int(h),
	}
	if l.Name != "" {
		fields["name"] = a.String(l.Name)
	}
	for _, k := range l.Omit {
		delete(fields, k)
	}
	return a.Object("SilicaLayer", fields)
}

func (d *Document) layerSize(l Layer) (w, h uint32) {
	w, h = l.Width, l.Height
	if w == 0 {
		w = d.Width
	}
	if h == 0 {
		h = d.Height
	}
	return w, h
}

// ContainerEntries returns every container entry: Document.archive first,
// then the tiles of every layer (composite included), then d.Entries.
func (d *Document) ContainerEntries(tb testing.TB) []Entry {
	tb.Helper()
	entries := []Entry{{Name: "Document.archive", Data: d.Archive(tb)}}
	entries = append(entries, d.tiles(tb, d.Composite)...)
	d.walk(d.Layers, func(l Layer) {
		entries = append(entries, d.tiles(tb, l)...)
	})
	return append(entries, d.Entries...)
}

func (d *Document) walk(nodes []any, fn func(Layer)) {
	for _, n := range nodes {
		switch n := n.(type) {
		case Layer:
			fn(n)
		case Group:
			d.walk(n.Children, fn)
		}
	}
}

// Zip returns the container as zip bytes.
func (d *Document) Zip(tb testing.TB) []byte {
	tb.Helper()
	return Zip(tb, d.ContainerEntries(tb)...)
}

// WriteFile writes the container into a temporary directory and returns
// its path.
func (d *Document) WriteFile(tb testing.TB) string {
	tb.Helper()
	return WriteZip(tb, "fixture.procreate", d.ContainerEntries(tb)...)
}

// LayerPixel returns the pixel the fixture stores for l at (x, y).
func LayerPixel(l Layer, x, y int) [4]byte {
	if l.Pixels != nil {
		return l.Pixels(x, y)
	}
	return l.Color
}

func (d *Document) tiles(tb testing.TB, l Layer) []Entry {
	tb.Helper()
	if l.NoTiles || l.UUID == "" || d.TileSize == 0 {
		return nil
	}
	ts := d.TileSize
	cols := (d.Width + ts - 1) / ts
	rows := (d.Height + ts - 1) / ts
	lw, lh := d.layerSize(l)
	ext := l.Ext
	if ext == "" {
		ext = "chunk"
	}

	var out []Entry
	for row := range rows {
		for col := range cols {
			tw := min(ts, d.Width-col*ts)
			th := min(ts, d.Height-row*ts)
			raw := make([]byte, 0, tw*th*4)
			for y := range th {
				for x := range tw {
					px, py := col*ts+x, row*ts+y
					var p [4]byte
					if px < lw && py < lh {
						p = LayerPixel(l, int(px), int(py))
					}
					raw = append(raw, p[:]...)
				}
			}
			out = append(out, Entry{
				Name: fmt.Sprintf("%s%d~%d.%s", l.UUID, col, row, ext),
				Data: encodeTile(tb, ext, raw),
			})
		}
	}
	return out
}

func encodeTile(tb testing.TB, ext string, raw []byte) []byte {
	tb.Helper()
	switch ext {
	case "raw":
		return raw
	case "lz4":
		return LZ4Block(tb, raw)
	default:
		return LZOLiteral(raw)
	}
}

// LZ4Block compresses raw as a single LZ4 block.
func LZ4Block(tb testing.TB, raw []byte) []byte {
	tb.Helper()
	dst := make([]byte, lz4.CompressBlockBound(len(raw)))
	n, err := lz4.CompressBlock(raw, dst, nil)
	if err != nil {
		tb.Fatalf("lz4 compress: %v", err)
	}
	if n == 0 {
		tb.Fatalf("lz4 compress: %d bytes are incompressible", len(raw))
	}
	return dst[:n]
}
