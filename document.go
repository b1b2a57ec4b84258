package procreate

import (
	"fmt"
	stdimage "image"

	"github.com/gogpu/procreate/internal/blend"
	"github.com/gogpu/procreate/internal/image"
	"github.com/gogpu/procreate/internal/tile"
)

// Size is a width and height in pixels.
type Size struct {
	Width  uint32
	Height uint32
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Tiling is the tile grid shared by every layer of a document.
type Tiling = tile.Grid

// BlendMode is the blend function a layer is composited with.
type BlendMode = blend.Mode

// Blend modes.
const (
	BlendNormal   = blend.Normal
	BlendMultiply = blend.Multiply
	BlendScreen   = blend.Screen
	BlendOverlay  = blend.Overlay
)

// Node is a Layer or a Group.
type Node interface {
	// Label returns the node's name, or a placeholder for unnamed layers.
	Label() string
	// IsHidden reports whether the node is skipped when rendering.
	IsHidden() bool

	node()
}

// Layer is a raster layer. Its pixels are filled in by tile assembly.
type Layer struct {
	Name    string // empty when the document stores no name
	UUID    string
	Blend   uint32 // raw blend id as stored
	Clipped bool
	Hidden  bool
	Opacity float32
	Version uint64
	Size    Size

	// Mask is decoded structurally but never populated.
	Mask *Layer

	image *image.ImageBuf
}

func (*Layer) node() {}

// Label returns the layer name, or the uuid when it has none.
func (l *Layer) Label() string {
	if l.Name != "" {
		return l.Name
	}
	return l.UUID
}

// IsHidden reports whether the layer is hidden.
func (l *Layer) IsHidden() bool { return l.Hidden }

// Mode returns the blend mode for the stored id.
func (l *Layer) Mode() BlendMode {
	return blend.ModeFromID(l.Blend)
}

// Assembled reports whether the layer's pixels have been loaded.
func (l *Layer) Assembled() bool {
	return l.image != nil
}

// Image returns the layer pixels as straight-alpha RGBA, or nil before
// assembly. The returned image shares memory with the layer.
func (l *Layer) Image() *stdimage.NRGBA {
	if l.image == nil {
		return nil
	}
	return l.image.NRGBA()
}

// Group is a folder of layers and groups. Children are in stored order:
// index 0 is the topmost.
type Group struct {
	Name     string
	Hidden   bool
	Children []Node
}

func (*Group) node() {}

// Label returns the group name.
func (g *Group) Label() string { return g.Name }

// IsHidden reports whether the group is hidden.
func (g *Group) IsHidden() bool { return g.Hidden }

// RootName is the name of the synthetic group wrapping a document's
// top-level nodes.
const RootName = "ROOT"

// Document is a decoded .procreate document.
type Document struct {
	// AuthorName is empty when the document does not record one.
	AuthorName string
	Size       Size
	Tiling     Tiling

	// Composite is the document thumbnail stored alongside the layers.
	Composite *Layer
	// Root wraps the top-level nodes; it is never hidden.
	Root *Group

	// Optional metadata, zero when absent.
	Name        string
	Orientation uint32
	DPI         float64
	StrokeCount uint64
}

// Layers returns every layer of the tree in stored depth-first order,
// hidden ones included. The composite layer is not part of the tree.
func (d *Document) Layers() []*Layer {
	var out []*Layer
	_ = Walk(d.Root, func(n Node) error {
		if l, ok := n.(*Layer); ok {
			out = append(out, l)
		}
		return nil
	})
	return out
}

// Walk visits n and its descendants depth-first in stored order. It stops
// at the first error fn returns.
func Walk(n Node, fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	g, ok := n.(*Group)
	if !ok {
		return nil
	}
	for _, c := range g.Children {
		if err := Walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}
