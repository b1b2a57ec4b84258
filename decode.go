package procreate

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gogpu/procreate/internal/tile"
	"github.com/gogpu/procreate/nsarchive"
)

// Class names of the polymorphic tree records.
const (
	classLayer = "SilicaLayer"
	classGroup = "SilicaGroup"
)

// decodeNode dispatches a tree record on its class name. It is assigned in
// init because the group decoder refers back to it.
var decodeNode nsarchive.Func[Node]

func init() {
	decodeNode = nsarchive.Polymorphic(map[string]nsarchive.Func[Node]{
		classLayer: nsarchive.RecordFunc(func(o *nsarchive.Object) (Node, error) {
			return decodeLayer(o)
		}),
		classGroup: nsarchive.RecordFunc(func(o *nsarchive.Object) (Node, error) {
			return decodeGroup(o)
		}),
	})
}

// Decode builds the document tree from the bytes of a Document.archive
// entry. Layers are not assembled: their images are nil.
func Decode(data []byte) (*Document, error) {
	arc, err := nsarchive.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("procreate: %w", err)
	}
	root, err := nsarchive.Get(arc.Top(), "root", nsarchive.Record)
	if err != nil {
		return nil, fmt.Errorf("procreate: %w", err)
	}
	doc, err := decodeDocument(root)
	if err != nil {
		return nil, fmt.Errorf("procreate: %w", err)
	}
	return doc, nil
}

// fields decodes record fields with a sticky first error.
type fields struct {
	o   *nsarchive.Object
	err error
}

func field[T any](f *fields, key string, fn nsarchive.Func[T]) T {
	var zero T
	if f.err != nil {
		return zero
	}
	v, err := nsarchive.Get(f.o, key, fn)
	if err != nil {
		f.err = err
	}
	return v
}

func optional[T any](f *fields, key string, fn nsarchive.Func[T]) T {
	var zero T
	if f.err != nil {
		return zero
	}
	v, _, err := nsarchive.Optional(f.o, key, fn)
	if err != nil {
		f.err = err
	}
	return v
}

// sizeString decodes a CGSize string into whole pixel dimensions.
var sizeString = nsarchive.Map(nsarchive.SizeString, func(s nsarchive.Size) (Size, error) {
	w, okW := pixels(s.Width)
	h, okH := pixels(s.Height)
	if !okW || !okH {
		return Size{}, &nsarchive.TypeMismatchError{
			Want: "integral size",
			Got:  fmt.Sprintf("{%s, %s}", fmtFloat(s.Width), fmtFloat(s.Height)),
		}
	}
	return Size{Width: w, Height: h}, nil
})

func pixels(f float64) (uint32, bool) {
	if f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, false
	}
	return uint32(f), true
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func decodeDocument(root *nsarchive.Object) (*Document, error) {
	f := &fields{o: root}
	doc := &Document{
		Size:        field(f, "size", sizeString),
		AuthorName:  optional(f, "authorName", nsarchive.String),
		Name:        optional(f, "name", nsarchive.String),
		Orientation: optional(f, "orientation", nsarchive.Uint32),
		DPI:         optional(f, "SilicaDocumentArchiveDPIKey", nsarchive.Float64),
		StrokeCount: optional(f, "strokeCount", nsarchive.Uint64),
	}
	tileSize := field(f, "tileSize", nsarchive.Uint32)
	doc.Composite = field(f, "composite", nsarchive.RecordFunc(decodeLayer))
	children := field(f, "unwrappedLayers", nsarchive.Array(decodeNode))
	if f.err != nil {
		return nil, f.err
	}

	grid, err := tile.NewGrid(tile.Size{Width: doc.Size.Width, Height: doc.Size.Height}, tileSize)
	if err != nil {
		return nil, fmt.Errorf("tileSize: %w", err)
	}
	doc.Tiling = grid
	doc.Root = &Group{Name: RootName, Children: children}

	if err := checkUUIDs(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeLayer(o *nsarchive.Object) (*Layer, error) {
	f := &fields{o: o}
	l := &Layer{
		Blend:   field(f, "blend", nsarchive.Uint32),
		Clipped: field(f, "clipped", nsarchive.Bool),
		Hidden:  field(f, "hidden", nsarchive.Bool),
		Name:    optional(f, "name", nsarchive.String),
		Opacity: field(f, "opacity", nsarchive.Float32),
		UUID:    field(f, "UUID", nsarchive.String),
		Version: field(f, "version", nsarchive.Uint64),
		Size: Size{
			Width:  field(f, "sizeWidth", nsarchive.Uint32),
			Height: field(f, "sizeHeight", nsarchive.Uint32),
		},
	}
	if f.err != nil {
		return nil, f.err
	}
	return l, nil
}

func decodeGroup(o *nsarchive.Object) (*Group, error) {
	f := &fields{o: o}
	g := &Group{
		Hidden:   field(f, "isHidden", nsarchive.Bool),
		Name:     field(f, "name", nsarchive.String),
		Children: field(f, "children", nsarchive.Array(decodeNode)),
	}
	if f.err != nil {
		return nil, f.err
	}
	return g, nil
}

func checkUUIDs(doc *Document) error {
	seen := map[string]bool{doc.Composite.UUID: true}
	return Walk(doc.Root, func(n Node) error {
		l, ok := n.(*Layer)
		if !ok {
			return nil
		}
		if seen[l.UUID] {
			return fmt.Errorf("%w: %q", ErrDuplicateUUID, l.UUID)
		}
		seen[l.UUID] = true
		return nil
	})
}
