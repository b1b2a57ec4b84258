package procreate

// OutlineNode is a plain description of one tree node, suitable for
// printing or serializing. BlendID and Opacity are nil for groups only, so
// an opacity of 0 or an unmapped blend id still shows for layers.
type OutlineNode struct {
	Name     string        `yaml:"name" json:"name"`
	Kind     string        `yaml:"kind" json:"kind"`
	UUID     string        `yaml:"uuid,omitempty" json:"uuid,omitempty"`
	Blend    string        `yaml:"blend,omitempty" json:"blend,omitempty"`
	BlendID  *uint32       `yaml:"blend_id,omitempty" json:"blend_id,omitempty"`
	Opacity  *float64      `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	Hidden   bool          `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Clipped  bool          `yaml:"clipped,omitempty" json:"clipped,omitempty"`
	Size     string        `yaml:"size,omitempty" json:"size,omitempty"`
	Children []OutlineNode `yaml:"children,omitempty" json:"children,omitempty"`
}

// Outline describes a document: metadata plus the layer tree.
type Outline struct {
	Name   string        `yaml:"name,omitempty" json:"name,omitempty"`
	Author string        `yaml:"author,omitempty" json:"author,omitempty"`
	Size   string        `yaml:"size" json:"size"`
	Tiling string        `yaml:"tiling" json:"tiling"`
	Layers []OutlineNode `yaml:"layers" json:"layers"`
}

// Outline returns the document tree in stored order without pixel data.
func (d *Document) Outline() Outline {
	return Outline{
		Name:   d.Name,
		Author: d.AuthorName,
		Size:   d.Size.String(),
		Tiling: d.Tiling.String(),
		Layers: outlineChildren(d.Root.Children),
	}
}

func outlineChildren(nodes []Node) []OutlineNode {
	out := make([]OutlineNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, outlineNode(n))
	}
	return out
}

func outlineNode(n Node) OutlineNode {
	switch n := n.(type) {
	case *Group:
		return OutlineNode{
			Name:     n.Name,
			Kind:     "group",
			Hidden:   n.Hidden,
			Children: outlineChildren(n.Children),
		}
	case *Layer:
		blendID := n.Blend
		opacity := float64(n.Opacity)
		return OutlineNode{
			Name:    n.Label(),
			Kind:    "layer",
			UUID:    n.UUID,
			Blend:   n.Mode().String(),
			BlendID: &blendID,
			Opacity: &opacity,
			Hidden:  n.Hidden,
			Clipped: n.Clipped,
			Size:    n.Size.String(),
		}
	default:
		return OutlineNode{Name: n.Label()}
	}
}
