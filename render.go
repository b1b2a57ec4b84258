package procreate

import (
	"fmt"
	stdimage "image"
	"time"

	"github.com/gogpu/procreate/internal/blend"
	"github.com/gogpu/procreate/internal/image"
)

// Render flattens the document tree into one canvas-sized image.
//
// Children of a group are drawn from the last stored child to the first,
// so index 0 ends up on top. Hidden layers and groups are skipped. A
// clipped layer is restricted to the alpha of the most recent unclipped
// layer drawn before it in the same group; with no such layer it is drawn
// unclipped. Every visible layer must have been assembled.
//
// Render does not modify doc and produces identical output on every call.
func Render(doc *Document) (*stdimage.NRGBA, error) {
	start := time.Now()
	acc, err := image.NewImageBuf(int(doc.Size.Width), int(doc.Size.Height))
	if err != nil {
		return nil, fmt.Errorf("procreate: %w", err)
	}
	if err := renderGroup(acc, doc.Root); err != nil {
		return nil, err
	}
	Logger().Info("procreate: render finished", "size", doc.Size.String(), "elapsed", time.Since(start))
	return acc.NRGBA(), nil
}

// renderGroup draws the children of g into acc. The clip slot belongs to
// this group's iteration only.
func renderGroup(acc *image.ImageBuf, g *Group) error {
	log := Logger()
	var clip *blend.Clip

	for i := len(g.Children) - 1; i >= 0; i-- {
		switch n := g.Children[i].(type) {
		case *Group:
			if n.Hidden {
				log.Debug("procreate: hidden group skipped", "group", n.Name)
				continue
			}
			if err := renderGroup(acc, n); err != nil {
				return err
			}

		case *Layer:
			if n.Hidden {
				log.Debug("procreate: hidden layer skipped", "layer", n.Label())
				continue
			}
			if n.image == nil {
				return fmt.Errorf("%w: %s (%s)", ErrImageMissing, n.Label(), n.UUID)
			}

			p := blend.Params{Mode: n.Mode(), Opacity: float64(n.Opacity)}
			if n.Clipped {
				p.Clip = clip
			}
			blend.Composite(acc, n.image, p)

			if !n.Clipped {
				clip = &blend.Clip{Mask: n.image, Opacity: float64(n.Opacity)}
			}
			log.Debug("procreate: layer drawn", "layer", n.Label(), "blend", p.Mode.String(), "clipped", p.Clip != nil)
		}
	}
	return nil
}
