package procreate

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/procreate/internal/image"
	"github.com/gogpu/procreate/internal/tile"
)

// assembleAll fills the image of the composite layer and of every layer in
// the tree, hidden ones included. Layers own disjoint buffers, so they are
// assembled concurrently; the first error cancels the remaining layers.
func assembleAll(doc *Document, c *Container, o options) error {
	layers := append([]*Layer{doc.Composite}, doc.Layers()...)
	names := c.Names()

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(o.workers)
	for _, l := range layers {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			return assembleLayer(l, doc.Tiling, c, names, o)
		})
	}
	return g.Wait()
}

// assembleLayer builds the full pixel buffer of l from its tile entries.
func assembleLayer(l *Layer, grid tile.Grid, c *Container, names []string, o options) error {
	buf, err := image.NewImageBuf(int(l.Size.Width), int(l.Size.Height))
	if err != nil {
		return fmt.Errorf("procreate: layer %s: %w", l.UUID, err)
	}

	log := Logger()
	placed := 0
	for _, name := range names {
		if !tile.HasPrefix(name, l.UUID) {
			continue
		}
		err := placeTile(buf, grid, c, name, l.UUID, o.codecs)
		if errors.Is(err, tile.ErrOutOfRange) {
			log.Debug("procreate: tile outside grid dropped", "layer", l.UUID, "entry", name)
			continue
		}
		if err != nil {
			terr := &TileError{Layer: l.UUID, Entry: name, Err: err}
			if o.policy == TileAbort {
				return terr
			}
			log.Warn("procreate: tile left transparent", "layer", l.UUID, "entry", name, "err", err)
			continue
		}
		placed++
	}

	l.image = buf
	log.Debug("procreate: layer assembled", "layer", l.Label(), "uuid", l.UUID, "tiles", placed)
	return nil
}

// placeTile decodes one tile entry and pastes it at its grid origin. A
// tile outside the grid would be clipped away entirely, so it is reported
// with tile.ErrOutOfRange before its data is read.
func placeTile(dst *image.ImageBuf, grid tile.Grid, c *Container, name, uuid string, codecs *tile.Registry) error {
	n, err := tile.ParseName(name, uuid)
	if err != nil {
		return err
	}
	if err := grid.Check(n); err != nil {
		return err
	}
	data, err := c.ReadFile(name)
	if err != nil {
		return err
	}
	px, err := codecs.Decompress(grid, n, data)
	if err != nil {
		return err
	}
	src, err := image.FromRaw(px, int(grid.TileWidth(n.Col)), int(grid.TileHeight(n.Row)))
	if err != nil {
		return err
	}
	x, y := grid.Origin(n.Col, n.Row)
	image.Replace(dst, src, x, y)
	return nil
}
