// Package tile implements the tiling arithmetic, tile entry naming and block
// codecs of layer raster data.
//
// A layer image is cut into square tiles of TileSize pixels laid out on a
// grid of Columns x Rows. The canvas size is usually not a multiple of the
// tile size, so tiles in the last column and last row are narrower and
// shorter by EdgeDiff.
package tile

import (
	"errors"
	"fmt"
)

// ErrInvalidTileSize is returned when the tile size is zero.
var ErrInvalidTileSize = errors.New("tile: tile size must be positive")

// Size is a width and height in pixels.
type Size struct {
	Width  uint32
	Height uint32
}

// Grid is the tiling metadata of a document. It is derived once from the
// canvas size and the tile size and shared by every layer.
type Grid struct {
	Columns  uint32
	Rows     uint32
	TileSize uint32
	// EdgeDiff is how much the last column and last row fall short of a
	// full tile. Both components are in [0, TileSize).
	EdgeDiff Size
}

// NewGrid computes the grid covering a canvas.
//
//	columns  = ceil(width / tileSize)
//	rows     = ceil(height / tileSize)
//	edgeDiff = (columns*tileSize - width, rows*tileSize - height)
func NewGrid(canvas Size, tileSize uint32) (Grid, error) {
	if tileSize == 0 {
		return Grid{}, ErrInvalidTileSize
	}
	columns := ceilDiv(canvas.Width, tileSize)
	rows := ceilDiv(canvas.Height, tileSize)
	return Grid{
		Columns:  columns,
		Rows:     rows,
		TileSize: tileSize,
		EdgeDiff: Size{
			Width:  columns*tileSize - canvas.Width,
			Height: rows*tileSize - canvas.Height,
		},
	}, nil
}

func ceilDiv(n, d uint32) uint32 {
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}

// Contains reports whether (col, row) is a cell of the grid.
func (g Grid) Contains(col, row uint32) bool {
	return col < g.Columns && row < g.Rows
}

// TileWidth returns the pixel width of tiles in column col: the full tile
// size except in the last column.
func (g Grid) TileWidth(col uint32) uint32 {
	if col == g.Columns-1 {
		return g.TileSize - g.EdgeDiff.Width
	}
	return g.TileSize
}

// TileHeight returns the pixel height of tiles in row row: the full tile
// size except in the last row.
func (g Grid) TileHeight(row uint32) uint32 {
	if row == g.Rows-1 {
		return g.TileSize - g.EdgeDiff.Height
	}
	return g.TileSize
}

// TileBytes returns the decompressed size of tile (col, row) in RGBA8.
func (g Grid) TileBytes(col, row uint32) int {
	return int(g.TileWidth(col)) * int(g.TileHeight(row)) * 4
}

// Origin returns the pixel offset of tile (col, row) inside a layer.
func (g Grid) Origin(col, row uint32) (x, y int) {
	return int(col) * int(g.TileSize), int(row) * int(g.TileSize)
}

// String implements fmt.Stringer.
func (g Grid) String() string {
	return fmt.Sprintf("%dx%d tiles of %dpx (edge -%d,-%d)",
		g.Columns, g.Rows, g.TileSize, g.EdgeDiff.Width, g.EdgeDiff.Height)
}
