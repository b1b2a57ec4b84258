// Package procreate reads Procreate .procreate documents and flattens their
// layer tree into a single image.
//
// # Overview
//
// A .procreate file is a zip container holding Document.archive, a keyed
// archive describing the layer tree, and one compressed RGBA tile entry per
// populated grid cell of every layer. Loading happens in strict stages:
//
//  1. decode the archive into a Document (see [Decode])
//  2. assemble each layer's pixels from its tiles
//  3. composite the tree into one canvas (see [Render])
//
// # Quick Start
//
//	doc, err := procreate.Open("art.procreate")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	img, err := procreate.Render(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = procreate.Save("final.png", img)
//
// # Compositing
//
// Children of a group are drawn bottom-up: the last stored child first,
// index 0 last. Blend ids 1, 2 and 11 select multiply, screen and overlay;
// every other id is normal alpha-over. A clipped layer only shows where the
// nearest unclipped layer below it in the same group has alpha.
//
// # Tiles
//
// Tiles are square, TileSize pixels wide, except in the last column and
// row where they are cut to the canvas edge. Entries ending in .chunk are
// LZO1X compressed; .lz4 and .raw are also understood and further codecs
// can be added with [WithCodec]. Tile failures abort the load unless
// [TileTransparent] is selected.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package procreate
