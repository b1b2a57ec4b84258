// Package image provides the RGBA8 pixel buffers used for layers, tiles and
// the compositing accumulator.
//
// Buffers hold straight (non-premultiplied) alpha, four bytes per pixel in
// R, G, B, A order, rows stored top to bottom. This is the layout of the
// decompressed tile data, so tiles can be pasted without conversion.
package image

import (
	"errors"
	"image"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is negative.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrDataSize is returned when raw pixel data does not match the
	// requested dimensions exactly.
	ErrDataSize = errors.New("image: data size does not match dimensions")
)

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// ImageBuf is a contiguous RGBA8 pixel buffer.
//
// Thread safety: ImageBuf is safe for concurrent read access. Writes require
// external synchronization; the tile assembler gives every layer its own
// buffer so no two goroutines ever write the same ImageBuf.
type ImageBuf struct {
	data   []byte
	width  int
	height int
}

// NewImageBuf creates a fully transparent buffer of the given size.
// Zero-sized buffers are valid and hold no pixels.
func NewImageBuf(width, height int) (*ImageBuf, error) {
	if width < 0 || height < 0 {
		return nil, ErrInvalidDimensions
	}
	return &ImageBuf{
		data:   make([]byte, width*height*BytesPerPixel),
		width:  width,
		height: height,
	}, nil
}

// FromRaw wraps existing pixel data without copying.
// The data length must be exactly width*height*4.
func FromRaw(data []byte, width, height int) (*ImageBuf, error) {
	if width < 0 || height < 0 {
		return nil, ErrInvalidDimensions
	}
	if len(data) != width*height*BytesPerPixel {
		return nil, ErrDataSize
	}
	return &ImageBuf{data: data, width: width, height: height}, nil
}

// Width returns the buffer width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row.
func (b *ImageBuf) Stride() int {
	return b.width * BytesPerPixel
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.Stride() + x*BytesPerPixel
}

// GetRGBA returns the pixel at (x, y), or zero if out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[off : off+BytesPerPixel : off+BytesPerPixel]
	return p[0], p[1], p[2], p[3]
}

// SetRGBA sets the pixel at (x, y). Out-of-bounds writes are ignored.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return
	}
	b.data[off] = r
	b.data[off+1] = g
	b.data[off+2] = bl
	b.data[off+3] = a
}

// Fill sets all pixels to the given color.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	for i := 0; i < len(b.data); i += BytesPerPixel {
		b.data[i] = r
		b.data[i+1] = g
		b.data[i+2] = bl
		b.data[i+3] = a
	}
}

// NRGBA returns a standard library view of the buffer. The view shares
// pixel memory with b.
func (b *ImageBuf) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.data,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}
