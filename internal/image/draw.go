package image

// Rect represents a rectangular region in pixel coordinates.
type Rect struct {
	X, Y          int // Top-left corner
	Width, Height int // Dimensions
}

// Empty reports whether the rectangle contains no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the largest rectangle contained in both r and s.
func (r Rect) Intersect(s Rect) Rect {
	x0, y0 := max(r.X, s.X), max(r.Y, s.Y)
	x1, y1 := min(r.X+r.Width, s.X+s.Width), min(r.Y+r.Height, s.Y+s.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Rect returns the bounds of the buffer as a Rect at the origin.
func (b *ImageBuf) Rect() Rect {
	return Rect{Width: b.width, Height: b.height}
}

// Replace copies src into dst with its top-left corner at (x, y).
//
// Pixels are copied, not blended: whatever dst held under src is
// overwritten, including with transparent pixels. Parts of src falling
// outside dst are discarded. Returns the destination region written.
func Replace(dst, src *ImageBuf, x, y int) Rect {
	area := dst.Rect().Intersect(Rect{X: x, Y: y, Width: src.width, Height: src.height})
	if area.Empty() {
		return area
	}

	rowBytes := area.Width * BytesPerPixel
	srcX := (area.X - x) * BytesPerPixel
	for row := range area.Height {
		dy := area.Y + row
		sy := dy - y
		d := dst.data[dst.PixelOffset(area.X, dy):]
		s := src.data[sy*src.Stride()+srcX:]
		copy(d[:rowBytes], s[:rowBytes])
	}
	return area
}
