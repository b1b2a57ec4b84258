package blend

import (
	"github.com/gogpu/procreate/internal/image"
)

// Clip restricts a layer's coverage to the alpha footprint of another
// layer, scaled by that layer's opacity.
type Clip struct {
	Mask    *image.ImageBuf
	Opacity float64
}

// Params controls how one layer is composited into the accumulator.
type Params struct {
	Mode    Mode
	Opacity float64 // [0, 1], scales source alpha
	Clip    *Clip   // nil when the layer is not clipped
}

// Composite blends src into dst. Both buffers are anchored at the origin;
// only their intersection is touched. Pixels of src outside the clip
// mask's bounds have zero coverage.
//
// Thread safety: Composite writes dst and must not run concurrently with
// any other access to dst.
func Composite(dst, src *image.ImageBuf, p Params) {
	area := dst.Rect().Intersect(src.Rect())
	if area.Empty() {
		return
	}

	fn := p.Mode.Func()
	dstData := dst.Data()
	srcData := src.Data()

	for y := range area.Height {
		for x := range area.Width {
			so := src.PixelOffset(x, y)
			sa := scaleAlpha(srcData[so+3], p.Opacity)
			if p.Clip != nil {
				_, _, _, ma := p.Clip.Mask.GetRGBA(x, y)
				sa = mulDiv255(sa, scaleAlpha(ma, p.Clip.Opacity))
			}
			if sa == 0 {
				continue
			}

			do := dst.PixelOffset(x, y)
			dstData[do], dstData[do+1], dstData[do+2], dstData[do+3] = Pixel(fn,
				srcData[so], srcData[so+1], srcData[so+2], sa,
				dstData[do], dstData[do+1], dstData[do+2], dstData[do+3])
		}
	}
}
