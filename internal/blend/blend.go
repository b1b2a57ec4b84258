// Package blend implements the layer blend modes and the compositing of a
// layer into the accumulator canvas.
//
// All pixels are straight (non-premultiplied) RGBA8. A blend mode computes a
// blended color per channel from the source and destination colors; the
// result is then composited over the destination with the source alpha
// (already scaled by opacity and clip coverage).
package blend

import "fmt"

// Mode is a closed enumeration of the supported blend modes.
type Mode uint8

const (
	// Normal is straight alpha-over. It is also the fallback for every
	// document blend id without a defined mapping.
	Normal Mode = iota
	// Multiply darkens: S*D.
	Multiply
	// Screen lightens: 1 - (1-S)*(1-D).
	Screen
	// Overlay multiplies dark destination areas and screens light ones.
	Overlay
)

// Blend ids as stored in the document.
const (
	IDNormal   uint32 = 0
	IDMultiply uint32 = 1
	IDScreen   uint32 = 2
	IDOverlay  uint32 = 11
)

// ModeFromID maps a document blend id to a Mode. Ids with no defined
// mapping (including 0) resolve to Normal.
func ModeFromID(id uint32) Mode {
	switch id {
	case IDMultiply:
		return Multiply
	case IDScreen:
		return Screen
	case IDOverlay:
		return Overlay
	default:
		return Normal
	}
}

// String returns the name of the blend mode.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "Normal"
	case Multiply:
		return "Multiply"
	case Screen:
		return "Screen"
	case Overlay:
		return "Overlay"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ChannelFunc computes the blended value of one 8-bit channel from the
// source and destination values.
type ChannelFunc func(s, d byte) byte

// Func returns the channel function for the mode. Unknown modes behave
// as Normal.
func (m Mode) Func() ChannelFunc {
	switch m {
	case Multiply:
		return multiply
	case Screen:
		return screen
	case Overlay:
		return overlay
	default:
		return normal
	}
}

// normal keeps the source color.
func normal(s, _ byte) byte {
	return s
}

// multiply computes s*d/255.
func multiply(s, d byte) byte {
	return mulDiv255(s, d)
}

// screen computes 255 - (255-s)*(255-d)/255.
func screen(s, d byte) byte {
	return 255 - mulDiv255(inv255(s), inv255(d))
}

// overlay computes 2*s*d/255 for dark destinations (d < 128) and
// 255 - 2*(255-s)*(255-d)/255 otherwise.
func overlay(s, d byte) byte {
	if d < 128 {
		return byte(div255(2 * uint32(s) * uint32(d)))
	}
	return byte(255 - div255(2*uint32(inv255(s))*uint32(inv255(d))))
}

// Pixel blends one source pixel into one destination pixel. sa must already
// include opacity and clip coverage.
func Pixel(fn ChannelFunc, sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	return over(fn(sr, dr), fn(sg, dg), fn(sb, db), sa, dr, dg, db, da)
}
