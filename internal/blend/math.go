package blend

import "math"

// Integer helpers for 8-bit alpha blending. All of them are exact.

// div255 returns x / 255, truncated, for any x. The ((x+1) + ((x+1)>>8)) >> 8
// shortcut is only exact up to 65535 and overlay goes to 2*255*255.
func div255(x uint32) uint32 {
	return x / 255
}

// mulDiv255 multiplies two bytes and divides by 255, truncating.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint32(a) * uint32(b)))
}

// inv255 computes 255 - x (inverse alpha).
func inv255(x byte) byte {
	return 255 - x
}

// scaleAlpha multiplies an 8-bit alpha by a [0, 1] factor, rounding to
// nearest. Factors outside the range are clamped and NaN counts as 0.
func scaleAlpha(a byte, factor float64) byte {
	switch {
	case math.IsNaN(factor), factor <= 0:
		return 0
	case factor >= 1:
		return a
	}
	return byte(float64(a)*factor + 0.5)
}

// over composites a straight-alpha source color over a straight-alpha
// destination (Porter-Duff source-over) and returns straight alpha.
//
//	outA = Sa + Da*(1-Sa)
//	outC = (Sc*Sa + Dc*Da*(1-Sa)) / outA
func over(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte) {
	switch {
	case sa == 0:
		return dr, dg, db, da
	case sa == 255 || da == 0:
		return sr, sg, sb, sa
	}

	// Weights are scaled by 255 so the whole computation stays integral.
	ws := uint32(sa) * 255
	wd := uint32(da) * uint32(inv255(sa))
	total := ws + wd

	mix := func(s, d byte) byte {
		return byte((uint32(s)*ws + uint32(d)*wd + total/2) / total)
	}
	return mix(sr, dr), mix(sg, dg), mix(sb, db), byte((total + 127) / 255)
}
