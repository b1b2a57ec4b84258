package testutil

// LZOLiteral encodes data as an LZO1X stream made of a single literal run
// followed by the end-of-stream marker. Any LZO1X decompressor yields data
// back unchanged.
func LZOLiteral(data []byte) []byte {
	n := len(data)
	out := make([]byte, 0, n+16)
	switch {
	case n == 0:
	case n <= 238:
		out = append(out, byte(17+n))
	default:
		// Long literal run: 0x00, then count = 255*zeros + last, with
		// count = n - 18 and last in [1, 255].
		count := n - 18
		zeros := (count - 1) / 255
		out = append(out, 0)
		for range zeros {
			out = append(out, 0)
		}
		out = append(out, byte(count-255*zeros))
	}
	out = append(out, data...)
	return append(out, 0x11, 0x00, 0x00)
}
