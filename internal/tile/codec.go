package tile

import (
	"errors"
	"fmt"
	"strings"

	lzo "github.com/anchore/go-lzo"
	"github.com/pierrec/lz4/v4"
)

// ErrCorrupt is returned when a tile stream cannot be decompressed or does
// not decompress to exactly the expected number of bytes.
var ErrCorrupt = errors.New("tile: corrupt tile data")

// Codec decompresses one tile. The result must be exactly size bytes.
type Codec interface {
	Decompress(src []byte, size int) ([]byte, error)
}

// CodecFunc adapts a function to the Codec interface.
type CodecFunc func(src []byte, size int) ([]byte, error)

// Decompress implements Codec.
func (f CodecFunc) Decompress(src []byte, size int) ([]byte, error) {
	return f(src, size)
}

// Built-in codecs.
var (
	// LZO decodes LZO1X streams, the format of ".chunk" tile entries.
	LZO Codec = CodecFunc(decompressLZO)

	// LZ4 decodes raw LZ4 blocks (no frame header).
	LZ4 Codec = CodecFunc(decompressLZ4)

	// Raw accepts uncompressed RGBA8 data of the exact size.
	Raw Codec = CodecFunc(decompressRaw)
)

func decompressLZO(src []byte, size int) ([]byte, error) {
	dst := make([]byte, size)
	n, err := lzo.Decompress(src, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lzo: %v", ErrCorrupt, err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: lzo: got %d bytes, expected %d", ErrCorrupt, n, size)
	}
	return dst, nil
}

func decompressLZ4(src []byte, size int) ([]byte, error) {
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", ErrCorrupt, err)
	}
	if n != size {
		return nil, fmt.Errorf("%w: lz4: got %d bytes, expected %d", ErrCorrupt, n, size)
	}
	return dst, nil
}

func decompressRaw(src []byte, size int) ([]byte, error) {
	if len(src) != size {
		return nil, fmt.Errorf("%w: raw: size %d does not match expected %d", ErrCorrupt, len(src), size)
	}
	return src, nil
}

// Registry selects a codec by tile entry extension.
//
// Thread safety: a Registry must not be modified once tile assembly has
// started; lookups are safe for concurrent use.
type Registry struct {
	byExt    map[string]Codec
	fallback Codec
}

// NewRegistry returns the default registry: "chunk" and any unregistered
// extension use LZO, "lz4" uses LZ4 and "raw" is uncompressed.
func NewRegistry() *Registry {
	return &Registry{
		byExt: map[string]Codec{
			"chunk": LZO,
			"lz4":   LZ4,
			"raw":   Raw,
		},
		fallback: LZO,
	}
}

// Register sets the codec for an extension (case-insensitive, leading dot
// optional). A nil codec removes the mapping.
func (r *Registry) Register(ext string, c Codec) {
	ext = normalizeExt(ext)
	if c == nil {
		delete(r.byExt, ext)
		return
	}
	r.byExt[ext] = c
}

// Lookup returns the codec for ext, falling back to LZO.
func (r *Registry) Lookup(ext string) Codec {
	if c, ok := r.byExt[normalizeExt(ext)]; ok {
		return c
	}
	return r.fallback
}

// Decompress decodes the tile n of grid g from src.
func (r *Registry) Decompress(g Grid, n Name, src []byte) ([]byte, error) {
	return r.Lookup(n.Ext).Decompress(src, g.TileBytes(n.Col, n.Row))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
