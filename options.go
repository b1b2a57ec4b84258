package procreate

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gogpu/procreate/internal/tile"
)

// Option configures how a document is loaded.
//
// Example:
//
//	doc, err := procreate.Open("art.procreate",
//	    procreate.WithWorkers(4),
//	    procreate.WithTilePolicy(procreate.TileTransparent))
type Option func(*options)

type options struct {
	workers int
	policy  TilePolicy
	codecs  *tile.Registry
}

func defaultOptions() options {
	return options{
		workers: runtime.GOMAXPROCS(0),
		policy:  TileAbort,
		codecs:  tile.NewRegistry(),
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithWorkers sets how many layers are assembled concurrently.
// n <= 0 selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithTilePolicy selects what happens when a tile cannot be placed.
// The default is [TileAbort].
func WithTilePolicy(p TilePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// Codec decompresses one tile to exactly size bytes of RGBA8.
type Codec = tile.Codec

// CodecFunc adapts a function to [Codec].
type CodecFunc = tile.CodecFunc

// WithCodec registers c for tile entries with extension ext, replacing
// the built-in choice. A nil codec restores the LZO fallback for ext.
func WithCodec(ext string, c Codec) Option {
	return func(o *options) {
		o.codecs.Register(ext, c)
	}
}

// TilePolicy decides how tile failures (unreadable entry, corrupt stream,
// malformed name) are handled. Well-formed tiles whose coordinates lie
// outside the grid are not failures: they are dropped and logged at Debug.
type TilePolicy uint8

const (
	// TileAbort fails the whole load on the first tile failure.
	TileAbort TilePolicy = iota
	// TileTransparent leaves the failed tile's area transparent, logs a
	// warning and continues.
	TileTransparent
)

// String returns the policy name as accepted by ParseTilePolicy.
func (p TilePolicy) String() string {
	switch p {
	case TileAbort:
		return "abort"
	case TileTransparent:
		return "transparent"
	default:
		return fmt.Sprintf("TilePolicy(%d)", uint8(p))
	}
}

// ParseTilePolicy parses "abort" or "transparent" (case-insensitive).
func ParseTilePolicy(s string) (TilePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "abort", "":
		return TileAbort, nil
	case "transparent":
		return TileTransparent, nil
	default:
		return TileAbort, fmt.Errorf("procreate: unknown tile policy %q", s)
	}
}
