package tile

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/procreate/internal/testutil"
)

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 17)
	}
	return b
}

func TestCodecs(t *testing.T) {
	raw := pattern(64 * 64 * 4)

	tests := []struct {
		name  string
		codec Codec
		src   []byte
	}{
		{"lzo", LZO, testutil.LZOLiteral(raw)},
		{"lz4", LZ4, testutil.LZ4Block(t, raw)},
		{"raw", Raw, raw},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.codec.Decompress(tt.src, len(raw))
			if err != nil {
				t.Fatalf("Decompress() error = %v", err)
			}
			if !bytes.Equal(got, raw) {
				t.Error("Decompress() output differs from the original")
			}
		})
	}
}

func TestCodecsRejectBadInput(t *testing.T) {
	raw := pattern(1024)
	lzo := testutil.LZOLiteral(raw)

	tests := []struct {
		name  string
		codec Codec
		src   []byte
		size  int
	}{
		{"lzo short output", LZO, lzo, len(raw) + 4},
		{"lzo truncated", LZO, lzo[:len(lzo)-3], len(raw)},
		{"lzo garbage", LZO, []byte{0xff, 0xff, 0xff, 0xff}, 16},
		{"lz4 short output", LZ4, testutil.LZ4Block(t, raw), len(raw) + 4},
		{"lz4 garbage", LZ4, []byte{0xf0, 1, 2}, 64},
		{"raw size mismatch", Raw, raw, len(raw) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.codec.Decompress(tt.src, tt.size)
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("Decompress() error = %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	raw := pattern(32 * 32 * 4)
	lzo := testutil.LZOLiteral(raw)
	lz4 := testutil.LZ4Block(t, raw)

	tests := []struct {
		ext string
		src []byte
	}{
		{"chunk", lzo},
		{".chunk", lzo},
		{"CHUNK", lzo},
		{"lz4", lz4},
		{"raw", raw},
		{"", lzo},
		{"unknown", lzo},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			got, err := r.Lookup(tt.ext).Decompress(tt.src, len(raw))
			if err != nil {
				t.Fatalf("Lookup(%q).Decompress() error = %v", tt.ext, err)
			}
			if !bytes.Equal(got, raw) {
				t.Errorf("Lookup(%q) decoded the wrong bytes", tt.ext)
			}
		})
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register(".custom", CodecFunc(func(src []byte, size int) ([]byte, error) {
		calls++
		return make([]byte, size), nil
	}))

	g, _ := NewGrid(Size{8, 8}, 4)
	out, err := r.Decompress(g, Name{Col: 1, Row: 1, Ext: "custom"}, nil)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if calls != 1 || len(out) != 4*4*4 {
		t.Errorf("custom codec calls = %d, len = %d", calls, len(out))
	}

	r.Register("custom", nil)
	if _, err := r.Decompress(g, Name{Ext: "custom"}, []byte{1, 2, 3}); !errors.Is(err, ErrCorrupt) {
		t.Errorf("after removal error = %v, want LZO fallback failure", err)
	}
}
