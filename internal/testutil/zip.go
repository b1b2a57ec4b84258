package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

// Entry is one file of a zip fixture.
type Entry struct {
	Name string
	Data []byte
}

// Zip builds an in-memory zip holding entries in order.
func Zip(tb testing.TB, entries ...Entry) []byte {
	tb.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			tb.Fatalf("zip create %s: %v", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			tb.Fatalf("zip write %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// WriteZip writes a zip fixture into a temporary directory and returns its
// path.
func WriteZip(tb testing.TB, name string, entries ...Entry) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, Zip(tb, entries...), 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
