package procreate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ArchiveEntry is the container entry holding the document graph.
const ArchiveEntry = "Document.archive"

// Container is a read-only view of a .procreate zip container.
//
// Thread safety: ReadFile may be called concurrently.
type Container struct {
	zr     *zip.Reader
	closer io.Closer
	files  map[string]*zip.File
	names  []string
}

// OpenContainer opens the container file at path.
func OpenContainer(path string) (*Container, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("procreate: open %s: %w", path, err)
	}
	c := newContainer(&rc.Reader)
	c.closer = rc
	return c, nil
}

// NewContainer reads a container from r, which holds size bytes.
func NewContainer(r io.ReaderAt, size int64) (*Container, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("procreate: read container: %w", err)
	}
	return newContainer(zr), nil
}

func newContainer(zr *zip.Reader) *Container {
	c := &Container{
		zr:    zr,
		files: make(map[string]*zip.File, len(zr.File)),
		names: make([]string, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if _, dup := c.files[f.Name]; dup {
			continue
		}
		c.files[f.Name] = f
		c.names = append(c.names, f.Name)
	}
	return c
}

// Names returns the file entry names in container order. Directory
// entries are omitted.
func (c *Container) Names() []string {
	return c.names
}

// ReadFile returns the uncompressed contents of the named entry.
func (c *Container) ReadFile(name string) ([]byte, error) {
	f, ok := c.files[name]
	if !ok {
		return nil, fmt.Errorf("procreate: entry %q: %w", name, fs.ErrNotExist)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("procreate: entry %q: %w", name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	buf.Grow(int(min(f.UncompressedSize64, 1<<26)))
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("procreate: entry %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Document decodes the container's Document.archive without assembling
// any layer.
func (c *Container) Document() (*Document, error) {
	data, err := c.ReadFile(ArchiveEntry)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Close releases the underlying file, if the container owns one.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
