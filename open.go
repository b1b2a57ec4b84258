package procreate

import (
	"io"
	"time"
)

// Open reads the .procreate file at path, decodes the document and
// assembles the pixels of every layer, the composite layer included.
func Open(path string, opts ...Option) (*Document, error) {
	c, err := OpenContainer(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return Load(c, opts...)
}

// OpenReader is Open for a container held in r, which holds size bytes.
func OpenReader(r io.ReaderAt, size int64, opts ...Option) (*Document, error) {
	c, err := NewContainer(r, size)
	if err != nil {
		return nil, err
	}
	return Load(c, opts...)
}

// Load decodes the document of c and assembles its layers. Any failure
// yields no document.
func Load(c *Container, opts ...Option) (*Document, error) {
	o := newOptions(opts)
	log := Logger()
	start := time.Now()

	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	log.Info("procreate: document decoded",
		"size", doc.Size.String(),
		"tiling", doc.Tiling.String(),
		"layers", len(doc.Layers()))

	if err := assembleAll(doc, c, o); err != nil {
		return nil, err
	}
	log.Info("procreate: tiles assembled", "elapsed", time.Since(start))
	return doc, nil
}
