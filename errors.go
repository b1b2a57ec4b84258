package procreate

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDocument is returned when a container has no Document.archive
	// entry.
	ErrNoDocument = errors.New("procreate: container has no Document.archive")

	// ErrImageMissing is returned by Render when a visible layer has not
	// been assembled.
	ErrImageMissing = errors.New("procreate: layer image not assembled")

	// ErrDuplicateUUID is returned when two layers share a uuid.
	ErrDuplicateUUID = errors.New("procreate: duplicate layer uuid")
)

// TileError reports a tile that could not be placed into its layer.
type TileError struct {
	Layer string // layer uuid
	Entry string // container entry name
	Err   error
}

func (e *TileError) Error() string {
	return fmt.Sprintf("procreate: layer %s: tile %q: %v", e.Layer, e.Entry, e.Err)
}

func (e *TileError) Unwrap() error {
	return e.Err
}
