package tile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Naming errors.
var (
	// ErrMalformedName is returned when the part of an entry name after the
	// layer uuid is not "<col>~<row>".
	ErrMalformedName = errors.New("tile: malformed tile name")

	// ErrOutOfRange is returned when a tile's coordinates lie outside the
	// document grid.
	ErrOutOfRange = errors.New("tile: coordinates outside grid")
)

// Name is a parsed tile entry name of the form "<uuid><col>~<row>.<ext>"
// or "<uuid>/<col>~<row>.<ext>".
type Name struct {
	Col, Row uint32
	// Ext is the extension after the first '.', without the dot. Empty
	// when the entry has no extension.
	Ext string
}

// HasPrefix reports whether entry belongs to the layer with the given uuid.
func HasPrefix(entry, uuid string) bool {
	return uuid != "" && strings.HasPrefix(entry, uuid)
}

// ParseName parses the tile coordinates of entry, which must start with
// uuid. The suffix up to the first '.', after an optional '/', must be two
// unsigned decimal integers separated by '~'.
func ParseName(entry, uuid string) (Name, error) {
	if !HasPrefix(entry, uuid) {
		return Name{}, fmt.Errorf("%w: %q does not start with %q", ErrMalformedName, entry, uuid)
	}

	rest := strings.TrimPrefix(entry[len(uuid):], "/")
	coords, ext, _ := strings.Cut(rest, ".")
	c, r, ok := strings.Cut(coords, "~")
	if !ok {
		return Name{}, fmt.Errorf("%w: %q", ErrMalformedName, entry)
	}

	col, err := parseIndex(c)
	if err != nil {
		return Name{}, fmt.Errorf("%w: %q: column: %v", ErrMalformedName, entry, err)
	}
	row, err := parseIndex(r)
	if err != nil {
		return Name{}, fmt.Errorf("%w: %q: row: %v", ErrMalformedName, entry, err)
	}

	return Name{Col: col, Row: row, Ext: ext}, nil
}

func parseIndex(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Check validates n against the grid.
func (g Grid) Check(n Name) error {
	if !g.Contains(n.Col, n.Row) {
		return fmt.Errorf("%w: %d~%d in %dx%d", ErrOutOfRange, n.Col, n.Row, g.Columns, g.Rows)
	}
	return nil
}
