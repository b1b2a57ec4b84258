// Package nsarchive decodes keyed-archive property lists, the object graph
// format produced by Apple's NSKeyedArchiver.
//
// A keyed archive is a property list with a flat $objects table and a $top
// dictionary of root references. Records refer to one another through
// plist.UID values that index into $objects; index 0 holds the "$null"
// sentinel. Each record carries a $class reference to a dictionary whose
// $classname names the record's type.
//
// Decoding is driven by small typed decoders (Func) composed with Get,
// Optional, Array, RecordFunc and Polymorphic:
//
//	arc, err := nsarchive.Parse(data)
//	root, err := nsarchive.Get(arc.Top(), "root", nsarchive.Record)
//	name, err := nsarchive.Get(root, "name", nsarchive.String)
//
// An archive is immutable after Parse and safe for concurrent readers.
package nsarchive

import (
	"fmt"

	"howett.net/plist"
)

const nullSentinel = "$null"

// Archive is a parsed keyed archive.
type Archive struct {
	// Archiver is the $archiver value, normally "NSKeyedArchiver".
	Archiver string
	// Version is the $version value.
	Version uint64

	top     map[string]any
	objects []any
}

type keyedArchive struct {
	Archiver string         `plist:"$archiver"`
	Version  uint64         `plist:"$version"`
	Top      map[string]any `plist:"$top"`
	Objects  []any          `plist:"$objects"`
}

// Parse decodes a keyed archive from property list data in any of the
// formats understood by howett.net/plist (binary, XML, OpenStep).
func Parse(data []byte) (*Archive, error) {
	var ka keyedArchive
	if _, err := plist.Unmarshal(data, &ka); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotKeyedArchive, err)
	}
	if ka.Top == nil || len(ka.Objects) == 0 {
		return nil, fmt.Errorf("%w: missing $top or $objects", ErrNotKeyedArchive)
	}
	return &Archive{
		Archiver: ka.Archiver,
		Version:  ka.Version,
		top:      ka.Top,
		objects:  ka.Objects,
	}, nil
}

// Top returns the $top dictionary as a record.
func (a *Archive) Top() *Object {
	return &Object{arc: a, fields: a.top}
}

// Len returns the number of entries in the object table, including the
// $null sentinel.
func (a *Archive) Len() int {
	return len(a.objects)
}

// resolve follows a UID reference into the object table. It returns nil
// for the $null sentinel. Values that are not references are returned
// unchanged.
func (a *Archive) resolve(v any) (any, error) {
	uid, ok := v.(plist.UID)
	if !ok {
		return v, nil
	}
	if uint64(uid) >= uint64(len(a.objects)) {
		return nil, fmt.Errorf("%w: uid %d, %d objects", ErrBadReference, uid, len(a.objects))
	}
	obj := a.objects[uid]
	if s, ok := obj.(string); ok && s == nullSentinel {
		return nil, nil
	}
	return obj, nil
}
