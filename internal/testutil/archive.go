// Package testutil builds document fixtures for tests: keyed archives,
// LZO tile streams and zip containers.
package testutil

import (
	"testing"

	"howett.net/plist"
)

// Null is the reference to the $null sentinel.
const Null = plist.UID(0)

// Archive assembles the object table of a keyed archive.
type Archive struct {
	objects []any
	classes map[string]plist.UID
}

// NewArchive returns an empty archive whose table holds only $null.
func NewArchive() *Archive {
	return &Archive{
		objects: []any{"$null"},
		classes: make(map[string]plist.UID),
	}
}

// Add appends v to the object table and returns its reference.
func (a *Archive) Add(v any) plist.UID {
	a.objects = append(a.objects, v)
	return plist.UID(len(a.objects) - 1)
}

// String adds a string object.
func (a *Archive) String(s string) plist.UID {
	return a.Add(s)
}

// Class returns the reference of the class dictionary for name, adding it
// on first use.
func (a *Archive) Class(name string) plist.UID {
	if uid, ok := a.classes[name]; ok {
		return uid
	}
	uid := a.Add(map[string]any{
		"$classname": name,
		"$classes":   []any{name, "NSObject"},
	})
	a.classes[name] = uid
	return uid
}

// Object adds a record of class with the given fields. A class of "" adds
// an untagged dictionary.
func (a *Archive) Object(class string, fields map[string]any) plist.UID {
	rec := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		rec[k] = v
	}
	if class != "" {
		rec["$class"] = a.Class(class)
	}
	return a.Add(rec)
}

// Array adds an NSArray holding items.
func (a *Archive) Array(items ...plist.UID) plist.UID {
	objs := make([]any, len(items))
	for i, it := range items {
		objs[i] = it
	}
	return a.Object("NSArray", map[string]any{"NS.objects": objs})
}

// Marshal encodes the archive as a binary property list with the given
// $top dictionary.
func (a *Archive) Marshal(top map[string]any) ([]byte, error) {
	return plist.Marshal(map[string]any{
		"$archiver": "NSKeyedArchiver",
		"$version":  100000,
		"$top":      top,
		"$objects":  a.objects,
	}, plist.BinaryFormat)
}

// MustMarshal is Marshal that fails the test on error.
func (a *Archive) MustMarshal(tb testing.TB, top map[string]any) []byte {
	tb.Helper()
	data, err := a.Marshal(top)
	if err != nil {
		tb.Fatalf("marshal archive: %v", err)
	}
	return data
}
