package nsarchive

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package matches one of
// them through errors.Is.
var (
	// ErrNotKeyedArchive is returned by Parse when the property list lacks
	// the $top / $objects structure of a keyed archive.
	ErrNotKeyedArchive = errors.New("nsarchive: not a keyed archive")

	// ErrMissingKey is matched by every MissingKeyError.
	ErrMissingKey = errors.New("nsarchive: missing key")

	// ErrTypeMismatch is matched by every TypeMismatchError.
	ErrTypeMismatch = errors.New("nsarchive: type mismatch")

	// ErrBadReference is returned when a UID points outside $objects.
	ErrBadReference = errors.New("nsarchive: reference out of range")
)

// MissingKeyError reports a required key that is absent from a record or
// holds the $null sentinel.
type MissingKeyError struct {
	Key   string
	Class string // class tag of the record, if it has one
}

func (e *MissingKeyError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("nsarchive: missing key %q in %s", e.Key, e.Class)
	}
	return fmt.Sprintf("nsarchive: missing key %q", e.Key)
}

// Is reports whether target is ErrMissingKey.
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// TypeMismatchError reports a value whose shape or class tag does not match
// the requested type.
type TypeMismatchError struct {
	Key  string // empty when the value is not directly under a key
	Want string
	Got  string // value kind, or the class tag of a record
}

func (e *TypeMismatchError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("nsarchive: type mismatch for %q: want %s, got %s", e.Key, e.Want, e.Got)
	}
	return fmt.Sprintf("nsarchive: type mismatch: want %s, got %s", e.Want, e.Got)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func mismatch(want string, got any) error {
	return &TypeMismatchError{Want: want, Got: kindOf(got)}
}

// withKey attaches key to err. A bare type mismatch produced while decoding
// the value itself takes the key; failures deeper in the graph get the key
// as a path prefix so the innermost error stays reachable via errors.As.
func withKey(key string, err error) error {
	if tm, ok := err.(*TypeMismatchError); ok && tm.Key == "" {
		tm.Key = key
		return tm
	}
	return fmt.Errorf("%s: %w", key, err)
}
