package nsarchive

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Func decodes one resolved, non-null archive value into T.
type Func[T any] func(a *Archive, v any) (T, error)

// Get decodes the required field key of o with fn. An absent key or one
// holding $null yields a *MissingKeyError.
func Get[T any](o *Object, key string, fn Func[T]) (T, error) {
	var zero T
	v, present, err := o.lookup(key)
	if err != nil {
		return zero, withKey(key, err)
	}
	if !present || v == nil {
		return zero, &MissingKeyError{Key: key, Class: o.ClassName()}
	}
	out, err := fn(o.arc, v)
	if err != nil {
		return zero, withKey(key, err)
	}
	return out, nil
}

// Optional decodes the field key of o with fn. An absent key or one holding
// $null yields (zero, false, nil); a present value of the wrong type is
// still an error.
func Optional[T any](o *Object, key string, fn Func[T]) (T, bool, error) {
	var zero T
	v, present, err := o.lookup(key)
	if err != nil {
		return zero, false, withKey(key, err)
	}
	if !present || v == nil {
		return zero, false, nil
	}
	out, err := fn(o.arc, v)
	if err != nil {
		return zero, false, withKey(key, err)
	}
	return out, true, nil
}

// Map adapts a decoder by converting its result. conv errors are returned
// as-is; a conversion that rejects the value should return a
// *TypeMismatchError.
func Map[T, U any](fn Func[T], conv func(T) (U, error)) Func[U] {
	return func(a *Archive, v any) (U, error) {
		t, err := fn(a, v)
		if err != nil {
			var zero U
			return zero, err
		}
		return conv(t)
	}
}

// Record decodes a dictionary record.
func Record(a *Archive, v any) (*Object, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, mismatch("record", v)
	}
	return &Object{arc: a, fields: m}, nil
}

// RecordFunc lifts a record decoder into a Func.
func RecordFunc[T any](fn func(*Object) (T, error)) Func[T] {
	return func(a *Archive, v any) (T, error) {
		o, err := Record(a, v)
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(o)
	}
}

// Array decodes an archived array with elem. The value is an array-holder
// record whose NS.objects field lists element references; a bare plist
// array is accepted too. Null elements are rejected.
func Array[T any](elem Func[T]) Func[[]T] {
	return func(a *Archive, v any) ([]T, error) {
		items, err := arrayItems(a, v)
		if err != nil {
			return nil, err
		}
		out := make([]T, 0, len(items))
		for i, raw := range items {
			item, err := a.resolve(raw)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			if item == nil {
				return nil, fmt.Errorf("[%d]: %w", i, mismatch("element", nil))
			}
			t, err := elem(a, item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out = append(out, t)
		}
		return out, nil
	}
}

func arrayItems(a *Archive, v any) ([]any, error) {
	switch v := v.(type) {
	case []any:
		return v, nil
	case map[string]any:
		raw, ok := v["NS.objects"]
		if !ok {
			o := &Object{arc: a, fields: v}
			return nil, &TypeMismatchError{Want: "array", Got: classOrKind(o, v)}
		}
		items, ok := raw.([]any)
		if !ok {
			return nil, mismatch("array", raw)
		}
		return items, nil
	default:
		return nil, mismatch("array", v)
	}
}

// Polymorphic dispatches on a record's class name. A class missing from
// variants yields a *TypeMismatchError naming the class.
func Polymorphic[T any](variants map[string]Func[T]) Func[T] {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	want := "one of " + strings.Join(names, ", ")

	return func(a *Archive, v any) (T, error) {
		var zero T
		o, err := Record(a, v)
		if err != nil {
			return zero, err
		}
		class := o.ClassName()
		fn, ok := variants[class]
		if !ok {
			return zero, &TypeMismatchError{Want: want, Got: classOrKind(o, v)}
		}
		return fn(a, v)
	}
}

func classOrKind(o *Object, v any) string {
	if name := o.ClassName(); name != "" {
		return "class " + name
	}
	return kindOf(v)
}

// Bool decodes a boolean.
func Bool(_ *Archive, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, mismatch("bool", v)
	}
	return b, nil
}

// String decodes a string.
func String(_ *Archive, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", mismatch("string", v)
	}
	return s, nil
}

// Data decodes a byte string.
func Data(_ *Archive, v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, mismatch("data", v)
	}
	return b, nil
}

// Int64 decodes a signed integer.
func Int64(_ *Archive, v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, &TypeMismatchError{Want: "int64", Got: "integer " + strconv.FormatUint(n, 10)}
		}
		return int64(n), nil
	default:
		return 0, mismatch("integer", v)
	}
}

// Uint64 decodes a non-negative integer.
func Uint64(_ *Archive, v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case int64:
		if n < 0 {
			return 0, &TypeMismatchError{Want: "uint64", Got: "integer " + strconv.FormatInt(n, 10)}
		}
		return uint64(n), nil
	default:
		return 0, mismatch("integer", v)
	}
}

// Uint32 decodes a non-negative integer that fits in 32 bits.
func Uint32(a *Archive, v any) (uint32, error) {
	n, err := Uint64(a, v)
	if err != nil {
		return 0, err
	}
	if n > math.MaxUint32 {
		return 0, &TypeMismatchError{Want: "uint32", Got: "integer " + strconv.FormatUint(n, 10)}
	}
	return uint32(n), nil
}

// Float64 decodes a real. Integers are widened.
func Float64(_ *Archive, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, mismatch("real", v)
	}
}

// Float32 decodes a real as float32.
func Float32(a *Archive, v any) (float32, error) {
	f, err := Float64(a, v)
	return float32(f), err
}

// Size is a CGSize decoded from its "{width, height}" string form.
type Size struct {
	Width  float64
	Height float64
}

// SizeString decodes a CGSize string such as "{2048, 1536}".
func SizeString(_ *Archive, v any) (Size, error) {
	s, ok := v.(string)
	if !ok {
		return Size{}, mismatch("size string", v)
	}
	size, err := ParseSize(s)
	if err != nil {
		return Size{}, err
	}
	return size, nil
}

// ParseSize parses the "{width, height}" form of a CGSize.
func ParseSize(s string) (Size, error) {
	bad := &TypeMismatchError{Want: "size string", Got: strconv.Quote(s)}
	inner, ok := strings.CutPrefix(strings.TrimSpace(s), "{")
	if !ok {
		return Size{}, bad
	}
	inner, ok = strings.CutSuffix(inner, "}")
	if !ok {
		return Size{}, bad
	}
	ws, hs, ok := strings.Cut(inner, ",")
	if !ok {
		return Size{}, bad
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(ws), 64)
	if err != nil {
		return Size{}, bad
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err != nil {
		return Size{}, bad
	}
	return Size{Width: w, Height: h}, nil
}
