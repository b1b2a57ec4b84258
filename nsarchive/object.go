package nsarchive

import (
	"sort"

	"howett.net/plist"
)

// Object is a dictionary record in the archive's object graph.
type Object struct {
	arc    *Archive
	fields map[string]any
}

// Archive returns the archive the record belongs to.
func (o *Object) Archive() *Archive {
	return o.arc
}

// Has reports whether key is present, even if it holds $null.
func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Keys returns the record's keys in sorted order, including $class.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ClassName returns the $classname of the record's class, or "" if the
// record has no class tag.
func (o *Object) ClassName() string {
	ref, ok := o.fields["$class"]
	if !ok {
		return ""
	}
	cls, err := o.arc.resolve(ref)
	if err != nil {
		return ""
	}
	m, ok := cls.(map[string]any)
	if !ok {
		return ""
	}
	name, _ := m["$classname"].(string)
	return name
}

// Classes returns the class hierarchy recorded in $classes, most derived
// first.
func (o *Object) Classes() []string {
	cls, err := o.arc.resolve(o.fields["$class"])
	if err != nil {
		return nil
	}
	m, ok := cls.(map[string]any)
	if !ok {
		return nil
	}
	raw, _ := m["$classes"].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// lookup returns the resolved value under key. present is false when the
// key is absent; a present key holding $null yields (nil, true, nil).
func (o *Object) lookup(key string) (v any, present bool, err error) {
	raw, ok := o.fields[key]
	if !ok {
		return nil, false, nil
	}
	v, err = o.arc.resolve(raw)
	return v, true, err
}

// kindOf names the shape of a decoded plist value for error messages.
// Records report their class tag.
func kindOf(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case uint64, int64:
		return "integer"
	case float32, float64:
		return "real"
	case []byte:
		return "data"
	case []any:
		return "array"
	case plist.UID:
		return "uid"
	case map[string]any:
		if name, ok := v["$classname"].(string); ok {
			return "class " + name
		}
		return "dictionary"
	default:
		return "date"
	}
}
