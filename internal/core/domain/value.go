package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind classifies a decoded JSON value.
type Kind int

const (
	// KindUnknown is the fallback for unrecognised value shapes.
	// Unknown values render generically, have no children, and never
	// match a search on value.
	KindUnknown Kind = iota
	// KindString is a JSON string.
	KindString
	// KindNumber is a JSON number.
	KindNumber
	// KindBool is a JSON boolean.
	KindBool
	// KindNull is the JSON null literal.
	KindNull
	// KindObject is a JSON object.
	KindObject
	// KindArray is a JSON array.
	KindArray
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// KindOf classifies an opaque decoded value. It recognises the shapes
// produced by encoding/json (with and without UseNumber) as well as the
// integer and unsigned shapes YAML decoders produce. Anything else is
// KindUnknown, never an error.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBool
	case json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	default:
		return KindUnknown
	}
}

// Entry is one (key, value) pair of a container, in display order.
type Entry struct {
	// Key is the property name, or the synthetic "[i]" index label.
	Key string

	// Value is the decoded child value.
	Value any
}

// ChildLen returns the true full size of a container value.
// Scalars and unknown shapes have zero children.
func ChildLen(v any) int {
	switch c := v.(type) {
	case map[string]any:
		return len(c)
	case []any:
		return len(c)
	default:
		return 0
	}
}

// EntryRange returns the container entries in positions [lo, hi) of the
// display order: object keys ascending lexicographic, arrays by original
// index with "[i]" labels. Object order is independent of decode order so
// the same offset range always yields the same children.
func EntryRange(v any, lo, hi int) []Entry {
	n := ChildLen(v)
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo >= hi {
		return nil
	}

	switch c := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, hi-lo)
		for _, k := range keys[lo:hi] {
			entries = append(entries, Entry{Key: k, Value: c[k]})
		}
		return entries
	case []any:
		entries := make([]Entry, 0, hi-lo)
		for i := lo; i < hi; i++ {
			entries = append(entries, Entry{Key: IndexKey(i), Value: c[i]})
		}
		return entries
	default:
		return nil
	}
}

// Entries returns every container entry in display order.
func Entries(v any) []Entry {
	return EntryRange(v, 0, ChildLen(v))
}

// IndexKey returns the synthetic label for an array element.
func IndexKey(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// ChildValue looks up one container entry by its display key: a
// property name for objects, an "[i]" label for arrays.
func ChildValue(v any, key string) (any, bool) {
	switch c := v.(type) {
	case map[string]any:
		child, ok := c[key]
		return child, ok
	case []any:
		if len(key) < 3 || key[0] != '[' || key[len(key)-1] != ']' {
			return nil, false
		}
		i, err := strconv.Atoi(key[1 : len(key)-1])
		if err != nil || i < 0 || i >= len(c) {
			return nil, false
		}
		return c[i], true
	default:
		return nil, false
	}
}

// ScalarText returns the literal textual form of a scalar value and
// whether the value is a scalar at all. Numbers decoded via
// json.Decoder.UseNumber keep their source literal.
func ScalarText(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "null", true
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(s), 'g', -1, 32), true
	case int:
		return strconv.Itoa(s), true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", s), true
	default:
		return "", false
	}
}
