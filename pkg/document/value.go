package document

import (
	"encoding/json"
	"errors"
	"strconv"
)

var (
	// ErrInvalidPath reports path syntax errors.
	ErrInvalidPath = errors.New("document: invalid path")
	// ErrNilDocument is returned when writing into a nil document.
	ErrNilDocument = errors.New("document: document is nil")
	// ErrIndexOutOfRange is returned when a write addresses an array element
	// that does not exist. Arrays are never grown implicitly.
	ErrIndexOutOfRange = errors.New("document: index out of range")
	// ErrNotContainer is returned when a write has to traverse a value that is
	// neither a mapping nor an array.
	ErrNotContainer = errors.New("document: value is not a container")
	// ErrNotObject is returned by Decode when the root is not a JSON object.
	ErrNotObject = errors.New("document: root is not an object")
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindInteger
	KindMapping
	KindArray
	// KindOther covers floats, booleans and anything else a bound control
	// must refuse rather than coerce.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindMapping:
		return "mapping"
	case KindArray:
		return "array"
	default:
		return "other"
	}
}

// Value is the result of a path lookup.
type Value struct {
	kind Kind
	raw  any
}

// Absent is the value of a missing slot.
var Absent = Value{}

// ValueOf classifies a raw document value.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Absent
	case string:
		return Value{kind: KindString, raw: v}
	case int:
		return Value{kind: KindInteger, raw: int64(v)}
	case int32:
		return Value{kind: KindInteger, raw: int64(v)}
	case int64:
		return Value{kind: KindInteger, raw: v}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return Value{kind: KindInteger, raw: n}
		}
		return Value{kind: KindOther, raw: v}
	case map[string]any:
		return Value{kind: KindMapping, raw: v}
	case []any:
		return Value{kind: KindArray, raw: v}
	default:
		return Value{kind: KindOther, raw: v}
	}
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the slot had no value.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Raw returns the underlying document value (nil when absent).
func (v Value) Raw() any { return v.raw }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok && v.kind == KindString
}

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) {
	n, ok := v.raw.(int64)
	return n, ok && v.kind == KindInteger
}

// AsMap returns the mapping payload. The map is the live document node.
func (v Value) AsMap() (map[string]any, bool) {
	m, ok := v.raw.(map[string]any)
	return m, ok && v.kind == KindMapping
}

// AsArray returns the array payload. Appending to it does not update the
// document; write the grown slice back with Set.
func (v Value) AsArray() ([]any, bool) {
	a, ok := v.raw.([]any)
	return a, ok && v.kind == KindArray
}

// Text renders scalar values the way text controls display them. The second
// return is false for mappings, arrays and other kinds.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindAbsent:
		return "", true
	case KindString:
		return v.raw.(string), true
	case KindInteger:
		return strconv.FormatInt(v.raw.(int64), 10), true
	default:
		return "", false
	}
}
