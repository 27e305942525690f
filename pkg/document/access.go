package document

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// Get resolves path against doc. Missing slots, unparsable paths and
// mismatched containers all yield Absent.
func Get(doc map[string]any, path string) Value {
	p, err := ParsePath(path)
	if err != nil {
		return Absent
	}
	return Lookup(doc, p)
}

// Lookup is Get for a pre-parsed path.
func Lookup(doc map[string]any, path Path) Value {
	if doc == nil || len(path) == 0 {
		return Absent
	}
	var current any = doc
	for _, seg := range path {
		switch node := current.(type) {
		case map[string]any:
			if seg.IsIndex {
				return Absent
			}
			next, ok := node[seg.Key]
			if !ok {
				return Absent
			}
			current = next
		case []any:
			if !seg.IsIndex || seg.Index >= len(node) {
				return Absent
			}
			current = node[seg.Index]
		default:
			return Absent
		}
	}
	return ValueOf(current)
}

// Set writes value at path, creating intermediate mappings that do not exist
// yet. Array elements are never created.
func Set(doc map[string]any, path string, value any) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	return Assign(doc, p, value)
}

// Assign is Set for a pre-parsed path.
func Assign(doc map[string]any, path Path, value any) error {
	if doc == nil {
		return ErrNilDocument
	}
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	// created records mappings made on the way so a failed write leaves the
	// document untouched.
	type createdKey struct {
		parent map[string]any
		key    string
	}
	var created []createdKey
	rollback := func(err error) error {
		for i := len(created) - 1; i >= 0; i-- {
			delete(created[i].parent, created[i].key)
		}
		return err
	}

	var current any = doc
	for i, seg := range path {
		last := i == len(path)-1
		switch node := current.(type) {
		case map[string]any:
			if seg.IsIndex {
				return rollback(fmt.Errorf("%w: index %d applied to a mapping at %q", ErrNotContainer, seg.Index, path[:i].String()))
			}
			if last {
				node[seg.Key] = value
				return nil
			}
			next, ok := node[seg.Key]
			if !ok || next == nil {
				if path[i+1].IsIndex {
					return rollback(fmt.Errorf("%w: %q has no array", ErrIndexOutOfRange, path[:i+1].String()))
				}
				child := make(map[string]any)
				if _, existed := node[seg.Key]; !existed {
					created = append(created, createdKey{parent: node, key: seg.Key})
				}
				node[seg.Key] = child
				next = child
			}
			current = next
		case []any:
			if !seg.IsIndex {
				return rollback(fmt.Errorf("%w: key %q applied to an array at %q", ErrNotContainer, seg.Key, path[:i].String()))
			}
			if seg.Index >= len(node) {
				return rollback(fmt.Errorf("%w: %q has %d elements", ErrIndexOutOfRange, path[:i+1].String(), len(node)))
			}
			if last {
				node[seg.Index] = value
				return nil
			}
			next := node[seg.Index]
			if next == nil && !path[i+1].IsIndex {
				child := make(map[string]any)
				node[seg.Index] = child
				next = child
			}
			current = next
		default:
			return rollback(fmt.Errorf("%w: %q holds %T", ErrNotContainer, path[:i].String(), node))
		}
	}
	return nil
}

// EnsureArray grows the array at path to at least n elements, appending empty
// mappings. A missing array is created. Existing elements are kept.
func EnsureArray(doc map[string]any, path string, n int) error {
	val := Get(doc, path)
	var arr []any
	switch val.Kind() {
	case KindAbsent:
		arr = make([]any, 0, n)
	case KindArray:
		arr, _ = val.AsArray()
		if len(arr) >= n {
			return nil
		}
	default:
		return fmt.Errorf("%w: %q holds %s, want array", ErrNotContainer, path, val.Kind())
	}
	for len(arr) < n {
		arr = append(arr, make(map[string]any))
	}
	return Set(doc, path, arr)
}

// Clone returns a deep copy of doc.
func Clone(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out, _ := deepcopy.Copy(doc).(map[string]any)
	return out
}
