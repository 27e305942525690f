package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDescriptor reports a descriptor that breaks the schema rules.
var ErrInvalidDescriptor = errors.New("model: invalid descriptor")

// Kind selects the bound control a descriptor produces.
type Kind string

const (
	KindText      Kind = "text"
	KindInteger   Kind = "integer"
	KindChoice    Kind = "choice"
	KindSeparator Kind = "separator"
)

// PredicateKind selects how a choice descriptor filters its candidates.
type PredicateKind string

const (
	PredicateNone PredicateKind = ""
	// PredicateAlwaysTrue keeps every candidate.
	PredicateAlwaysTrue PredicateKind = "always"
	// PredicateMatchesSibling keeps candidates whose Attribute equals the value
	// currently stored at Sibling, plus candidates that leave the attribute
	// unset, empty or "None".
	PredicateMatchesSibling PredicateKind = "matchesSibling"
)

// Predicate is the data form of a candidate filter. The form builder turns it
// into a function bound to the live document.
type Predicate struct {
	Kind      PredicateKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Attribute string        `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Sibling   string        `json:"sibling,omitempty" yaml:"sibling,omitempty"`
}

// IsZero reports whether no predicate is configured.
func (p Predicate) IsZero() bool {
	return p.Kind == PredicateNone
}

// Descriptor describes one editable slot of a form.
type Descriptor struct {
	Kind       Kind      `json:"kind" yaml:"kind"`
	Label      string    `json:"label,omitempty" yaml:"label,omitempty"`
	Path       string    `json:"path,omitempty" yaml:"path,omitempty"`
	ItemsPath  string    `json:"items,omitempty" yaml:"items,omitempty"`
	TypeFilter string    `json:"typeFilter,omitempty" yaml:"typeFilter,omitempty"`
	Predicate  Predicate `json:"predicate,omitempty" yaml:"predicate,omitempty"`
	// Reset is written by a bulk reset. Nil disables reset for the field.
	Reset any `json:"reset,omitempty" yaml:"reset,omitempty"`
}

// Validate checks the descriptor invariants.
func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindSeparator:
		return nil
	case KindText, KindInteger, KindChoice:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDescriptor, d.Kind)
	}

	if strings.TrimSpace(d.Path) == "" {
		return fmt.Errorf("%w: %s field %q has no path", ErrInvalidDescriptor, d.Kind, d.Label)
	}

	if d.Kind == KindChoice {
		if strings.TrimSpace(d.ItemsPath) == "" {
			return fmt.Errorf("%w: choice %q has no items path", ErrInvalidDescriptor, d.Path)
		}
		switch d.Predicate.Kind {
		case PredicateNone, PredicateAlwaysTrue:
		case PredicateMatchesSibling:
			if d.Predicate.Attribute == "" || d.Predicate.Sibling == "" {
				return fmt.Errorf("%w: choice %q sibling predicate needs attribute and sibling", ErrInvalidDescriptor, d.Path)
			}
		default:
			return fmt.Errorf("%w: choice %q has unknown predicate %q", ErrInvalidDescriptor, d.Path, d.Predicate.Kind)
		}
	} else if d.ItemsPath != "" || d.TypeFilter != "" || !d.Predicate.IsZero() {
		return fmt.Errorf("%w: %s field %q cannot carry items, type filter or predicate", ErrInvalidDescriptor, d.Kind, d.Path)
	}

	if _, err := ResetScalar(d.Reset); err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrInvalidDescriptor, d.Path, err)
	}
	return nil
}

// Clone returns an independent copy of the descriptor.
func (d Descriptor) Clone() Descriptor {
	return d
}

// Expand clones the descriptor and replaces `{name}` placeholders in its
// string fields. The predicate is structured data and is left alone.
func (d Descriptor) Expand(vars map[string]string) Descriptor {
	out := d.Clone()
	if len(vars) == 0 {
		return out
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	r := strings.NewReplacer(pairs...)

	out.Label = r.Replace(out.Label)
	out.Path = r.Replace(out.Path)
	out.ItemsPath = r.Replace(out.ItemsPath)
	out.TypeFilter = r.Replace(out.TypeFilter)
	if s, ok := out.Reset.(string); ok {
		out.Reset = r.Replace(s)
	}
	return out
}

// RoundVars returns the placeholders used by round-scoring templates for the
// zero based round index.
func RoundVars(index int) map[string]string {
	return map[string]string{
		"roundNumber": strconv.Itoa(index + 1),
		"roundIndex":  strconv.Itoa(index),
	}
}

// ResetScalar normalises a configured reset value. Nil stays nil; strings and
// integers are accepted, integers widened to int64.
func ResetScalar(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return t, nil
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint64:
		return int64(t), nil
	case float64:
		if t == float64(int64(t)) {
			return int64(t), nil
		}
	}
	return nil, fmt.Errorf("reset value %v (%T) must be a string or an integer", v, v)
}
