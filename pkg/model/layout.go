package model

import "fmt"

// Layout is an ordered list of descriptors rendered as one form section.
type Layout []Descriptor

// Clone returns an independent copy of the layout.
func (l Layout) Clone() Layout {
	if l == nil {
		return nil
	}
	out := make(Layout, len(l))
	for i, d := range l {
		out[i] = d.Clone()
	}
	return out
}

// Expand clones the layout, substituting placeholders in every descriptor.
func (l Layout) Expand(vars map[string]string) Layout {
	out := make(Layout, len(l))
	for i, d := range l {
		out[i] = d.Expand(vars)
	}
	return out
}

// Validate checks every descriptor and reports the first failure with its
// position.
func (l Layout) Validate() error {
	for i, d := range l {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("descriptor %d: %w", i, err)
		}
	}
	return nil
}

// Prepend returns a new layout with head placed before a clone of l.
func (l Layout) Prepend(head ...Descriptor) Layout {
	out := make(Layout, 0, len(head)+len(l))
	out = append(out, head...)
	return append(out, l.Clone()...)
}
