package controls

// Separator is a decorative divider. It satisfies Control so bulk reset and
// rebind can walk a form without special cases.
type Separator struct {
	label string
}

// NewSeparator returns a divider with an optional caption.
func NewSeparator(label string) *Separator {
	return &Separator{label: label}
}

func (s *Separator) Label() string { return s.label }

func (s *Separator) Path() string { return "" }

func (s *Separator) Enabled() bool { return false }

func (s *Separator) Text() string { return "" }

func (s *Separator) Rebind(map[string]any) error { return nil }

func (s *Separator) Reset() error { return nil }
