package controls

import "github.com/goliatone/go-scorecontrol/pkg/document"

// TextField edits a string slot. Integers already stored at the path display
// as their decimal form; the next edit stores a string.
type TextField struct {
	label string
	path  document.Path
	doc   map[string]any
	text  string
	isNew bool
	cfg   config
}

// NewText binds a text field to path in doc. A nil doc yields a disabled
// field that becomes usable after Rebind.
func NewText(label string, doc map[string]any, path string, options ...Option) (*TextField, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	f := &TextField{
		label: label,
		path:  p,
		doc:   doc,
		cfg:   newConfig(options),
	}
	if err := f.read(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *TextField) read() error {
	f.text = ""
	f.isNew = false
	if f.doc == nil {
		return nil
	}
	val := document.Lookup(f.doc, f.path)
	text, ok := val.Text()
	if !ok {
		return typeMismatch("text", f.path, val.Kind())
	}
	f.text = text
	f.isNew = val.IsAbsent()
	return nil
}

func (f *TextField) Label() string { return f.label }

func (f *TextField) Path() string { return f.path.String() }

func (f *TextField) Enabled() bool { return f.doc != nil }

func (f *TextField) Text() string { return f.text }

// IsNew reports that the path had no value when last read; the next edit
// creates it.
func (f *TextField) IsNew() bool { return f.isNew }

// SetText applies an edit and writes it through immediately.
func (f *TextField) SetText(text string) error {
	if f.doc == nil {
		return ErrDisabled
	}
	if err := f.cfg.write(f.doc, f.path, text); err != nil {
		return err
	}
	f.text = text
	f.isNew = false
	return nil
}

func (f *TextField) Rebind(doc map[string]any) error {
	f.doc = doc
	return f.read()
}

func (f *TextField) Reset() error {
	if !f.cfg.hasReset || f.doc == nil {
		return nil
	}
	return f.SetText(resetText(f.cfg.reset))
}
