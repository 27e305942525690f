package records

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecontrol/pkg/controls"
	"github.com/goliatone/go-scorecontrol/pkg/document"
	"github.com/goliatone/go-scorecontrol/pkg/form"
	"github.com/goliatone/go-scorecontrol/pkg/model"
)

// NewRecordName is the name given to records created by Add.
const NewRecordName = "New Object"

// NameField is the implicit leading descriptor of every detail pane.
var NameField = model.Descriptor{Kind: model.KindText, Label: "Object Name", Path: "name"}

var (
	// ErrNoDocument is returned by edits against an editor without a document.
	ErrNoDocument = errors.New("records: no document")
	// ErrLineOutOfRange is returned for a line index that does not exist.
	ErrLineOutOfRange = errors.New("records: line index out of range")
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (fn ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return fn(ctx, prompt)
}

type declineAll struct{}

func (declineAll) Confirm(context.Context, string) (bool, error) { return false, nil }

// Option customises an Editor.
type Option func(*Editor)

// WithConfirmer sets the delete confirmation. Without one every delete is
// declined.
func WithConfirmer(c Confirmer) Option {
	return func(e *Editor) {
		if c != nil {
			e.confirm = c
		}
	}
}

// WithBuilder injects the form builder used for the detail pane.
func WithBuilder(b *form.Builder) Option {
	return func(e *Editor) {
		if b != nil {
			e.builder = b
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Line is one entry of the record list. It references the record itself, so
// its name follows edits made through the detail pane.
type Line struct {
	record map[string]any
}

// Name reads the record's current name.
func (l Line) Name() string {
	name, _ := l.record["name"].(string)
	return name
}

// Record returns the referenced record.
func (l Line) Record() map[string]any { return l.record }

// Editor manages an array of named records at a fixed document path plus a
// detail form bound to the active record.
type Editor struct {
	title   string
	doc     map[string]any
	path    document.Path
	lines   []Line
	active  map[string]any
	detail  *form.Form
	confirm Confirmer
	builder *form.Builder
	logger  *zap.Logger
}

// New binds an editor to the array at path in doc, creating an empty array
// when the path is absent. The detail pane shows an "Object Name" field
// followed by layout; layout itself is not modified.
func New(title string, doc map[string]any, path string, layout model.Layout, options ...Option) (*Editor, error) {
	p, err := document.ParsePath(path)
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}
	e := &Editor{
		title:   title,
		path:    p,
		confirm: declineAll{},
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.builder == nil {
		e.builder = form.NewBuilder(form.WithLogger(e.logger))
	}

	if err := e.bind(doc); err != nil {
		return nil, err
	}
	detail, err := e.builder.Build(layout.Prepend(NameField), form.Scope{Source: doc})
	if err != nil {
		return nil, fmt.Errorf("records: %s detail: %w", title, err)
	}
	e.detail = detail
	return e, nil
}

// bind loads the line list from doc.
func (e *Editor) bind(doc map[string]any) error {
	e.doc = doc
	e.lines = nil
	e.active = nil
	if doc == nil {
		return nil
	}

	val := document.Lookup(doc, e.path)
	if val.IsAbsent() {
		if err := document.Assign(doc, e.path, []any{}); err != nil {
			return fmt.Errorf("records: create %q: %w", e.path.String(), err)
		}
		return nil
	}
	items, ok := val.AsArray()
	if !ok {
		return fmt.Errorf("%w: records at %q hold %s", controls.ErrTypeMismatch, e.path.String(), val.Kind())
	}
	for i, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: record %d at %q is %T", controls.ErrTypeMismatch, i, e.path.String(), item)
		}
		e.lines = append(e.lines, Line{record: record})
	}
	return nil
}

func (e *Editor) Title() string { return e.title }

// Path returns the path of the backing array.
func (e *Editor) Path() string { return e.path.String() }

// Lines returns the record list in display order.
func (e *Editor) Lines() []Line {
	return append([]Line(nil), e.lines...)
}

// Active returns the record the detail pane edits, or nil.
func (e *Editor) Active() map[string]any { return e.active }

// Detail returns the detail form.
func (e *Editor) Detail() *form.Form { return e.detail }

// Add appends a record named NewRecordName, lists it and makes it active.
func (e *Editor) Add() (Line, error) {
	if e.doc == nil {
		return Line{}, ErrNoDocument
	}
	items, err := e.records()
	if err != nil {
		return Line{}, err
	}
	record := map[string]any{"name": NewRecordName}
	if err := document.Assign(e.doc, e.path, append(items, record)); err != nil {
		return Line{}, fmt.Errorf("records: append to %q: %w", e.path.String(), err)
	}
	line := Line{record: record}
	e.lines = append(e.lines, line)
	e.logger.Debug("record added", zap.String("list", e.title), zap.Int("lines", len(e.lines)))
	return line, e.setActive(record)
}

// Edit makes the record of line index active.
func (e *Editor) Edit(index int) error {
	if index < 0 || index >= len(e.lines) {
		return fmt.Errorf("%w: %d of %d", ErrLineOutOfRange, index, len(e.lines))
	}
	return e.setActive(e.lines[index].record)
}

func (e *Editor) setActive(record map[string]any) error {
	e.active = record
	return e.detail.RebindTarget(record)
}

// Delete asks for confirmation, then removes the first record whose name
// equals the line's current name and drops the line. It reports whether the
// record was removed. The detail pane keeps its binding, so deleting the
// active record leaves the pane editing a record that is no longer listed.
func (e *Editor) Delete(ctx context.Context, index int) (bool, error) {
	if index < 0 || index >= len(e.lines) {
		return false, fmt.Errorf("%w: %d of %d", ErrLineOutOfRange, index, len(e.lines))
	}
	name := e.lines[index].Name()
	ok, err := e.confirm.Confirm(ctx, fmt.Sprintf("Are you sure you would like to delete %s? This cannot be undone.", name))
	if err != nil {
		return false, fmt.Errorf("records: confirm delete: %w", err)
	}
	if !ok {
		return false, nil
	}

	items, err := e.records()
	if err != nil {
		return false, err
	}
	kept := make([]any, 0, len(items))
	removed := false
	for _, item := range items {
		if record, isRecord := item.(map[string]any); !removed && isRecord && record["name"] == name {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if err := document.Assign(e.doc, e.path, kept); err != nil {
		return false, fmt.Errorf("records: write %q: %w", e.path.String(), err)
	}
	e.lines = append(e.lines[:index:index], e.lines[index+1:]...)
	e.logger.Debug("record deleted",
		zap.String("list", e.title),
		zap.String("name", name),
		zap.Bool("matched", removed))
	return true, nil
}

// Rebind reloads the editor from doc after the document was replaced: lines
// are rebuilt, nothing is active and the detail pane reads candidates from
// doc.
func (e *Editor) Rebind(doc map[string]any) error {
	if err := e.bind(doc); err != nil {
		return err
	}
	if err := e.detail.RebindSource(doc); err != nil {
		return err
	}
	return e.detail.RebindTarget(nil)
}

func (e *Editor) records() ([]any, error) {
	val := document.Lookup(e.doc, e.path)
	if val.IsAbsent() {
		return nil, nil
	}
	items, ok := val.AsArray()
	if !ok {
		return nil, fmt.Errorf("%w: records at %q hold %s", controls.ErrTypeMismatch, e.path.String(), val.Kind())
	}
	return items, nil
}
