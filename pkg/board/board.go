package board

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecontrol/pkg/controls"
	"github.com/goliatone/go-scorecontrol/pkg/document"
	"github.com/goliatone/go-scorecontrol/pkg/form"
	"github.com/goliatone/go-scorecontrol/pkg/layout"
	"github.com/goliatone/go-scorecontrol/pkg/model"
	"github.com/goliatone/go-scorecontrol/pkg/records"
)

// ErrUnknownAction is returned by Apply for an action id the screen does not
// define.
var ErrUnknownAction = errors.New("board: unknown action")

// Option customises a Board.
type Option func(*Board)

// WithBuilder injects the form builder shared by the main form and the list
// editors.
func WithBuilder(b *form.Builder) Option {
	return func(bd *Board) {
		if b != nil {
			bd.builder = b
		}
	}
}

// WithConfirmer sets the delete confirmation used by every list editor.
func WithConfirmer(c records.Confirmer) Option {
	return func(bd *Board) {
		bd.confirm = c
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(bd *Board) {
		if logger != nil {
			bd.logger = logger
		}
	}
}

// Section is a titled run of controls in the main form.
type Section struct {
	Title    string
	Controls []controls.Control
}

// Board is the scoreboard editor for one screen: the main form holding the
// header, both player columns and their round tabs, plus one record list
// editor per list.
type Board struct {
	screen   layout.Screen
	doc      map[string]any
	builder  *form.Builder
	confirm  records.Confirmer
	logger   *zap.Logger
	main     *form.Form
	sections []Section
	lists    []*records.Editor
}

// New builds the board for screen against doc. A nil doc yields a disabled
// board that becomes usable after Rebind.
func New(screen layout.Screen, doc map[string]any, options ...Option) (*Board, error) {
	b := &Board{
		screen: screen,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	if b.builder == nil {
		b.builder = form.NewBuilder(form.WithLogger(b.logger))
	}

	b.doc = doc
	if err := b.ensureRounds(doc); err != nil {
		return nil, err
	}

	main, err := b.builder.Build(nil, form.Scope{Target: doc, Source: doc})
	if err != nil {
		return nil, err
	}
	b.main = main

	if err := b.addSection("Scoreboard", screen.Header); err != nil {
		return nil, err
	}
	for _, col := range screen.Columns {
		if err := b.addSection(col.Title, col.Fields); err != nil {
			return nil, err
		}
		if len(col.Round) == 0 {
			continue
		}
		for i := 0; i < screen.Rounds; i++ {
			title := fmt.Sprintf("%s: Round %d Scoring", col.Title, i+1)
			if err := b.addSection(title, col.RoundLayout(i)); err != nil {
				return nil, err
			}
		}
	}

	for _, list := range screen.Lists {
		opts := []records.Option{records.WithBuilder(b.builder), records.WithLogger(b.logger)}
		if b.confirm != nil {
			opts = append(opts, records.WithConfirmer(b.confirm))
		}
		editor, err := records.New(list.Title, doc, list.Path, list.Fields, opts...)
		if err != nil {
			return nil, fmt.Errorf("board: list %q: %w", list.Title, err)
		}
		b.lists = append(b.lists, editor)
	}

	b.logger.Info("board built",
		zap.String("screen", screen.ID),
		zap.Int("controls", b.main.Len()),
		zap.Int("lists", len(b.lists)))
	return b, nil
}

func (b *Board) addSection(title string, l model.Layout) error {
	if len(l) == 0 {
		return nil
	}
	start := b.main.Len()
	if err := b.main.Add(l); err != nil {
		return fmt.Errorf("board: section %q: %w", title, err)
	}
	b.sections = append(b.sections, Section{
		Title:    title,
		Controls: b.main.Controls()[start:],
	})
	return nil
}

// ensureRounds grows every column's round array so round fields have a
// record to bind to.
func (b *Board) ensureRounds(doc map[string]any) error {
	if doc == nil {
		return nil
	}
	for _, col := range b.screen.Columns {
		if len(col.Round) == 0 {
			continue
		}
		if err := document.EnsureArray(doc, col.RoundsPath, b.screen.Rounds); err != nil {
			return fmt.Errorf("board: column %q rounds: %w", col.Name, err)
		}
	}
	return nil
}

// Screen returns the screen definition.
func (b *Board) Screen() layout.Screen { return b.screen }

// Document returns the document the board is bound to.
func (b *Board) Document() map[string]any { return b.doc }

// Form returns the main form.
func (b *Board) Form() *form.Form { return b.main }

// Sections returns the main form grouped by header, column and round.
func (b *Board) Sections() []Section {
	return append([]Section(nil), b.sections...)
}

// Lists returns the record list editors in screen order.
func (b *Board) Lists() []*records.Editor {
	return append([]*records.Editor(nil), b.lists...)
}

// ResetScores writes the reset value of every main form control that has one.
func (b *Board) ResetScores() error {
	err := b.main.ResetAll()
	b.logger.Info("scoreboard reset", zap.String("screen", b.screen.ID), zap.Error(err))
	return err
}

// Apply runs the action with id, writing its values and refreshing the
// controls bound to the written paths.
func (b *Board) Apply(id string) error {
	action, ok := b.screen.Action(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, id)
	}
	if b.doc == nil {
		return controls.ErrDisabled
	}
	var errs []error
	for _, set := range action.Set {
		value, err := model.ResetScalar(set.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("board: action %q: %w", id, err))
			continue
		}
		if err := document.Set(b.doc, set.Path, value); err != nil {
			errs = append(errs, fmt.Errorf("board: action %q: %w", id, err))
			continue
		}
		if control, ok := b.main.Lookup(set.Path); ok {
			if err := control.Rebind(b.doc); err != nil {
				errs = append(errs, err)
			}
		}
		b.main.Changed(set.Path)
	}
	b.logger.Debug("action applied", zap.String("action", id))
	return errors.Join(errs...)
}

// Rebind points the whole board at doc after the document was replaced.
// It has the signature of a session reload listener.
func (b *Board) Rebind(doc map[string]any) error {
	b.doc = doc
	if err := b.ensureRounds(doc); err != nil {
		return err
	}
	errs := []error{b.main.RebindAll(doc)}
	for _, editor := range b.lists {
		errs = append(errs, editor.Rebind(doc))
	}
	return errors.Join(errs...)
}
