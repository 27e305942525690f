package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecontrol/pkg/board"
	"github.com/goliatone/go-scorecontrol/pkg/controls"
	"github.com/goliatone/go-scorecontrol/pkg/records"
)

const (
	menuActions = "Actions"
	menuReset   = "Reset scores"
	menuSave    = "Save now"
	menuReload  = "Reload from disk"
	menuQuit    = "Quit"
	menuBack    = "Back"
	menuAdd     = "Add"
	menuEdit    = "Edit"
	menuDelete  = "Delete"
	menuEnter   = "Enter value"
)

// integerSteps are the stepper buttons in display order.
var integerSteps = []struct {
	label string
	delta int
}{
	{"-5", -controls.StepLarge},
	{"-1", -controls.StepSmall},
	{"+1", controls.StepSmall},
	{"+5", controls.StepLarge},
}

// Runner drives a board from the terminal: pick a section, edit its
// controls, manage record lists, run actions and reset scores.
type Runner struct {
	driver   PromptDriver
	out      io.Writer
	locker   sync.Locker
	save     func() error
	reload   func() error
	pageSize int
	theme    Theme
	logger   *zap.Logger
}

// New constructs a runner with defaults (survey driver on stdout).
func New(options ...Option) (*Runner, error) {
	r := &Runner{
		locker:   noopLocker{},
		pageSize: 15,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r, nil
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// Confirm asks a yes/no question defaulting to No. It satisfies
// records.Confirmer so list deletes prompt through the same driver.
func (r *Runner) Confirm(ctx context.Context, prompt string) (bool, error) {
	return r.driver.Confirm(ctx, ConfirmConfig{Message: prompt, Default: false})
}

var _ records.Confirmer = (*Runner)(nil)

// Run shows the main menu until the user quits. Aborting a prompt returns
// ErrAborted.
func (r *Runner) Run(ctx context.Context, b *board.Board) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if b == nil {
		return ErrNoBoard
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		type entry struct {
			label string
			run   func(context.Context) error
		}
		var entries []entry
		for _, section := range b.Sections() {
			section := section
			entries = append(entries, entry{section.Title, func(ctx context.Context) error {
				return r.editControls(ctx, section.Title, func() []controls.Control { return section.Controls })
			}})
		}
		for _, list := range b.Lists() {
			list := list
			entries = append(entries, entry{list.Title(), func(ctx context.Context) error {
				return r.editList(ctx, list)
			}})
		}
		if len(b.Screen().Actions) > 0 {
			entries = append(entries, entry{menuActions, func(ctx context.Context) error {
				return r.runAction(ctx, b)
			}})
		}
		entries = append(entries, entry{menuReset, func(ctx context.Context) error {
			return r.resetScores(ctx, b)
		}})
		if r.save != nil {
			entries = append(entries, entry{menuSave, func(ctx context.Context) error {
				return r.report(ctx, "Saved", r.save())
			}})
		}
		if r.reload != nil {
			entries = append(entries, entry{menuReload, func(ctx context.Context) error {
				return r.report(ctx, "Reloaded", r.reload())
			}})
		}

		labels := make([]string, 0, len(entries)+1)
		for _, e := range entries {
			labels = append(labels, e.label)
		}
		labels = append(labels, menuQuit)

		idx, err := r.selectOne(ctx, screenTitle(b), labels, 0)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(entries) {
			r.logger.Debug("menu closed", zap.String("screen", b.Screen().ID))
			return nil
		}
		if err := entries[idx].run(ctx); err != nil {
			return err
		}
	}
}

// editControls lists controls until Back is chosen. The list is re-read on
// every pass so a detail pane that was rebound shows its new values.
func (r *Runner) editControls(ctx context.Context, title string, list func() []controls.Control) error {
	for {
		items := list()
		labels := make([]string, 0, len(items)+1)
		for _, c := range items {
			labels = append(labels, controlLabel(c))
		}
		labels = append(labels, menuBack)

		idx, err := r.selectOne(ctx, title, labels, 0)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(items) {
			return nil
		}
		if err := r.editControl(ctx, items[idx]); err != nil {
			return err
		}
	}
}

func (r *Runner) editControl(ctx context.Context, c controls.Control) error {
	if _, ok := c.(*controls.Separator); ok {
		return nil
	}
	if !c.Enabled() {
		if _, ok := c.(*controls.ChoiceField); ok {
			return r.info(ctx, fmt.Sprintf("%s has no options", c.Label()))
		}
		return r.info(ctx, fmt.Sprintf("%s is disabled", c.Label()))
	}

	switch field := c.(type) {
	case *controls.TextField:
		text, err := r.driver.Input(ctx, InputConfig{Message: field.Label(), Default: field.Text()})
		if err != nil {
			return err
		}
		return r.report(ctx, "", r.locked(func() error { return field.SetText(text) }))
	case *controls.IntegerField:
		return r.editInteger(ctx, field)
	case *controls.ChoiceField:
		idx, err := r.selectOne(ctx, field.Label(), field.Options(), field.Selected())
		if err != nil {
			return err
		}
		return r.report(ctx, "", r.locked(func() error { return field.Select(idx) }))
	}
	return r.info(ctx, fmt.Sprintf("%s cannot be edited here", c.Label()))
}

func (r *Runner) editInteger(ctx context.Context, field *controls.IntegerField) error {
	labels := make([]string, 0, len(integerSteps)+2)
	for _, step := range integerSteps {
		labels = append(labels, step.label)
	}
	labels = append(labels, menuEnter, menuBack)

	for {
		idx, err := r.selectOne(ctx, fmt.Sprintf("%s (%s)", field.Label(), field.Text()), labels, len(labels)-1)
		if err != nil {
			return err
		}
		switch {
		case idx >= 0 && idx < len(integerSteps):
			delta := integerSteps[idx].delta
			if err := r.report(ctx, "", r.locked(func() error { return field.Step(delta) })); err != nil {
				return err
			}
		case idx == len(integerSteps):
			text, err := r.driver.Input(ctx, InputConfig{
				Message: field.Label(),
				Default: field.Text(),
				Help:    fmt.Sprintf("whole number from %d to %d", controls.EntryMin, controls.EntryMax),
			})
			if err != nil {
				return err
			}
			if err := r.report(ctx, "", r.locked(func() error { return field.SetText(text) })); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (r *Runner) editList(ctx context.Context, editor *records.Editor) error {
	for {
		lines := editor.Lines()
		labels := make([]string, 0, len(lines)+2)
		for _, line := range lines {
			labels = append(labels, line.Name())
		}
		labels = append(labels, menuAdd, menuBack)

		idx, err := r.selectOne(ctx, editor.Title(), labels, 0)
		if err != nil {
			return err
		}
		switch {
		case idx >= 0 && idx < len(lines):
			if err := r.editRecord(ctx, editor, idx); err != nil {
				return err
			}
		case idx == len(lines):
			var added records.Line
			err := r.locked(func() error {
				var addErr error
				added, addErr = editor.Add()
				return addErr
			})
			if err != nil {
				if err := r.report(ctx, "", err); err != nil {
					return err
				}
				continue
			}
			if err := r.editControls(ctx, added.Name(), editor.Detail().Controls); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (r *Runner) editRecord(ctx context.Context, editor *records.Editor, index int) error {
	name := editor.Lines()[index].Name()
	idx, err := r.selectOne(ctx, name, []string{menuEdit, menuDelete, menuBack}, 0)
	if err != nil {
		return err
	}
	switch idx {
	case 0:
		if err := r.locked(func() error { return editor.Edit(index) }); err != nil {
			return r.report(ctx, "", err)
		}
		return r.editControls(ctx, name, editor.Detail().Controls)
	case 1:
		// Delete prompts while the lock is held; autosave waits for the answer.
		var deleted bool
		err := r.locked(func() error {
			var delErr error
			deleted, delErr = editor.Delete(ctx, index)
			return delErr
		})
		if err != nil {
			if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
				return err
			}
			return r.report(ctx, "", err)
		}
		if deleted {
			return r.info(ctx, fmt.Sprintf("Deleted %s", name))
		}
	}
	return nil
}

func (r *Runner) runAction(ctx context.Context, b *board.Board) error {
	actions := b.Screen().Actions
	labels := make([]string, 0, len(actions)+1)
	for _, action := range actions {
		label := action.Label
		if label == "" {
			label = action.ID
		}
		labels = append(labels, label)
	}
	labels = append(labels, menuBack)

	idx, err := r.selectOne(ctx, menuActions, labels, 0)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(actions) {
		return nil
	}
	id := actions[idx].ID
	return r.report(ctx, labels[idx], r.locked(func() error { return b.Apply(id) }))
}

func (r *Runner) resetScores(ctx context.Context, b *board.Board) error {
	ok, err := r.Confirm(ctx, "Reset every score on the board?")
	if err != nil || !ok {
		return err
	}
	return r.report(ctx, "Scores reset", r.locked(b.ResetScores))
}

func (r *Runner) selectOne(ctx context.Context, message string, options []string, def int) (int, error) {
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      message,
		Options:      options,
		DefaultIndex: def,
		PageSize:     r.pageSize,
	})
	if err != nil {
		return -1, err
	}
	return idx, nil
}

func (r *Runner) locked(fn func() error) error {
	r.locker.Lock()
	defer r.locker.Unlock()
	return fn()
}

// report prints err, or ok when it is not empty. Only driver failures are
// returned; edit errors are shown and the menu carries on.
func (r *Runner) report(ctx context.Context, ok string, err error) error {
	if err != nil {
		r.logger.Debug("edit rejected", zap.Error(err))
		return r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
	}
	if ok == "" {
		return nil
	}
	return r.info(ctx, ok)
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func controlLabel(c controls.Control) string {
	if _, ok := c.(*controls.Separator); ok {
		return "--- " + c.Label() + " ---"
	}
	if field, ok := c.(*controls.ChoiceField); ok && field.Current() != field.Text() && field.Current() != "" {
		return c.Label() + ": " + strconv.Quote(field.Current())
	}
	return c.Label() + ": " + c.Text()
}

func screenTitle(b *board.Board) string {
	if title := b.Screen().Title; title != "" {
		return title
	}
	return b.Screen().ID
}
