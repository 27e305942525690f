package controls

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTextField_ReadsAndWritesThrough(t *testing.T) {
	doc := map[string]any{"left": map[string]any{"playerName": "Dru"}}

	f, err := NewText("Left Player", doc, "left.playerName")
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	if f.Label() != "Left Player" || f.Text() != "Dru" || !f.Enabled() || f.IsNew() {
		t.Fatalf("unexpected initial state: label=%q text=%q enabled=%v new=%v", f.Label(), f.Text(), f.Enabled(), f.IsNew())
	}

	for _, typed := range []string{"A", "An", "Ana"} {
		if err := f.SetText(typed); err != nil {
			t.Fatalf("set text %q: %v", typed, err)
		}
		if got := doc["left"].(map[string]any)["playerName"]; got != typed {
			t.Fatalf("expected document to follow keystroke %q, got %#v", typed, got)
		}
	}
}

func TestTextField_AbsentIsNew(t *testing.T) {
	doc := map[string]any{}
	f, err := NewText("Right Player", doc, "right.playerName")
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	if f.Text() != "" || !f.IsNew() {
		t.Fatalf("expected empty new field, got %q new=%v", f.Text(), f.IsNew())
	}
	if len(doc) != 0 {
		t.Fatalf("reading a text field must not write: %#v", doc)
	}

	if err := f.SetText("Bo"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	want := map[string]any{"right": map[string]any{"playerName": "Bo"}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if f.IsNew() {
		t.Fatalf("field should no longer be new after an edit")
	}
}

func TestTextField_IntegerDisplay(t *testing.T) {
	doc := map[string]any{"roundNum": int64(3)}
	f, err := NewText("Round", doc, "roundNum")
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	if f.Text() != "3" {
		t.Fatalf("expected integer rendered as \"3\", got %q", f.Text())
	}
}

func TestTextField_TypeMismatch(t *testing.T) {
	doc := map[string]any{
		"left":  map[string]any{"playerName": "Dru"},
		"list":  []any{},
		"ratio": 1.5,
	}
	for _, path := range []string{"left", "list", "ratio"} {
		if _, err := NewText("bad", doc, path); !errors.Is(err, ErrTypeMismatch) {
			t.Fatalf("%s: expected ErrTypeMismatch, got %v", path, err)
		}
	}
}

func TestTextField_DisabledUntilRebind(t *testing.T) {
	f, err := NewText("Left Player", nil, "left.playerName")
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	if f.Enabled() || f.Text() != "" {
		t.Fatalf("expected disabled empty field")
	}
	if err := f.SetText("x"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}

	doc := map[string]any{"left": map[string]any{"playerName": "Dru"}}
	if err := f.Rebind(doc); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if !f.Enabled() || f.Text() != "Dru" {
		t.Fatalf("expected enabled field showing Dru, got %q enabled=%v", f.Text(), f.Enabled())
	}

	if err := f.Rebind(nil); err != nil {
		t.Fatalf("rebind nil: %v", err)
	}
	if f.Enabled() || f.Text() != "" {
		t.Fatalf("expected disabled after rebinding to nil")
	}
}

func TestTextField_Reset(t *testing.T) {
	doc := map[string]any{"left": map[string]any{"playerName": "Dru", "status": "ACTIVE"}}

	plain, err := NewText("Player", doc, "left.playerName")
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	if err := plain.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if plain.Text() != "Dru" || doc["left"].(map[string]any)["playerName"] != "Dru" {
		t.Fatalf("reset without value must be a no-op")
	}

	withReset, err := NewText("Status", doc, "left.status", WithReset(""))
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	if err := withReset.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if withReset.Text() != "" || doc["left"].(map[string]any)["status"] != "" {
		t.Fatalf("expected status cleared, got %#v", doc["left"])
	}
}

func TestTextField_OnChange(t *testing.T) {
	var seen []string
	f, err := NewText("Player", map[string]any{}, "left.playerName", WithOnChange(func(path string) {
		seen = append(seen, path)
	}))
	if err != nil {
		t.Fatalf("new text: %v", err)
	}
	_ = f.SetText("a")
	_ = f.SetText("ab")
	if diff := cmp.Diff([]string{"left.playerName", "left.playerName"}, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}
