package records

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scorecontrol/pkg/controls"
	"github.com/goliatone/go-scorecontrol/pkg/model"
	"github.com/goliatone/go-scorecontrol/pkg/testsupport"
)

var confirmYes = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

func detailLayout() model.Layout {
	return model.Layout{
		{Kind: model.KindText, Label: "text widget", Path: "textValue"},
		{Kind: model.KindInteger, Label: "integer widget", Path: "intValue"},
	}
}

func lineNames(e *Editor) []string {
	var names []string
	for _, line := range e.Lines() {
		names = append(names, line.Name())
	}
	return names
}

func TestEditor_AddAndDelete(t *testing.T) {
	data := map[string]any{"key": []any{}}
	e, err := New("test", data, "key", nil, WithConfirmer(confirmYes))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	if _, err := e.Add(); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(e.Lines()) != 1 {
		t.Fatalf("expected one line, got %d", len(e.Lines()))
	}
	want := []any{map[string]any{"name": "New Object"}}
	if diff := cmp.Diff(want, data["key"]); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	deleted, err := e.Delete(context.Background(), 0)
	if err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}
	if len(e.Lines()) != 0 {
		t.Fatalf("expected no lines, got %d", len(e.Lines()))
	}
	if diff := cmp.Diff([]any{}, data["key"]); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_CreatesMissingArray(t *testing.T) {
	data := map[string]any{}
	e, err := New("Factions", data, "40kFactions", nil)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if len(e.Lines()) != 0 || e.Active() != nil {
		t.Fatalf("expected empty editor")
	}
	if diff := cmp.Diff(map[string]any{"40kFactions": []any{}}, data); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_RejectsNonArray(t *testing.T) {
	data := map[string]any{"key": "nope"}
	if _, err := New("test", data, "key", nil); !errors.Is(err, controls.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	data = map[string]any{"key": []any{"nope"}}
	if _, err := New("test", data, "key", nil); !errors.Is(err, controls.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch for non-record element, got %v", err)
	}
}

func TestEditor_NilDocument(t *testing.T) {
	e, err := New("test", nil, "key", detailLayout())
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if len(e.Lines()) != 0 || e.Active() != nil {
		t.Fatalf("expected empty editor without a document")
	}
	if _, err := e.Add(); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
	for _, c := range e.Detail().Controls() {
		if c.Enabled() {
			t.Fatalf("%s should be disabled", c.Label())
		}
	}
}

func TestEditor_DetailPane(t *testing.T) {
	data := testsupport.MustDecode(t, `{"index": [
        {"name": "ItemName", "textValue": "text text", "intValue": 111},
        {"name": "OtherItem", "textValue": "other text", "intValue": 222}
    ]}`)
	layout := detailLayout()
	e, err := New("editor", data, "index", layout)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if len(layout) != 2 {
		t.Fatalf("caller layout must not grow, got %d", len(layout))
	}

	var labels []string
	for _, c := range e.Detail().Controls() {
		labels = append(labels, c.Label())
		if c.Enabled() {
			t.Fatalf("detail should be disabled before a record is edited")
		}
	}
	if diff := cmp.Diff([]string{"Object Name", "text widget", "integer widget"}, labels); diff != "" {
		t.Fatalf("detail labels mismatch (-want +got):\n%s", diff)
	}

	if err := e.Edit(1); err != nil {
		t.Fatalf("edit: %v", err)
	}
	var texts []string
	for _, c := range e.Detail().Controls() {
		texts = append(texts, c.Text())
	}
	if diff := cmp.Diff([]string{"OtherItem", "other text", "222"}, texts); diff != "" {
		t.Fatalf("detail texts mismatch (-want +got):\n%s", diff)
	}

	name, _ := e.Detail().Lookup("name")
	if err := name.(*controls.TextField).SetText("Renamed"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if diff := cmp.Diff([]string{"ItemName", "Renamed"}, lineNames(e)); diff != "" {
		t.Fatalf("line names should follow the record (-want +got):\n%s", diff)
	}

	if err := e.Edit(5); !errors.Is(err, ErrLineOutOfRange) {
		t.Fatalf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestEditor_AddMaterialisesDetailDefaults(t *testing.T) {
	data := map[string]any{"index": []any{}}
	e, err := New("editor", data, "index", detailLayout())
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if _, err := e.Add(); err != nil {
		t.Fatalf("add: %v", err)
	}
	want := []any{map[string]any{"name": "New Object", "intValue": int64(0)}}
	if diff := cmp.Diff(want, data["index"]); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	if e.Active()["name"] != "New Object" {
		t.Fatalf("new record should be active")
	}
}

func TestEditor_DeleteDeclinedByDefault(t *testing.T) {
	data := testsupport.MustDecode(t, `{"key": [{"name": "A"}]}`)
	e, err := New("test", data, "key", nil)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	deleted, err := e.Delete(context.Background(), 0)
	if err != nil || deleted {
		t.Fatalf("expected declined delete, got deleted=%v err=%v", deleted, err)
	}
	if len(e.Lines()) != 1 || len(data["key"].([]any)) != 1 {
		t.Fatalf("declined delete must not change anything")
	}
}

func TestEditor_DeleteFirstMatchingName(t *testing.T) {
	data := testsupport.MustDecode(t, `{"key": [
        {"name": "Dup", "n": 1},
        {"name": "Other"},
        {"name": "Dup", "n": 2}
    ]}`)
	var prompts []string
	e, err := New("test", data, "key", nil, WithConfirmer(ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		prompts = append(prompts, prompt)
		return true, nil
	})))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	if _, err := e.Delete(context.Background(), 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := testsupport.MustDecode(t, `{"key": [{"name": "Other"}, {"name": "Dup", "n": 2}]}`)
	if diff := testsupport.CompareDocuments(want, data); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Dup", "Other"}, lineNames(e)); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if len(prompts) != 1 || prompts[0] != "Are you sure you would like to delete Dup? This cannot be undone." {
		t.Fatalf("unexpected prompts: %q", prompts)
	}
}

func TestEditor_DeleteActiveKeepsStaleDetail(t *testing.T) {
	data := testsupport.MustDecode(t, `{"key": [{"name": "A", "textValue": "x"}]}`)
	e, err := New("test", data, "key", detailLayout(), WithConfirmer(confirmYes))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if err := e.Edit(0); err != nil {
		t.Fatalf("edit: %v", err)
	}
	active := e.Active()
	if _, err := e.Delete(context.Background(), 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if e.Active() == nil || e.Active()["name"] != active["name"] {
		t.Fatalf("active record should be left in place")
	}
	name, _ := e.Detail().Lookup("name")
	if !name.Enabled() || name.Text() != "A" {
		t.Fatalf("detail should still show the removed record, got %q", name.Text())
	}
}

func TestEditor_DeleteConfirmError(t *testing.T) {
	data := testsupport.MustDecode(t, `{"key": [{"name": "A"}]}`)
	boom := errors.New("tty closed")
	e, err := New("test", data, "key", nil, WithConfirmer(ConfirmFunc(func(context.Context, string) (bool, error) {
		return false, boom
	})))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if _, err := e.Delete(context.Background(), 0); !errors.Is(err, boom) {
		t.Fatalf("expected confirm error, got %v", err)
	}
}

func TestEditor_Rebind(t *testing.T) {
	first := testsupport.MustDecode(t, `{
        "factions": [{"name": "Orks"}, {"name": "Custodes"}],
        "players": [{"name": "Dru", "faction": "Orks"}]
    }`)
	layout := model.Layout{{Kind: model.KindChoice, Label: "Faction", Path: "faction", ItemsPath: "factions"}}
	e, err := New("Players", first, "players", layout)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if err := e.Edit(0); err != nil {
		t.Fatalf("edit: %v", err)
	}

	second := testsupport.MustDecode(t, `{
        "factions": [{"name": "Sylvaneth"}],
        "players": [{"name": "Kai", "faction": "Sylvaneth"}, {"name": "Bo"}]
    }`)
	if err := e.Rebind(second); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if diff := cmp.Diff([]string{"Kai", "Bo"}, lineNames(e)); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if e.Active() != nil {
		t.Fatalf("rebind should clear the active record")
	}
	if err := e.Edit(0); err != nil {
		t.Fatalf("edit: %v", err)
	}
	faction, _ := e.Detail().Lookup("faction")
	choice := faction.(*controls.ChoiceField)
	if diff := cmp.Diff([]string{"Sylvaneth"}, choice.Options()); diff != "" {
		t.Fatalf("options should come from the new document (-want +got):\n%s", diff)
	}
}
