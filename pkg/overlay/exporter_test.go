package overlay

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scorecontrol/pkg/layout"
	"github.com/goliatone/go-scorecontrol/pkg/store"
	"github.com/goliatone/go-scorecontrol/pkg/testsupport"
)

type memFS struct {
	files  map[string]string
	writes map[string]int
	fail   string
}

func newMemFS() *memFS {
	return &memFS{files: map[string]string{}, writes: map[string]int{}}
}

func (m *memFS) ReadFile(name string) ([]byte, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func (m *memFS) WriteFile(name string, data []byte, _ fs.FileMode) error {
	if m.fail != "" && filepath.Base(name) == m.fail {
		return errors.New("disk full")
	}
	m.files[name] = string(data)
	m.writes[name]++
	return nil
}

func (m *memFS) MkdirAll(string, fs.FileMode) error { return nil }

func testScreen() layout.Screen {
	return layout.Screen{
		ID:    "aos",
		Title: "Age of Sigmar",
		Overlay: []layout.OverlayFile{
			{File: "RoundNumber.txt", Path: "roundNum"},
			{File: "LeftPlayerName.txt", Path: "left.playerName"},
			{File: "LeftPlayerStatus.txt", Path: "left.playerStatus"},
		},
	}
}

func TestExport_WritesTextFiles(t *testing.T) {
	mem := newMemFS()
	exporter, err := New("out", testScreen(), WithFileSystem(mem), WithPage(""))
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	doc := testsupport.MustDecode(t, `{"roundNum": 2, "left": {"playerName": "<b>Dru</b>  &amp; co"}}`)

	if err := exporter.Export(doc); err != nil {
		t.Fatalf("export: %v", err)
	}
	want := map[string]string{
		filepath.Join("out", "RoundNumber.txt"):      "2",
		filepath.Join("out", "LeftPlayerName.txt"):   "Dru & co",
		filepath.Join("out", "LeftPlayerStatus.txt"): "",
	}
	if diff := cmp.Diff(want, mem.files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_SkipsUnchangedFiles(t *testing.T) {
	mem := newMemFS()
	exporter, err := New("out", testScreen(), WithFileSystem(mem))
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	doc := testsupport.MustDecode(t, `{"roundNum": 1, "left": {"playerName": "Dru"}}`)
	if err := exporter.Export(doc); err != nil {
		t.Fatalf("export: %v", err)
	}
	doc["roundNum"] = int64(2)
	if err := exporter.Export(doc); err != nil {
		t.Fatalf("export: %v", err)
	}

	writes := map[string]int{
		filepath.Join("out", "RoundNumber.txt"):      2,
		filepath.Join("out", "LeftPlayerName.txt"):   1,
		filepath.Join("out", "LeftPlayerStatus.txt"): 1,
		filepath.Join("out", DefaultPageName):        2,
	}
	if diff := cmp.Diff(writes, mem.writes); diff != "" {
		t.Fatalf("write counts mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_ExistingFileNotRewritten(t *testing.T) {
	mem := newMemFS()
	mem.files[filepath.Join("out", "RoundNumber.txt")] = "3"
	exporter, err := New("out", testScreen(), WithFileSystem(mem), WithPage(""))
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	if err := exporter.Export(map[string]any{"roundNum": int64(3)}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if mem.writes[filepath.Join("out", "RoundNumber.txt")] != 0 {
		t.Fatalf("expected matching file on disk to be left alone")
	}
}

func TestExport_NilDocument(t *testing.T) {
	mem := newMemFS()
	exporter, err := New("out", testScreen(), WithFileSystem(mem))
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	if err := exporter.Export(nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(mem.writes) != 0 {
		t.Fatalf("expected no writes, got %v", mem.writes)
	}
}

func TestExport_JoinsWriteErrors(t *testing.T) {
	mem := newMemFS()
	mem.fail = "LeftPlayerName.txt"
	exporter, err := New("out", testScreen(), WithFileSystem(mem), WithPage(""))
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	err = exporter.Export(map[string]any{"roundNum": int64(4)})
	if err == nil || !strings.Contains(err.Error(), "LeftPlayerName.txt") {
		t.Fatalf("expected write error, got %v", err)
	}
	if mem.files[filepath.Join("out", "RoundNumber.txt")] != "4" {
		t.Fatalf("other files should still be written")
	}
}

func TestExport_Page(t *testing.T) {
	mem := newMemFS()
	exporter, err := New("out", testScreen(), WithFileSystem(mem), WithRefresh(5))
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	doc := testsupport.MustDecode(t, `{"roundNum": 2, "left": {"playerName": "Dru & co", "playerStatus": "ACTIVE"}}`)
	if err := exporter.Export(doc); err != nil {
		t.Fatalf("export: %v", err)
	}

	page := mem.files[filepath.Join("out", DefaultPageName)]
	for _, want := range []string{
		`<title>Age of Sigmar</title>`,
		`content="5"`,
		`scoreboard--aos`,
		`data-file="LeftPlayerName.txt">Left Player Name</dt>`,
		`data-path="left.playerName">Dru &amp; co</dd>`,
		`data-path="left.playerStatus">ACTIVE</dd>`,
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q:\n%s", want, page)
		}
	}
}

func TestNew_CustomTemplate(t *testing.T) {
	files := fstest.MapFS{
		"mini.tpl": &fstest.MapFile{Data: []byte(`{% for item in items %}{{ item.label }}={{ item.value }};{% endfor %}`)},
	}
	mem := newMemFS()
	exporter, err := New("out", testScreen(), WithFileSystem(mem), WithTemplates(files, "mini.tpl"), WithPage("mini.txt"))
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	if err := exporter.Export(map[string]any{"roundNum": int64(1)}); err != nil {
		t.Fatalf("export: %v", err)
	}
	want := "Round Number=1;Left Player Name=;Left Player Status=;"
	if got := mem.files[filepath.Join("out", "mini.txt")]; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New("  ", testScreen()); !errors.Is(err, ErrNoDirectory) {
		t.Fatalf("expected ErrNoDirectory, got %v", err)
	}
	if _, err := New("out", testScreen(), WithTemplates(fstest.MapFS{}, "missing.tpl")); err == nil {
		t.Fatalf("expected template load error")
	}
}

func TestHook_RunsOnStoreSave(t *testing.T) {
	file := testsupport.WriteDocumentFile(t, "doc.json", `{"roundNum": 1}`)
	st, err := store.New(file)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "overlay")
	exporter, err := New(dir, testScreen())
	if err != nil {
		t.Fatalf("new exporter: %v", err)
	}
	st.OnWrite(exporter.Hook())

	st.Document()["roundNum"] = int64(3)
	if err := st.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "RoundNumber.txt"))
	if err != nil {
		t.Fatalf("read overlay file: %v", err)
	}
	if string(data) != "3" {
		t.Fatalf("expected 3, got %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultPageName)); err != nil {
		t.Fatalf("expected overlay page: %v", err)
	}
}

func TestLabelFor(t *testing.T) {
	cases := map[string]string{
		"LeftCommandPoints.txt": "Left Command Points",
		"RoundNumber.txt":       "Round Number",
		"round_order.txt":       "round order",
		"HP.txt":                "HP",
	}
	for in, want := range cases {
		if got := labelFor(in); got != want {
			t.Fatalf("labelFor(%q) = %q, want %q", in, got, want)
		}
	}
}
