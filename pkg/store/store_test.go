package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scorecontrol/pkg/document"
	"github.com/goliatone/go-scorecontrol/pkg/testsupport"
)

type memFS struct {
	files   map[string][]byte
	writes  int
	readErr error
	failing bool
}

func newMemFS(files map[string]string) *memFS {
	m := &memFS{files: make(map[string][]byte)}
	for name, body := range files {
		m.files[name] = []byte(body)
	}
	return m
}

func (m *memFS) ReadFile(name string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (m *memFS) WriteFile(name string, data []byte, _ fs.FileMode) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.writes++
	m.files[name] = append([]byte(nil), data...)
	return nil
}

func TestStore_SaveOnlyWhenDirty(t *testing.T) {
	fsys := newMemFS(map[string]string{
		"test-file.json": `{"left": {"playerName": "Dru" }}`,
	})
	s, err := New("test-file.json", WithFileSystem(fsys))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if !s.IsValid() {
		t.Fatalf("expected valid store")
	}

	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if fsys.writes != 0 {
		t.Fatalf("expected no write for unchanged document, got %d", fsys.writes)
	}

	if err := document.Set(s.Document(), "left.armyName", "elf"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("expected dirty document after write")
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if fsys.writes != 1 {
		t.Fatalf("expected exactly one write, got %d", fsys.writes)
	}

	saved := fsys.files["test-file.json"]
	golden := filepath.Join("testdata", "save_dirty.golden")
	if testsupport.WriteMaybeGolden(t, golden, saved) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if diff := cmp.Diff(want, string(saved)); diff != "" {
		t.Fatalf("file mismatch (-want +got):\n%s", diff)
	}

	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	if fsys.writes != 1 {
		t.Fatalf("expected no further writes, got %d", fsys.writes)
	}
}

func TestStore_MissingAndMalformed(t *testing.T) {
	fsys := newMemFS(map[string]string{
		"broken.json": `{"left": `,
		"array.json":  `[1, 2, 3]`,
	})

	for _, name := range []string{"missing.json", "broken.json", "array.json"} {
		s, err := New(name, WithFileSystem(fsys))
		if err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if s.IsValid() {
			t.Fatalf("%s: expected invalid store", name)
		}
		if s.Document() != nil {
			t.Fatalf("%s: expected nil document", name)
		}
		if err := s.Save(); err != nil {
			t.Fatalf("%s: save on invalid store: %v", name, err)
		}
	}
	if fsys.writes != 0 {
		t.Fatalf("invalid stores must not write, got %d writes", fsys.writes)
	}
}

func TestStore_ReadErrorPropagates(t *testing.T) {
	fsys := newMemFS(nil)
	fsys.readErr = fs.ErrPermission

	s, err := New("locked.json", WithFileSystem(fsys))
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if s.IsValid() {
		t.Fatalf("expected invalid store")
	}
}

func TestStore_FailedWriteRetries(t *testing.T) {
	fsys := newMemFS(map[string]string{"board.json": `{"roundNum": 1}`})
	s, err := New("board.json", WithFileSystem(fsys))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	s.Document()["roundNum"] = int64(2)

	fsys.failing = true
	if err := s.Save(); err == nil {
		t.Fatalf("expected write error")
	}
	if !s.Dirty() {
		t.Fatalf("failed write must keep the document dirty")
	}

	fsys.failing = false
	if err := s.Save(); err != nil {
		t.Fatalf("retry save: %v", err)
	}
	if fsys.writes != 1 || s.Dirty() {
		t.Fatalf("expected one successful write, got %d (dirty=%v)", fsys.writes, s.Dirty())
	}
}

func TestStore_SetPathReplacesDocument(t *testing.T) {
	fsys := newMemFS(map[string]string{
		"a.json": `{"name": "a"}`,
		"b.json": `{"name": "b"}`,
	})
	s, err := New("a.json", WithFileSystem(fsys))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	first := s.Document()

	if err := s.SetPath("b.json"); err != nil {
		t.Fatalf("set path: %v", err)
	}
	if s.Path() != "b.json" {
		t.Fatalf("expected path b.json, got %q", s.Path())
	}
	name, _ := document.Get(s.Document(), "name").AsString()
	if name != "b" {
		t.Fatalf("expected document b, got %q", name)
	}
	if oldName, _ := document.Get(first, "name").AsString(); oldName != "a" {
		t.Fatalf("previous document should be untouched, got %q", oldName)
	}
}

func TestStore_WriteHooks(t *testing.T) {
	fsys := newMemFS(map[string]string{"board.json": `{}`})
	s, err := New("board.json", WithFileSystem(fsys))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	var calls int
	s.OnWrite(func(doc map[string]any) {
		calls++
		if doc["roundOrder"] != "TOP" {
			t.Fatalf("hook saw stale document: %#v", doc)
		}
	})

	_ = s.Save()
	s.Document()["roundOrder"] = "TOP"
	_ = s.Save()
	_ = s.Save()

	if calls != 1 {
		t.Fatalf("expected hook to run once, got %d", calls)
	}
}

func TestStore_RealFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.json")
	if err := os.WriteFile(path, []byte(`{"left":{"commandPoints":3}}`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s, err := New(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := document.Set(s.Document(), "left.commandPoints", int64(4)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := New(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cp, _ := document.Get(reloaded.Document(), "left.commandPoints").AsInt(); cp != 4 {
		t.Fatalf("expected 4 after reload, got %d", cp)
	}
}
