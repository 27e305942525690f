package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scorecontrol/pkg/document"
)

// MustDecode parses a JSON document fixture. Integral numbers come back as
// int64, matching what the store loads from disk.
func MustDecode(t *testing.T, raw string) map[string]any {
	t.Helper()

	doc, err := document.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return doc
}

// WriteDocumentFile writes raw into a fresh temp dir and returns the path.
func WriteDocumentFile(t *testing.T, name, raw string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

// ReadDocumentFile loads and decodes the document at path.
func ReadDocumentFile(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	doc, err := document.Decode(data)
	if err != nil {
		t.Fatalf("decode document %s: %v", path, err)
	}
	return doc
}

// CompareDocuments returns a diff string if the documents differ.
func CompareDocuments(want, got map[string]any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file, typically a saved document under
// testdata/, and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v", path, err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden rewrites the golden file at path with data when
// UPDATE_GOLDENS is set and reports whether it did, so the caller can skip the
// comparison.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create golden dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden %s: %v", path, err)
	}
	return true
}
