package docs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestRefreshLoadsTxtFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "alpha.txt", "alpha content")
	writeDoc(t, dir, "beta.TXT", "beta content")
	writeDoc(t, dir, "notes.md", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("failed to create subdir: %v", err)
	}
	writeDoc(t, dir, filepath.Join("nested", "deep.txt"), "ignored too")

	reader := NewReader(dir)
	if err := reader.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	docs, err := reader.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	for _, d := range docs {
		if d.Content == "" || d.SizeBytes == 0 || d.LastModified.IsZero() {
			t.Fatalf("incomplete document metadata: %+v", d)
		}
	}
}

func TestByFileNameCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "Policy.txt", "refund policy")

	reader := NewReader(dir)
	if err := reader.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	doc, err := reader.ByFileName("policy.TXT")
	if err != nil {
		t.Fatalf("ByFileName failed: %v", err)
	}
	if doc == nil || doc.Content != "refund policy" {
		t.Fatalf("unexpected document: %+v", doc)
	}

	missing, err := reader.ByFileName("absent.txt")
	if err != nil {
		t.Fatalf("ByFileName failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown file, got %+v", missing)
	}
}

func TestRefreshCreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist-yet")

	reader := NewReader(dir)
	if err := reader.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("directory was not created: %v", err)
	}
	count, err := reader.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty corpus, got %d", count)
	}
}

func TestRefreshPicksUpNewFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "one.txt", "one")

	reader := NewReader(dir)
	if err := reader.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	count, _ := reader.Count()
	if count != 1 {
		t.Fatalf("expected 1 document, got %d", count)
	}

	writeDoc(t, dir, "two.txt", "two")
	if err := reader.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	count, _ = reader.Count()
	if count != 2 {
		t.Fatalf("expected 2 documents after refresh, got %d", count)
	}
}
