package filestore

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ref, err := store.Save("resume.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(ref, ".pdf") {
		t.Fatalf("ref %q should keep the extension", ref)
	}

	rc, err := store.Open(ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != "pdf bytes" {
		t.Fatalf("content = %q", content)
	}
}

func TestOpenRejectsPathTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, ref := range []string{"", "../secret", "a/b", ".hidden"} {
		if _, err := store.Open(ref); !errors.Is(err, ErrNotFound) {
			t.Fatalf("open(%q) = %v, want ErrNotFound", ref, err)
		}
	}
}

func TestOpenUnknownRef(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Open("missing.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("open = %v, want ErrNotFound", err)
	}
}
