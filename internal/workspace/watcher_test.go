package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// waitChange reads changes until one of the given kind arrives.
func waitChange(t *testing.T, w *Watcher, kind ChangeKind) Change {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c, ok := <-w.Changes:
			if !ok {
				t.Fatal("Changes closed")
			}
			if c.Kind == kind {
				return c
			}
		case <-timeout:
			t.Fatalf("no change of kind %d within timeout", kind)
		}
	}
}

func TestWatcher(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	if err := WriteDocument(path, Demo()); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(w.Stop)

	// Unrelated files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	doc := Demo()
	doc.Metadata.Title = "edited"
	if err := WriteDocument(path, doc); err != nil {
		t.Fatalf("WriteDocument: %v", err)
	}
	c := waitChange(t, w, ChangeModified)
	if c.Doc.Metadata.Title != "edited" {
		t.Errorf("title = %q, want %q", c.Doc.Metadata.Title, "edited")
	}

	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write invalid: %v", err)
	}
	if c := waitChange(t, w, ChangeInvalid); c.Err == nil {
		t.Error("ChangeInvalid without error")
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	waitChange(t, w, ChangeRemoved)
}
