package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of plan file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // plan file written or replaced
	ChangeRemoved                    // plan file deleted
	ChangeInvalid                    // plan file present but does not decode
)

// Change is a detected change to the watched plan file.
type Change struct {
	Kind ChangeKind
	File string
	Doc  Document // decoded document for ChangeModified
	Err  error    // decode error for ChangeInvalid
}

// Watcher monitors a plan file for external edits. It watches the file's
// directory so atomic replace-by-rename is seen as a write.
type Watcher struct {
	File    string
	Changes <-chan Change

	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the plan file at path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("workspace: watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("workspace: watch %s: %w", path, err)
	}

	ch := make(chan Change, 16)
	return &Watcher{
		File:    abs,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		return fmt.Errorf("workspace: watch %s: %w", w.File, err)
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= debounce {
				pending = time.Time{}
				w.emit()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

func (w *Watcher) emit() {
	if _, err := os.Stat(w.File); os.IsNotExist(err) {
		w.changes <- Change{Kind: ChangeRemoved, File: w.File}
		return
	}
	doc, err := ReadDocument(w.File)
	if err != nil {
		w.changes <- Change{Kind: ChangeInvalid, File: w.File, Err: err}
		return
	}
	w.changes <- Change{Kind: ChangeModified, File: w.File, Doc: doc}
}
