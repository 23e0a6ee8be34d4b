// Package watcher recursively watches source roots and triggers one
// debounced rebuild callback per burst of file changes.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a set of directory roots recursively. New subdirectories
// are added to the watch as they appear.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce *Debouncer
	onChange func()
	done     chan struct{}
}

// New creates a Watcher over the given roots. onChange is invoked once per
// debounced burst of changes. Roots that do not exist are skipped rather
// than failing the whole watch.
func New(roots []string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: NewDebouncer(debounce),
		onChange: onChange,
		done:     make(chan struct{}),
	}

	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	go w.loop()
	return w, nil
}

// addRecursive watches root and every directory below it.
func (w *Watcher) addRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watcher: add %s: %w", path, addErr)
		}
		return nil
	})
}

// skipDir filters directories that never hold watched sources.
func skipDir(name string) bool {
	return name == "node_modules" || name == ".git" || strings.HasPrefix(name, ".cache")
}

// loop forwards fsnotify events into the debouncer until Close.
func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) {
				// A new directory needs to join the watch before its
				// contents change.
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(ev.Name)
				}
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) ||
				ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
				w.debounce.Trigger(w.onChange)
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; the next change still fires.
		}
	}
}

// Close stops the watch and drops any pending rebuild trigger.
func (w *Watcher) Close() error {
	close(w.done)
	w.debounce.Cancel()
	return w.fsw.Close()
}
