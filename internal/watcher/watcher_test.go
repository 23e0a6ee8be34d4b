package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesTriggers(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Cancel()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 coalesced call, got %d", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected 0 calls after Cancel, got %d", got)
	}
}

func TestDebouncerZeroDurationUsesDefault(t *testing.T) {
	d := NewDebouncer(0)
	if d.duration != DefaultDebounce {
		t.Errorf("duration: got %v, want %v", d.duration, DefaultDebounce)
	}
}

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.js")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	var calls atomic.Int32
	w, err := New([]string{dir}, 10*time.Millisecond, func() { calls.Add(1) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("b"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatal("onChange never fired after a write")
	}
}

func TestWatcherSkipsMissingRoot(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "absent")}, 10*time.Millisecond, func() {})
	if err != nil {
		t.Fatalf("New with missing root: %v", err)
	}
	w.Close()
}

func TestWatcherPicksUpNewSubdirectory(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	w, err := New([]string{dir}, 10*time.Millisecond, func() { calls.Add(1) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	sub := filepath.Join(dir, "components")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Give the watcher a moment to add the new directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(sub, "button.js"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Fatal("onChange never fired for file in new subdirectory")
	}
}
