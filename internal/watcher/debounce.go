package watcher

import (
	"sync"
	"time"
)

// DefaultDebounce is the default coalescing window for file change bursts.
// Editors and package managers touch many files at once; one rebuild per
// burst is enough.
const DefaultDebounce = 250 * time.Millisecond

// Debouncer coalesces rapid triggers into a single callback invocation.
// Repeated Trigger calls within the window push the callback back; it runs
// once, after the window elapses with no further triggers.
type Debouncer struct {
	duration time.Duration
	mu       sync.Mutex
	timer    *time.Timer
}

// NewDebouncer creates a Debouncer. If duration is 0, DefaultDebounce is
// used.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounce
	}
	return &Debouncer{duration: duration}
}

// Trigger schedules callback after the debounce window, replacing any
// previously scheduled callback.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, callback)
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
