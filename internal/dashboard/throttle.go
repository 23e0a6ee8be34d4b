package dashboard

import (
	"sync"
	"time"
)

// DefaultThrottleWindow is the coalescing window for progress updates.
// Raw progress events arrive far faster than the redraw cadence.
const DefaultThrottleWindow = 20 * time.Millisecond

// ProgressThrottle coalesces high-frequency per-platform progress values
// into at most one apply call per platform per window. It is trailing-edge:
// the latest value offered within a window is applied when the window
// elapses, so a burst's final value is never discarded.
//
// Only continuous progress values pass through here. Start/Failed/Finished
// are terminal state transitions and are intentionally applied unthrottled.
type ProgressThrottle struct {
	window time.Duration
	apply  func(platform string, progress float64)

	mu      sync.Mutex
	pending map[string]float64
	timers  map[string]*time.Timer
}

// NewProgressThrottle creates a throttle that calls apply with coalesced
// values. If window is 0, DefaultThrottleWindow is used.
func NewProgressThrottle(window time.Duration, apply func(platform string, progress float64)) *ProgressThrottle {
	if window == 0 {
		window = DefaultThrottleWindow
	}
	return &ProgressThrottle{
		window:  window,
		apply:   apply,
		pending: make(map[string]float64),
		timers:  make(map[string]*time.Timer),
	}
}

// Offer records progress as the platform's latest pending value. The first
// offer in a window arms the platform's timer; later offers within the same
// window only overwrite the pending value.
func (t *ProgressThrottle) Offer(platform string, progress float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending[platform] = progress
	if _, armed := t.timers[platform]; armed {
		return
	}
	t.timers[platform] = time.AfterFunc(t.window, func() {
		t.fire(platform)
	})
}

// fire applies the platform's pending value and disarms its timer.
func (t *ProgressThrottle) fire(platform string) {
	t.mu.Lock()
	progress, ok := t.pending[platform]
	delete(t.pending, platform)
	delete(t.timers, platform)
	t.mu.Unlock()

	if ok {
		t.apply(platform, progress)
	}
}

// Flush immediately applies every pending value and disarms all timers.
// Used at shutdown so the last value of an in-flight burst is not lost.
func (t *ProgressThrottle) Flush() {
	t.mu.Lock()
	pending := t.pending
	timers := t.timers
	t.pending = make(map[string]float64)
	t.timers = make(map[string]*time.Timer)
	t.mu.Unlock()

	for _, timer := range timers {
		timer.Stop()
	}
	for platform, progress := range pending {
		t.apply(platform, progress)
	}
}

// Stop disarms all timers and discards pending values.
func (t *ProgressThrottle) Stop() {
	t.mu.Lock()
	timers := t.timers
	t.pending = make(map[string]float64)
	t.timers = make(map[string]*time.Timer)
	t.mu.Unlock()

	for _, timer := range timers {
		timer.Stop()
	}
}

// Window returns the coalescing window.
func (t *ProgressThrottle) Window() time.Duration {
	return t.window
}
