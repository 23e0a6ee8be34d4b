package tui

import (
	"sync"
	"time"

	"github.com/lejimsft/haul/internal/dashboard"
	"github.com/lejimsft/haul/internal/events"
)

// Feed bridges the bus to the dashboard's event channel. CompilationProgress
// passes through a per-platform trailing-edge throttle so a progress burst
// costs at most one reduce per platform per window; every other event kind
// is forwarded unthrottled, in bus order.
type Feed struct {
	ch       chan events.Event
	throttle *dashboard.ProgressThrottle
	unsub    events.UnsubscribeFunc

	mu     sync.Mutex
	closed bool
}

// NewFeed subscribes to the bus and returns a running Feed. window is the
// progress coalescing window; 0 selects the default.
func NewFeed(bus *events.Bus, window time.Duration) *Feed {
	f := &Feed{
		ch: make(chan events.Event, 256),
	}
	f.throttle = dashboard.NewProgressThrottle(window, func(platform string, progress float64) {
		f.send(events.CompilationProgress{Platform: platform, Progress: progress})
	})
	f.unsub = bus.Subscribe(func(ev events.Event) {
		if p, ok := ev.(events.CompilationProgress); ok {
			f.throttle.Offer(p.Platform, p.Progress)
			return
		}
		f.send(ev)
	})
	return f
}

// send forwards one event unless the feed is closed. The send never blocks
// the bus publisher: with no consumer draining the channel (shutdown, wedged
// terminal) the oldest buffered event is evicted so the newest one survives,
// keeping terminal Start/Failed/Finished transitions and a burst's final
// progress value. Throttle timers can fire during shutdown, so the closed
// check and the channel send happen under the same lock that Close takes.
func (f *Feed) send(ev events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	for {
		select {
		case f.ch <- ev:
			return
		default:
		}
		// Full: evict the oldest. The lock excludes other senders, so the
		// freed slot (plus anything the consumer drains) admits ev next turn.
		select {
		case <-f.ch:
		default:
		}
	}
}

// Events returns the channel the TUI consumes.
func (f *Feed) Events() <-chan events.Event {
	return f.ch
}

// Close unsubscribes from the bus, applies any pending progress value, and
// closes the channel so the TUI sees end-of-stream.
func (f *Feed) Close() {
	f.unsub()
	f.throttle.Flush()
	f.throttle.Stop()

	f.mu.Lock()
	f.closed = true
	close(f.ch)
	f.mu.Unlock()
}
