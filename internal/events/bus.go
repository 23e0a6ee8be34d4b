package events

import "sync"

// Handler is a callback invoked for each published event.
type Handler func(Event)

// UnsubscribeFunc removes a previously registered handler.
type UnsubscribeFunc func()

// handlerEntry pairs a handler with an id so it can be removed safely.
type handlerEntry struct {
	id      uint64
	handler Handler
}

// Bus is an ordered publish/subscribe dispatcher. Publish invokes every
// subscriber synchronously on the caller's goroutine, in subscription
// order, so subscribers observe events in exactly the order they were
// published. The mutex only guards the subscriber list; it is never held
// while handlers run.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers []handlerEntry
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all events and returns a function
// that removes it.
func (b *Bus) Subscribe(h Handler) UnsubscribeFunc {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, handlerEntry{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.handlers {
			if e.id == id {
				b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every subscriber in subscription order.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	entries := make([]handlerEntry, len(b.handlers))
	copy(entries, b.handlers)
	b.mu.RUnlock()

	for _, e := range entries {
		e.handler(ev)
	}
}

// SubscriberCount reports how many handlers are registered.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
