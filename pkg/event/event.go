// Package event provides a small synchronous event dispatcher.
//
// The store publishes one event per changed table ("products", "cart_items",
// ...) and live queries listen for the tables they read. Any is a wildcard:
// firing it reaches every listener, listening on it receives every event.
package event

import (
	"sync"
)

// Any matches every event name.
const Any = "*"

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

// Bus is a registry of named listeners. The zero value is not usable; call New.
type Bus struct {
	mu       sync.RWMutex
	next     uint64
	handlers map[string]map[uint64]Handler
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{handlers: map[string]map[uint64]Handler{}}
}

// Listen registers a handler for the given event name and returns a func
// that removes it.
func (b *Bus) Listen(event string, handler Handler) (unlisten func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	if b.handlers[event] == nil {
		b.handlers[event] = map[uint64]Handler{}
	}
	b.handlers[event][id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers[event], id)
			if len(b.handlers[event]) == 0 {
				delete(b.handlers, event)
			}
		})
	}
}

// ListenAll registers handler for several events at once. A single Fire
// naming several of them still calls handler once per event.
func (b *Bus) ListenAll(events []string, handler Handler) (unlisten func()) {
	stops := make([]func(), 0, len(events))
	for _, e := range events {
		stops = append(stops, b.Listen(e, handler))
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

// Fire dispatches an event synchronously to all registered listeners.
func (b *Bus) Fire(event string, payload interface{}) {
	for _, h := range b.snapshot(event) {
		h(payload)
	}
}

// Count reports how many listeners are registered for event.
func (b *Bus) Count(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[event])
}

func (b *Bus) snapshot(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var hs []Handler
	if event == Any {
		for _, byID := range b.handlers {
			for _, h := range byID {
				hs = append(hs, h)
			}
		}
		return hs
	}

	for _, h := range b.handlers[event] {
		hs = append(hs, h)
	}
	for _, h := range b.handlers[Any] {
		hs = append(hs, h)
	}
	return hs
}
