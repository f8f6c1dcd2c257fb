// Package bus is a small in-process publish/subscribe channel with named
// topics. Delivery is synchronous and best-effort: handlers run on the
// publisher's goroutine, in subscription order, and publishing a topic
// nobody listens to is not an error.
package bus

import "sync"

// Topic names a stream of events.
type Topic string

// Event is anything published on the bus.
type Event interface {
	Topic() Topic
}

// Handler receives events for the topic it subscribed to.
type Handler func(Event)

type entry struct {
	id      uint64
	handler Handler
}

// Bus routes events to topic subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]entry
	nextID   uint64
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[Topic][]entry)}
}

// Subscribe registers h for topic and returns a function that removes it.
// The returned function is idempotent.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], entry{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.handlers[topic]
	for i, e := range entries {
		if e.id == id {
			// Copy so a Publish iterating the old slice is unaffected.
			next := make([]entry, 0, len(entries)-1)
			next = append(next, entries[:i]...)
			next = append(next, entries[i+1:]...)
			b.handlers[topic] = next
			return
		}
	}
}

// Publish delivers e to every handler subscribed to its topic.
// Handlers may subscribe, unsubscribe or publish from within a handler.
func (b *Bus) Publish(e Event) {
	if b == nil || e == nil {
		return
	}
	b.mu.RLock()
	entries := b.handlers[e.Topic()]
	b.mu.RUnlock()

	for _, en := range entries {
		en.handler(e)
	}
}

// Subscribers returns the number of handlers registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[topic])
}
