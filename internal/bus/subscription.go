package bus

import "sync"

const eventBufferSize = 16

// Subscription forwards bus events to a buffered channel, for consumers
// that run on their own goroutine. Sends never block the publisher: when
// the buffer is full the event is dropped.
type Subscription struct {
	Events <-chan Event
	Done   <-chan struct{}

	eventsCh chan Event
	doneCh   chan struct{}

	mu     sync.Mutex
	closed bool
	unsubs []func()
}

// Channel subscribes to the given topics and returns a channel-backed
// subscription. Call Close to unsubscribe.
func (b *Bus) Channel(topics ...Topic) *Subscription {
	s := newSubscription()
	for _, t := range topics {
		s.unsubs = append(s.unsubs, b.Subscribe(t, s.send))
	}
	return s
}

func newSubscription() *Subscription {
	s := &Subscription{
		eventsCh: make(chan Event, eventBufferSize),
		doneCh:   make(chan struct{}),
	}
	s.Events = s.eventsCh
	s.Done = s.doneCh
	return s
}

// send forwards an event (non-blocking).
func (s *Subscription) send(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.eventsCh <- e:
	default:
		// Drop if buffer full
	}
}

// Close unsubscribes from the bus and signals Done. Safe to call twice.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubs := s.unsubs
	s.unsubs = nil
	close(s.doneCh)
	s.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}
