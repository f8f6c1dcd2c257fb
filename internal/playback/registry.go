package playback

import "sync"

// Producer is anything that can make sound and be told to stop.
type Producer interface {
	// Preempt is called when another producer takes over the output.
	Preempt()
}

// Registry holds the single active producer of the process.
type Registry struct {
	mu     sync.Mutex
	active Producer
}

var defaultRegistry = &Registry{}

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// NewRegistry returns an empty registry, for tests and isolated hosts.
func NewRegistry() *Registry { return &Registry{} }

// Acquire makes p the active producer, preempting the previous one if it
// was a different producer. Acquiring twice is a no-op.
func (r *Registry) Acquire(p Producer) {
	r.mu.Lock()
	prev := r.active
	r.active = p
	r.mu.Unlock()

	if prev != nil && prev != p {
		prev.Preempt()
	}
}

// Release clears the slot if p holds it and reports whether it did.
// A stale release by a producer that was already preempted is ignored.
func (r *Registry) Release(p Producer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil || r.active != p {
		return false
	}
	r.active = nil
	return true
}

// Active returns the current producer, or nil.
func (r *Registry) Active() Producer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}
