// internal/player/mock.go
package player

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Mock is a test double for Player. Loads never complete on their own:
// tests drive the gateway with Ready, Ended, Fail and friends and feed
// the returned events to the consumer.
type Mock struct {
	// Trace, when set, is called with every recorded call.
	Trace func(call string)

	mu        sync.Mutex
	gen       uint64
	url       string
	ready     bool
	playing   bool
	position  time.Duration
	duration  time.Duration
	volume    float64
	muted     bool
	playErr   error
	calls     []string
	loadCalls []string
	seekCalls []time.Duration
	closed    bool
	events    chan Event
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		volume: 1,
		events: make(chan Event, 64),
	}
}

func (m *Mock) record(call string) {
	m.calls = append(m.calls, call)
	if m.Trace != nil {
		m.Trace(call)
	}
}

func (m *Mock) Load(url string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Load " + url)
	m.loadCalls = append(m.loadCalls, url)
	m.gen++
	m.url = url
	m.ready = false
	m.playing = false
	m.position = 0
	m.duration = 0
	return m.gen
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Play")
	if m.playErr != nil {
		return m.playErr
	}
	if !m.ready {
		return newError(KindNoAudioAvailable, ErrNotLoaded)
	}
	m.playing = true
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Pause")
	m.playing = false
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Stop")
	m.gen++
	m.url = ""
	m.ready = false
	m.playing = false
	m.position = 0
	m.duration = 0
}

func (m *Mock) Seek(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("Seek %s", pos))
	m.seekCalls = append(m.seekCalls, pos)
	if m.ready {
		m.position = max(0, min(pos, m.duration))
	}
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("SetVolume %.2f", level))
	m.volume = clampLevel(level)
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(fmt.Sprintf("SetMuted %t", muted))
	m.muted = muted
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Close")
	m.closed = true
	m.playing = false
	return nil
}

// Test helpers

// SetPlayError makes Play fail with err until cleared with nil.
func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// Calls returns every recorded call in order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// LoadCalls returns the URLs passed to Load, in order.
func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// ResetCalls forgets recorded calls.
func (m *Mock) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.loadCalls = nil
	m.seekCalls = nil
}

func (m *Mock) Gen() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

func (m *Mock) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

func (m *Mock) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Ready marks the current load as decoded and returns its Ready event.
func (m *Mock) Ready(d time.Duration) Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = true
	m.duration = d
	return Event{Kind: EventReady, Gen: m.gen, Duration: d}
}

// DurationKnown sets the clip length and returns its DurationKnown event.
func (m *Mock) DurationKnown(d time.Duration) Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
	return Event{Kind: EventDurationKnown, Gen: m.gen, Duration: d}
}

// Progress moves the position and returns the Progress event.
func (m *Mock) Progress(pos time.Duration) Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
	return Event{Kind: EventProgress, Gen: m.gen, Position: pos, Duration: m.duration}
}

// Ended finishes the current clip and returns its Ended event.
func (m *Mock) Ended() Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	m.position = m.duration
	return Event{Kind: EventEnded, Gen: m.gen, Position: m.duration, Duration: m.duration}
}

// Fail returns an Error event of kind for the current load.
func (m *Mock) Fail(kind ErrorKind) Event {
	return m.FailGen(m.Gen(), kind)
}

// FailGen returns an Error event of kind for an arbitrary generation.
func (m *Mock) FailGen(gen uint64, kind ErrorKind) Event {
	return Event{
		Kind: EventError,
		Gen:  gen,
		Err:  newError(kind, errors.New("mock "+kind.String())),
	}
}

// Aborted returns the Aborted error event a superseded load reports.
func (m *Mock) Aborted(gen uint64) Event {
	return m.FailGen(gen, KindAborted)
}

// Emit queues e on the Events channel.
func (m *Mock) Emit(e Event) {
	m.events <- e
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
