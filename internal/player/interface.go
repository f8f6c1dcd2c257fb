// internal/player/interface.go
package player

import "time"

// Interface is the media resource gateway: it loads one clip at a time
// and reports what happens to it as Events.
type Interface interface {
	// Load cancels whatever is loaded or loading and starts acquiring url
	// in the background. It returns the new load generation.
	Load(url string) uint64
	// Play starts or resumes the loaded clip.
	Play() error
	Pause()
	// Stop cancels any in-flight load and releases the loaded clip.
	Stop()
	Seek(pos time.Duration)
	SetVolume(level float64)
	SetMuted(muted bool)
	Position() time.Duration
	Duration() time.Duration
	Events() <-chan Event
	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
