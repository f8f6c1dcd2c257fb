package player

import "time"

// EventKind identifies a gateway notification.
type EventKind int

const (
	// EventReady means the clip is decoded and can start immediately.
	EventReady EventKind = iota
	// EventDurationKnown carries the decoded length of the clip. It
	// precedes Ready and replaces any length announced by the content.
	EventDurationKnown
	EventProgress
	EventEnded
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventDurationKnown:
		return "durationKnown"
	case EventProgress:
		return "progress"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is emitted on the gateway's Events channel. Gen is the load
// generation the event belongs to; consumers drop events whose Gen is
// not the one returned by their latest Load.
type Event struct {
	Kind     EventKind
	Gen      uint64
	Position time.Duration
	Duration time.Duration
	Err      *PlayError
}
