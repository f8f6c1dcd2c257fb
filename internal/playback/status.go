// internal/playback/status.go
package playback

// Status is the session's playback status.
//
//	Idle ──play──▶ Loading ──ready──▶ Playing ◀──play── Paused
//	                  │                  │ │               ▲
//	                  │ error      ended │ └────pause──────┘
//	                  ▼                  ▼
//	                Error              Loading(next) or Ended
//
// Exactly one status holds at a time. Error carries its reason
// separately as a player.ErrorKind.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
	StatusEnded
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusEnded:
		return "Ended"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// IsActive returns true while a clip is playing or about to.
func (s Status) IsActive() bool {
	return s == StatusLoading || s == StatusPlaying || s == StatusPaused
}
