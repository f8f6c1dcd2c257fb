// internal/state/interface.go
package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	GetPreferences() (Preferences, error)
	SaveReciter(id int) error
	SaveAutoplay(enabled bool) error
	GetVolume() (*VolumeState, error)
	SaveVolume(volume float64, muted bool) error
	GetReading() (*ReadingState, error)
	SaveReading(state ReadingState)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
