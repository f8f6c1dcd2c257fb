// internal/state/mock.go
package state

// Mock is a test double for Manager.
type Mock struct {
	prefs   Preferences
	volume  *VolumeState
	reading *ReadingState
	saves   int
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GetPreferences() (Preferences, error) { return m.prefs, nil }

func (m *Mock) SaveReciter(id int) error {
	m.prefs.Reciter = id
	return nil
}

func (m *Mock) SaveAutoplay(enabled bool) error {
	m.prefs.Autoplay = &enabled
	return nil
}

func (m *Mock) GetVolume() (*VolumeState, error) { return m.volume, nil }

func (m *Mock) SaveVolume(volume float64, muted bool) error {
	m.volume = &VolumeState{Volume: volume, Muted: muted}
	return nil
}

func (m *Mock) GetReading() (*ReadingState, error) { return m.reading, nil }

func (m *Mock) SaveReading(state ReadingState) {
	m.reading = &state
	m.saves++
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetPreferences(p Preferences) { m.prefs = p }

func (m *Mock) SetReading(state *ReadingState) { m.reading = state }

func (m *Mock) ReadingSaves() int { return m.saves }

func (m *Mock) IsClosed() bool { return m.closed }

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
