//go:build linux

package mpris

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/tilawa/internal/playback"
)

// Adapter serves the MPRIS D-Bus interfaces.
type Adapter struct {
	server *server.Server
	state  *stateBox
}

// New creates and starts a new MPRIS adapter. Control requests are passed
// to dispatch.
func New(dispatch Dispatcher) (*Adapter, error) {
	a := &Adapter{state: &stateBox{}}

	rootAdapter := &rootAdapter{}
	playerAdapter := &playerAdapter{dispatch: dispatch, state: a.state}

	a.server = server.NewServer("tilawa", rootAdapter, playerAdapter)

	// Start the server in background
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Update publishes the state MPRIS clients see.
func (a *Adapter) Update(s State) {
	a.state.store(s)
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Tilawa", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	dispatch Dispatcher
	state    *stateBox
}

func (p *playerAdapter) send(r Request) error {
	p.dispatch(r)
	return nil
}

func (p *playerAdapter) Next() error {
	return p.send(Request{Command: CommandNext})
}

func (p *playerAdapter) Previous() error {
	return p.send(Request{Command: CommandPrevious})
}

func (p *playerAdapter) Pause() error {
	return p.send(Request{Command: CommandPause})
}

func (p *playerAdapter) PlayPause() error {
	return p.send(Request{Command: CommandPlayPause})
}

func (p *playerAdapter) Stop() error {
	return p.send(Request{Command: CommandStop})
}

func (p *playerAdapter) Play() error {
	return p.send(Request{Command: CommandPlay})
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.send(Request{Command: CommandSeek, Offset: time.Duration(offset) * time.Microsecond})
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.send(Request{Command: CommandSetPosition, Offset: time.Duration(position) * time.Microsecond})
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.state.load().Status {
	case playback.StatusPlaying, playback.StatusLoading:
		return types.PlaybackStatusPlaying, nil
	case playback.StatusPaused:
		return types.PlaybackStatusPaused, nil
	case playback.StatusIdle, playback.StatusEnded, playback.StatusError:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	s := p.state.load()
	if s.VerseKey == "" {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(s.VerseKey)),
		Length:  types.Microseconds(s.Duration.Microseconds()),
		Title:   s.Title(),
		Album:   fmt.Sprintf("Page %d", s.Page),
	}
	if s.Reciter != "" {
		meta.Artist = []string{s.Reciter}
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.state.load().effectiveVolume(), nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	return p.send(Request{Command: CommandSetVolume, Volume: level})
}

func (p *playerAdapter) Position() (int64, error) {
	return p.state.load().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.state.load().CanNext, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.state.load().CanPrev, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.state.load().CanPlay, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// formatTrackID builds an object path from a verse key ("2:255").
func formatTrackID(verseKey string) string {
	chapter, verse := 0, 0
	_, _ = fmt.Sscanf(verseKey, "%d:%d", &chapter, &verse)
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Verse/%d_%d", chapter, verse)
}
