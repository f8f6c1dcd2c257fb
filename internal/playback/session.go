// Package playback coordinates sequential recitation playback: a Session
// walks a playlist one clip at a time through a player gateway, and a
// Registry keeps a single session audible across the process.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tilawa/internal/bus"
	"github.com/llehouerou/tilawa/internal/player"
	"github.com/llehouerou/tilawa/internal/playlist"
)

var (
	// ErrClosed is returned by commands on a closed session.
	ErrClosed = errors.New("session closed")
	// ErrUnknownVerse is returned by PlayVerse for a key not in the playlist.
	ErrUnknownVerse = errors.New("verse not in playlist")
)

// Options configures a Session.
type Options struct {
	// Name identifies the session in events and logs.
	Name string
	// Volume is the initial level in [0, 1]. Defaults to 1.
	Volume   mo.Option[float64]
	Muted    bool
	Autoplay bool
	Logger   logrus.FieldLogger
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	Name     string
	Playlist playlist.Playlist
	Index    int
	VerseKey string
	Status   Status
	Err      player.ErrorKind
	Position time.Duration
	Duration mo.Option[time.Duration]
	Volume   float64
	Muted    bool
	Autoplay bool
}

// Session drives one gateway through a playlist.
//
// A Session is not safe for concurrent use: every command, HandleEvent
// and Preempt must run on the same goroutine (the host's event loop, or
// Run). Bus handlers are called synchronously from that goroutine.
type Session struct {
	name     string
	gateway  player.Interface
	registry *Registry
	bus      *bus.Bus
	log      logrus.FieldLogger

	playlist playlist.Playlist
	index    int
	status   Status
	errKind  player.ErrorKind
	position time.Duration
	duration mo.Option[time.Duration]
	volume   float64
	muted    bool
	autoplay bool

	loadGen  uint64
	loading  bool // a load for index is in flight
	ready    bool // the clip for index is loaded
	wantPlay bool // start as soon as the clip is ready
	closed   bool
}

// NewSession creates an idle session with an empty playlist. A nil
// registry selects Default; a nil bus gets a private one.
func NewSession(gw player.Interface, reg *Registry, b *bus.Bus, opts Options) *Session {
	if reg == nil {
		reg = Default()
	}
	if b == nil {
		b = bus.New()
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	name := opts.Name
	if name == "" {
		name = "main"
	}

	s := &Session{
		name:     name,
		gateway:  gw,
		registry: reg,
		bus:      b,
		log:      log.WithField("session", name),
		volume:   max(0, min(opts.Volume.OrElse(1), 1)),
		muted:    opts.Muted,
		autoplay: opts.Autoplay,
	}
	gw.SetVolume(s.volume)
	gw.SetMuted(s.muted)
	return s
}

// Name returns the session name.
func (s *Session) Name() string { return s.name }

// Bus returns the bus the session publishes on.
func (s *Session) Bus() *bus.Bus { return s.bus }

func (s *Session) Status() Status { return s.status }

func (s *Session) Index() int { return s.index }

func (s *Session) Playlist() playlist.Playlist { return s.playlist }

// Current returns the track at the current index.
func (s *Session) Current() (playlist.Track, bool) {
	return s.playlist.At(s.index)
}

// Snapshot returns the session state.
func (s *Session) Snapshot() Snapshot {
	t, _ := s.Current()
	return Snapshot{
		Name:     s.name,
		Playlist: s.playlist,
		Index:    s.index,
		VerseKey: t.VerseKey,
		Status:   s.status,
		Err:      s.errKind,
		Position: s.position,
		Duration: s.duration,
		Volume:   s.volume,
		Muted:    s.muted,
		Autoplay: s.autoplay,
	}
}

// SetPlaylist swaps the playlist. Index and position reset and any
// in-flight load is cancelled. A session that was playing or loading
// continues with the first track of the new playlist; otherwise it goes
// Idle.
func (s *Session) SetPlaylist(pl playlist.Playlist) {
	if s.closed {
		return
	}
	wasActive := s.status == StatusPlaying || s.status == StatusLoading

	s.gateway.Stop()
	s.playlist = pl
	s.index = 0
	s.position = 0
	s.duration = mo.None[time.Duration]()
	s.errKind = player.KindUnknown
	s.loading = false
	s.ready = false
	s.wantPlay = false

	s.log.WithField("tracks", pl.Len()).Debug("playlist replaced")

	if pl.IsEmpty() || !wasActive {
		s.registry.Release(s)
		s.setStatus(StatusIdle)
		return
	}
	s.wantPlay = true
	s.loadCurrent()
	s.setStatus(StatusLoading)
}

// Play starts, resumes or retries playback depending on the status.
// Failures are published as PlaybackError rather than returned.
func (s *Session) Play() error {
	if s.closed {
		return ErrClosed
	}
	switch s.status {
	case StatusIdle:
		if s.playlist.IsEmpty() {
			s.publish(PlaybackError{
				Session: s.name,
				Kind:    player.KindNoAudioAvailable,
				Err:     fmt.Errorf("play: %w", player.ErrNotLoaded),
			})
			return nil
		}
		s.wantPlay = true
		switch {
		case s.ready:
			s.setStatus(StatusLoading)
			s.startPlayback()
		case s.loading:
			s.setStatus(StatusLoading)
		default:
			s.loadCurrent()
			s.setStatus(StatusLoading)
		}
	case StatusLoading:
		s.wantPlay = true
	case StatusPlaying:
	case StatusPaused:
		s.startPlayback()
	case StatusEnded:
		s.index = 0
		s.wantPlay = true
		s.loadCurrent()
		s.setStatus(StatusLoading)
	case StatusError:
		s.wantPlay = true
		if s.ready {
			s.startPlayback()
			return nil
		}
		s.loadCurrent()
		s.setStatus(StatusLoading)
	}
	return nil
}

// Pause pauses a playing clip, or cancels a pending load.
func (s *Session) Pause() error {
	if s.closed {
		return ErrClosed
	}
	switch s.status {
	case StatusPlaying:
		s.gateway.Pause()
		s.setStatus(StatusPaused)
	case StatusLoading:
		s.gateway.Stop()
		s.loading = false
		s.ready = false
		s.wantPlay = false
		s.registry.Release(s)
		s.setStatus(StatusIdle)
	}
	return nil
}

// Toggle pauses while playing and plays otherwise.
func (s *Session) Toggle() error {
	if s.status == StatusPlaying || s.status == StatusLoading {
		return s.Pause()
	}
	return s.Play()
}

// Next moves to the following track. On the last track it ends the
// playlist instead of wrapping.
func (s *Session) Next() error {
	if s.closed {
		return ErrClosed
	}
	if s.playlist.IsEmpty() || s.status == StatusEnded {
		return nil
	}
	if s.index >= s.playlist.Len()-1 {
		if s.status == StatusIdle {
			s.log.Debug("next: already at last track")
			return nil
		}
		s.finish()
		return nil
	}
	s.moveTo(s.index + 1)
	return nil
}

// Previous moves to the preceding track. At the first track it does
// nothing.
func (s *Session) Previous() error {
	if s.closed {
		return ErrClosed
	}
	if s.playlist.IsEmpty() || s.status == StatusEnded {
		return nil
	}
	if s.index == 0 {
		s.log.Debug("previous: already at first track")
		return nil
	}
	s.moveTo(s.index - 1)
	return nil
}

// PlayVerse jumps to the track for verseKey and plays it.
func (s *Session) PlayVerse(verseKey string) error {
	if s.closed {
		return ErrClosed
	}
	i := s.playlist.IndexOf(verseKey)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownVerse, verseKey)
	}
	if i == s.index && (s.status == StatusPlaying || s.status == StatusLoading) {
		return nil
	}
	s.index = i
	s.wantPlay = true
	s.loadCurrent()
	s.setStatus(StatusLoading)
	return nil
}

// moveTo changes track. An idle session preloads the new track and stays
// idle; any other session starts loading it for playback.
func (s *Session) moveTo(i int) {
	s.index = i
	if s.status == StatusIdle {
		s.wantPlay = false
		s.loadCurrent()
		return
	}
	s.wantPlay = true
	s.loadCurrent()
	s.setStatus(StatusLoading)
}

// Seek moves within the loaded clip, clamped to its duration.
func (s *Session) Seek(pos time.Duration) {
	if s.closed || !s.ready {
		return
	}
	d, ok := s.duration.Get()
	if !ok {
		return
	}
	pos = max(0, min(pos, d))
	s.gateway.Seek(pos)
	s.position = pos
}

// SeekBy moves relative to the current position.
func (s *Session) SeekBy(delta time.Duration) {
	s.Seek(s.position + delta)
}

// SetVolume sets the level, clamped to [0, 1].
func (s *Session) SetVolume(level float64) {
	s.volume = max(0, min(level, 1))
	s.gateway.SetVolume(s.volume)
}

func (s *Session) SetMuted(muted bool) {
	s.muted = muted
	s.gateway.SetMuted(muted)
}

// SetAutoplay sets whether an ended playlist asks for the next one.
func (s *Session) SetAutoplay(enabled bool) { s.autoplay = enabled }

func (s *Session) AutoplayEnabled() bool { return s.autoplay }

// Preempt yields the output to another producer. A playing session
// pauses; a loading one keeps loading but will not start.
func (s *Session) Preempt() {
	switch s.status {
	case StatusPlaying:
		s.gateway.Pause()
		s.log.Debug("preempted")
		s.setStatus(StatusPaused)
	case StatusLoading:
		s.wantPlay = false
		s.log.Debug("preempted while loading")
		s.setStatus(StatusIdle)
	}
}

// HandleEvent applies a gateway event. Events from superseded loads and
// aborted loads are ignored.
func (s *Session) HandleEvent(e player.Event) {
	if s.closed {
		return
	}
	if e.Gen != s.loadGen {
		s.log.WithFields(logrus.Fields{"gen": e.Gen, "current": s.loadGen, "event": e.Kind}).
			Debug("ignoring stale event")
		return
	}

	switch e.Kind {
	case player.EventReady:
		s.loading = false
		s.ready = true
		if e.Duration > 0 {
			s.duration = mo.Some(e.Duration)
		}
		if s.wantPlay && s.status == StatusLoading {
			s.startPlayback()
		}
	case player.EventDurationKnown:
		if e.Duration > 0 {
			s.duration = mo.Some(e.Duration)
		}
	case player.EventProgress:
		if s.status != StatusPlaying && s.status != StatusPaused {
			return
		}
		pos := e.Position
		if d, ok := s.duration.Get(); ok {
			pos = min(pos, d)
		}
		s.position = pos
	case player.EventEnded:
		if s.status != StatusPlaying && s.status != StatusLoading {
			return
		}
		if d, ok := s.duration.Get(); ok {
			s.position = d
		}
		s.advance()
	case player.EventError:
		s.handleError(e.Err)
	}
}

func (s *Session) handleError(err *player.PlayError) {
	if err == nil {
		err = &player.PlayError{Kind: player.KindUnknown}
	}
	if err.Kind == player.KindAborted {
		s.log.WithField("gen", s.loadGen).Debug("load aborted")
		return
	}
	s.loading = false
	s.ready = false
	if s.status == StatusIdle {
		t, _ := s.Current()
		s.log.WithFields(logrus.Fields{"verse": t.VerseKey, "kind": err.Kind}).
			WithError(err).Warn("preload failed")
		return
	}
	s.fail(err.Kind, err)
}

// Run pumps gateway events into the session until ctx is done. Hosts
// without their own event loop use it as the session goroutine.
func (s *Session) Run(ctx context.Context) error {
	events := s.gateway.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-events:
			s.HandleEvent(e)
		}
	}
}

// Close stops the gateway, releases the output and closes the gateway.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.wantPlay = false
	s.gateway.Stop()
	s.registry.Release(s)
	return s.gateway.Close()
}

// advance plays the next track, or ends the playlist after the last.
func (s *Session) advance() {
	if s.index < s.playlist.Len()-1 {
		s.index++
		s.wantPlay = true
		s.loadCurrent()
		s.setStatus(StatusLoading)
		return
	}
	s.finish()
}

// finish enters Ended. PlaylistEnded goes out last so subscribers may
// swap in a new playlist from the handler.
func (s *Session) finish() {
	s.gateway.Stop()
	s.loading = false
	s.ready = false
	s.wantPlay = false
	s.registry.Release(s)
	s.setStatus(StatusEnded)
	s.log.WithField("tracks", s.playlist.Len()).Info("playlist ended")
	s.publish(PlaylistEnded{Session: s.name})
}

// loadCurrent announces the current track and starts loading it.
func (s *Session) loadCurrent() {
	t, ok := s.playlist.At(s.index)
	if !ok {
		return
	}
	s.publish(TrackChanged{Session: s.name, VerseKey: t.VerseKey, Index: s.index})

	s.position = 0
	s.duration = mo.None[time.Duration]()
	if t.Duration > 0 {
		s.duration = mo.Some(t.Duration)
	}
	s.ready = false
	s.loading = true
	s.loadGen = s.gateway.Load(t.SourceURL)
	s.log.WithFields(logrus.Fields{"verse": t.VerseKey, "gen": s.loadGen}).Debug("loading track")
}

// startPlayback claims the output and starts the loaded clip.
func (s *Session) startPlayback() {
	s.registry.Acquire(s)
	if err := s.gateway.Play(); err != nil {
		s.registry.Release(s)
		s.fail(player.KindOf(err), err)
		return
	}
	s.wantPlay = false
	s.errKind = player.KindUnknown
	s.setStatus(StatusPlaying)

	t, _ := s.Current()
	s.publish(PlaybackStarted{Session: s.name, VerseKey: t.VerseKey})
}

func (s *Session) fail(kind player.ErrorKind, err error) {
	t, _ := s.Current()
	s.wantPlay = false
	s.errKind = kind
	s.registry.Release(s)
	s.log.WithFields(logrus.Fields{"verse": t.VerseKey, "kind": kind}).WithError(err).Warn("playback failed")
	s.setStatus(StatusError)
	s.publish(PlaybackError{Session: s.name, Kind: kind, VerseKey: t.VerseKey, Err: err})
}

func (s *Session) setStatus(st Status) {
	if st == s.status {
		return
	}
	prev := s.status
	s.status = st
	s.publish(StateChanged{Session: s.name, Previous: prev, Current: st})
}

func (s *Session) publish(e bus.Event) {
	s.bus.Publish(e)
}

// Verify Session is a Producer at compile time.
var _ Producer = (*Session)(nil)
