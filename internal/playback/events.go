package playback

import (
	"github.com/llehouerou/tilawa/internal/bus"
	"github.com/llehouerou/tilawa/internal/player"
)

// Bus topics published by a Session.
const (
	TopicTrackChanged    bus.Topic = "trackChanged"
	TopicPlaylistEnded   bus.Topic = "playlistEnded"
	TopicPlaybackError   bus.Topic = "playbackError"
	TopicPlaybackStarted bus.Topic = "playbackStarted"
	TopicStateChanged    bus.Topic = "stateChanged"
)

// TrackChanged is published before the clip for a new index is loaded,
// so the reading view can highlight the verse while it loads.
type TrackChanged struct {
	Session  string
	VerseKey string
	Index    int
}

// PlaylistEnded is published when the last track finished or next was
// requested on it.
type PlaylistEnded struct {
	Session string
}

// PlaybackError is published whenever the session enters Error, and for
// a play attempted on an empty playlist.
type PlaybackError struct {
	Session  string
	Kind     player.ErrorKind
	VerseKey string
	Err      error
}

// PlaybackStarted is published on every transition into Playing.
type PlaybackStarted struct {
	Session  string
	VerseKey string
}

// StateChanged is published on every status change.
type StateChanged struct {
	Session  string
	Previous Status
	Current  Status
}

func (TrackChanged) Topic() bus.Topic    { return TopicTrackChanged }
func (PlaylistEnded) Topic() bus.Topic   { return TopicPlaylistEnded }
func (PlaybackError) Topic() bus.Topic   { return TopicPlaybackError }
func (PlaybackStarted) Topic() bus.Topic { return TopicPlaybackStarted }
func (StateChanged) Topic() bus.Topic    { return TopicStateChanged }
