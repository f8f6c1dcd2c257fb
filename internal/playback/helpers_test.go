package playback

import (
	"testing"

	"github.com/llehouerou/tilawa/internal/bus"
	"github.com/llehouerou/tilawa/internal/player"
	"github.com/llehouerou/tilawa/internal/playlist"
)

var allTopics = []bus.Topic{
	TopicTrackChanged,
	TopicPlaylistEnded,
	TopicPlaybackError,
	TopicPlaybackStarted,
	TopicStateChanged,
}

// recorder collects everything a session publishes.
type recorder struct {
	events []bus.Event
}

func record(b *bus.Bus) *recorder {
	r := &recorder{}
	for _, topic := range allTopics {
		b.Subscribe(topic, func(e bus.Event) { r.events = append(r.events, e) })
	}
	return r
}

func (r *recorder) reset() { r.events = nil }

func eventsOf[T bus.Event](r *recorder) []T {
	var out []T
	for _, e := range r.events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func twoVerses() playlist.Playlist {
	return playlist.New(
		playlist.Track{VerseKey: "2:1", SourceURL: "a.mp3"},
		playlist.Track{VerseKey: "2:2", SourceURL: "b.mp3"},
	)
}

type fixture struct {
	session  *Session
	gateway  *player.Mock
	registry *Registry
	bus      *bus.Bus
	rec      *recorder
}

func newFixture(t *testing.T, pl playlist.Playlist, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		gateway:  player.NewMock(),
		registry: NewRegistry(),
		bus:      bus.New(),
	}
	f.rec = record(f.bus)
	f.session = NewSession(f.gateway, f.registry, f.bus, opts)
	f.session.SetPlaylist(pl)
	f.gateway.ResetCalls()
	f.rec.reset()
	return f
}

// playing brings the fixture to Playing on the current track.
func (f *fixture) playing(t *testing.T) {
	t.Helper()
	if err := f.session.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	f.session.HandleEvent(f.gateway.Ready(defaultClip))
	if got := f.session.Status(); got != StatusPlaying {
		t.Fatalf("status = %v, want Playing", got)
	}
}
