package app

import (
	"github.com/llehouerou/tilawa/internal/bus"
	"github.com/llehouerou/tilawa/internal/playback"
)

// inbox queues session events published during a session call. They are
// handled once the call returns, after the model is back in a known state.
type inbox struct {
	events []bus.Event
	unsubs []func()
}

func newInbox(b *bus.Bus) *inbox {
	in := &inbox{}
	for _, topic := range []bus.Topic{
		playback.TopicTrackChanged,
		playback.TopicPlaybackError,
		playback.TopicPlaylistEnded,
		playback.TopicStateChanged,
	} {
		in.unsubs = append(in.unsubs, b.Subscribe(topic, func(e bus.Event) {
			in.events = append(in.events, e)
		}))
	}
	return in
}

func (in *inbox) take() []bus.Event {
	events := in.events
	in.events = nil
	return events
}

func (in *inbox) close() {
	for _, u := range in.unsubs {
		u()
	}
}
