package autoplay

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tilawa/internal/bus"
	"github.com/llehouerou/tilawa/internal/playback"
	"github.com/llehouerou/tilawa/internal/player"
	"github.com/llehouerou/tilawa/internal/playlist"
)

const clipLen = 4 * time.Second

func pageOf(keys ...string) playlist.Playlist {
	tracks := make([]playlist.Track, len(keys))
	for i, k := range keys {
		tracks[i] = playlist.Track{VerseKey: k, SourceURL: k + ".mp3"}
	}
	return playlist.New(tracks...)
}

// pendingAdvancer holds requests until the test answers them.
type pendingAdvancer struct {
	replies []Reply
}

func (a *pendingAdvancer) RequestNext(reply Reply) {
	a.replies = append(a.replies, reply)
}

type harness struct {
	session *playback.Session
	gateway *player.Mock
	reg     *playback.Registry
}

func newHarness(autoplayOn bool) *harness {
	h := &harness{gateway: player.NewMock(), reg: playback.NewRegistry()}
	h.session = playback.NewSession(h.gateway, h.reg, bus.New(), playback.Options{Autoplay: autoplayOn})
	h.session.SetPlaylist(pageOf("1:1"))
	return h
}

// finishPlaylist plays the single-track playlist to its end.
func (h *harness) finishPlaylist(t *testing.T) {
	t.Helper()
	require.NoError(t, h.session.Play())
	h.session.HandleEvent(h.gateway.Ready(clipLen))
	h.session.HandleEvent(h.gateway.Ended())
}

func TestController_ChainsNextPlaylist(t *testing.T) {
	h := newHarness(true)
	calls := 0
	New(h.session, AdvancerFunc(func(reply Reply) {
		calls++
		reply(pageOf("2:1", "2:2"), nil)
	}), nil)

	h.finishPlaylist(t)

	assert.Equal(t, 1, calls)
	assert.Equal(t, playback.StatusLoading, h.session.Status())
	assert.Equal(t, "2:1.mp3", h.gateway.URL())
	assert.Equal(t, 2, h.session.Playlist().Len())

	h.session.HandleEvent(h.gateway.Ready(clipLen))
	assert.Equal(t, playback.StatusPlaying, h.session.Status())
	assert.Same(t, h.session, h.reg.Active())
}

func TestController_AutoplayOffDoesNotRequest(t *testing.T) {
	h := newHarness(false)
	adv := &pendingAdvancer{}
	New(h.session, adv, nil)

	h.finishPlaylist(t)

	assert.Empty(t, adv.replies)
	assert.Equal(t, playback.StatusEnded, h.session.Status())
	assert.Nil(t, h.reg.Active())
}

func TestController_StaysEnded(t *testing.T) {
	tests := []struct {
		name string
		next playlist.Playlist
		err  error
	}{
		{"end of book", playlist.New(), nil},
		{"fetch failed", playlist.Playlist{}, errors.New("offline")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(true)
			New(h.session, AdvancerFunc(func(reply Reply) { reply(tt.next, tt.err) }), nil)

			h.finishPlaylist(t)

			assert.Equal(t, playback.StatusEnded, h.session.Status())
			assert.Equal(t, 1, h.session.Playlist().Len())
			assert.Nil(t, h.reg.Active())
		})
	}
}

func TestController_LateReplyAfterUserIntervened(t *testing.T) {
	h := newHarness(true)
	adv := &pendingAdvancer{}
	New(h.session, adv, nil)
	h.finishPlaylist(t)
	require.Len(t, adv.replies, 1)

	// The user restarts the page before the next one arrives.
	require.NoError(t, h.session.Play())
	adv.replies[0](pageOf("2:1"), nil)

	assert.Equal(t, playback.StatusLoading, h.session.Status())
	assert.Equal(t, "1:1", h.session.Playlist().Tracks()[0].VerseKey)
}

func TestController_OnlyLatestReplyHonoured(t *testing.T) {
	h := newHarness(true)
	adv := &pendingAdvancer{}
	New(h.session, adv, nil)

	h.finishPlaylist(t)
	h.finishPlaylist(t)
	require.Len(t, adv.replies, 2)

	adv.replies[0](pageOf("9:9"), nil)
	assert.Equal(t, playback.StatusEnded, h.session.Status())

	adv.replies[1](pageOf("2:1"), nil)
	assert.Equal(t, playback.StatusLoading, h.session.Status())
	assert.Equal(t, "2:1.mp3", h.gateway.URL())
}

func TestController_IgnoresOtherSessions(t *testing.T) {
	b := bus.New()
	reg := playback.NewRegistry()
	gw := player.NewMock()
	page := playback.NewSession(gw, reg, b, playback.Options{Name: "page", Autoplay: true})
	preview := playback.NewSession(player.NewMock(), reg, b, playback.Options{Name: "preview", Autoplay: true})
	adv := &pendingAdvancer{}
	New(page, adv, nil)

	b.Publish(playback.PlaylistEnded{Session: preview.Name()})

	assert.Empty(t, adv.replies)
}

func TestController_Close(t *testing.T) {
	h := newHarness(true)
	adv := &pendingAdvancer{}
	c := New(h.session, adv, nil)
	h.finishPlaylist(t)
	require.Len(t, adv.replies, 1)

	c.Close()
	adv.replies[0](pageOf("2:1"), nil)
	h.finishPlaylist(t)

	assert.Len(t, adv.replies, 1)
	assert.Equal(t, playback.StatusEnded, h.session.Status())
}
