package playback

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"testing/synctest"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tilawa/internal/bus"
	"github.com/llehouerou/tilawa/internal/player"
	"github.com/llehouerou/tilawa/internal/playlist"
)

const defaultClip = 6 * time.Second

func TestNewSession_Defaults(t *testing.T) {
	gw := player.NewMock()
	s := NewSession(gw, NewRegistry(), nil, Options{Volume: mo.Some(0.4), Muted: true})

	snap := s.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, 0, snap.Index)
	assert.True(t, snap.Playlist.IsEmpty())
	assert.True(t, snap.Duration.IsAbsent())
	assert.Equal(t, "main", snap.Name)
	assert.InDelta(t, 0.4, gw.Volume(), 1e-9)
	assert.True(t, gw.Muted())
}

func TestSession_EndedAdvancesToNextTrack(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{Autoplay: true})
	f.playing(t)
	f.rec.reset()

	f.session.HandleEvent(f.gateway.Ended())

	assert.Equal(t, 1, f.session.Index())
	assert.Equal(t, StatusLoading, f.session.Status())
	changes := eventsOf[TrackChanged](f.rec)
	require.Len(t, changes, 1)
	assert.Equal(t, "2:2", changes[0].VerseKey)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, f.gateway.LoadCalls())

	f.session.HandleEvent(f.gateway.Ready(defaultClip))
	assert.Equal(t, StatusPlaying, f.session.Status())
}

func TestSession_LastTrackEnds(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{Autoplay: false})
	f.playing(t)
	f.session.HandleEvent(f.gateway.Ended())
	f.session.HandleEvent(f.gateway.Ready(defaultClip))
	f.rec.reset()

	f.session.HandleEvent(f.gateway.Ended())

	assert.Equal(t, StatusEnded, f.session.Status())
	assert.Equal(t, 1, f.session.Index())
	assert.Len(t, eventsOf[PlaylistEnded](f.rec), 1)
	assert.Nil(t, f.registry.Active(), "ended session releases the output")
}

func TestSession_SupersededLoadIgnored(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	require.NoError(t, f.session.Play())
	first := f.gateway.Gen()

	require.NoError(t, f.session.Next())
	assert.Equal(t, StatusLoading, f.session.Status())
	assert.Equal(t, 1, f.session.Index())

	f.session.HandleEvent(f.gateway.Aborted(first))
	f.session.HandleEvent(f.gateway.FailGen(first, player.KindNetwork))

	assert.Equal(t, StatusLoading, f.session.Status())
	assert.Equal(t, 1, f.session.Index())
	assert.Empty(t, eventsOf[PlaybackError](f.rec))

	f.session.HandleEvent(f.gateway.Ready(defaultClip))
	assert.Equal(t, StatusPlaying, f.session.Status())
}

func TestSession_EmptyPlaylist(t *testing.T) {
	f := newFixture(t, playlist.New(), Options{})

	require.NoError(t, f.session.Play())

	assert.Equal(t, StatusIdle, f.session.Status())
	errs := eventsOf[PlaybackError](f.rec)
	require.Len(t, errs, 1)
	assert.Equal(t, player.KindNoAudioAvailable, errs[0].Kind)
	assert.Empty(t, f.gateway.LoadCalls())
	assert.Empty(t, eventsOf[StateChanged](f.rec))
}

func TestSession_AutoplayDeniedThenRetry(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.gateway.SetPlayError(&player.PlayError{Kind: player.KindAutoplayDenied, Err: errors.New("denied")})

	require.NoError(t, f.session.Play())
	f.session.HandleEvent(f.gateway.Ready(defaultClip))

	assert.Equal(t, StatusError, f.session.Status())
	assert.Equal(t, player.KindAutoplayDenied, f.session.Snapshot().Err)
	errs := eventsOf[PlaybackError](f.rec)
	require.Len(t, errs, 1)
	assert.Equal(t, "2:1", errs[0].VerseKey)
	assert.Nil(t, f.registry.Active())

	f.gateway.SetPlayError(nil)
	require.NoError(t, f.session.Play())

	assert.Equal(t, StatusPlaying, f.session.Status())
	assert.Equal(t, player.KindUnknown, f.session.Snapshot().Err)
	assert.Len(t, f.gateway.LoadCalls(), 1, "retry reuses the loaded clip")
	assert.Same(t, f.session, f.registry.Active())
}

func TestSession_TrackChangedPublishedBeforeLoad(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	var trace []string
	f.gateway.Trace = func(call string) { trace = append(trace, call) }
	f.bus.Subscribe(TopicTrackChanged, func(e bus.Event) {
		trace = append(trace, "trackChanged "+e.(TrackChanged).VerseKey)
	})

	require.NoError(t, f.session.Play())
	f.session.HandleEvent(f.gateway.Ready(defaultClip))
	f.session.HandleEvent(f.gateway.Ended())
	require.NoError(t, f.session.Previous())

	assert.Equal(t, []string{
		"trackChanged 2:1", "Load a.mp3",
		"Play",
		"trackChanged 2:2", "Load b.mp3",
		"trackChanged 2:1", "Load a.mp3",
	}, trace)
}

func TestSession_PauseTwice(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.playing(t)

	require.NoError(t, f.session.Pause())
	f.rec.reset()
	f.gateway.ResetCalls()
	require.NoError(t, f.session.Pause())

	assert.Equal(t, StatusPaused, f.session.Status())
	assert.Empty(t, f.rec.events)
	assert.Empty(t, f.gateway.Calls())
}

func TestSession_PreviousAtFirstTrack(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.playing(t)
	f.rec.reset()

	require.NoError(t, f.session.Previous())

	assert.Equal(t, StatusPlaying, f.session.Status())
	assert.Equal(t, 0, f.session.Index())
	assert.Empty(t, f.rec.events)
}

func TestSession_PauseResume(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.playing(t)

	require.NoError(t, f.session.Pause())
	assert.False(t, f.gateway.Playing())

	require.NoError(t, f.session.Play())
	assert.Equal(t, StatusPlaying, f.session.Status())
	assert.True(t, f.gateway.Playing())
	assert.Len(t, eventsOf[PlaybackStarted](f.rec), 2)
}

func TestSession_NextAtLastTrackEnds(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.playing(t)
	require.NoError(t, f.session.Next())
	f.session.HandleEvent(f.gateway.Ready(defaultClip))
	f.rec.reset()

	require.NoError(t, f.session.Next())

	assert.Equal(t, StatusEnded, f.session.Status())
	assert.Len(t, eventsOf[PlaylistEnded](f.rec), 1)
	assert.Contains(t, f.gateway.Calls(), "Stop")

	// Next and Previous do nothing once ended.
	f.rec.reset()
	require.NoError(t, f.session.Next())
	require.NoError(t, f.session.Previous())
	assert.Equal(t, StatusEnded, f.session.Status())
	assert.Empty(t, f.rec.events)
}

func TestSession_EndedPlayRestartsFromFirstTrack(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.playing(t)
	require.NoError(t, f.session.Next())
	require.NoError(t, f.session.Next())
	require.Equal(t, StatusEnded, f.session.Status())

	require.NoError(t, f.session.Play())

	assert.Equal(t, StatusLoading, f.session.Status())
	assert.Equal(t, 0, f.session.Index())
	f.session.HandleEvent(f.gateway.Ready(defaultClip))
	assert.Equal(t, StatusPlaying, f.session.Status())
}

func TestSession_IdleNextPreloads(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})

	require.NoError(t, f.session.Next())

	assert.Equal(t, StatusIdle, f.session.Status())
	assert.Equal(t, 1, f.session.Index())
	assert.Equal(t, []string{"b.mp3"}, f.gateway.LoadCalls())
	require.Len(t, eventsOf[TrackChanged](f.rec), 1)

	// A ready preload starts immediately on Play.
	f.session.HandleEvent(f.gateway.Ready(defaultClip))
	assert.Equal(t, StatusIdle, f.session.Status())
	require.NoError(t, f.session.Play())
	assert.Equal(t, StatusPlaying, f.session.Status())
	assert.Len(t, f.gateway.LoadCalls(), 1)
}

func TestSession_IdleNextAtLastTrack(t *testing.T) {
	f := newFixture(t, playlist.New(playlist.Track{VerseKey: "1:1", SourceURL: "a.mp3"}), Options{})

	require.NoError(t, f.session.Next())

	assert.Equal(t, StatusIdle, f.session.Status())
	assert.Empty(t, f.rec.events)
}

func TestSession_PreloadFailureStaysIdle(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	require.NoError(t, f.session.Next())

	f.session.HandleEvent(f.gateway.Fail(player.KindNetwork))

	assert.Equal(t, StatusIdle, f.session.Status())
	assert.Empty(t, eventsOf[PlaybackError](f.rec))

	// Play retries the load.
	require.NoError(t, f.session.Play())
	assert.Equal(t, StatusLoading, f.session.Status())
	assert.Equal(t, []string{"b.mp3", "b.mp3"}, f.gateway.LoadCalls())
}

func TestSession_PauseWhileLoadingCancels(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	require.NoError(t, f.session.Play())
	f.gateway.ResetCalls()

	require.NoError(t, f.session.Pause())

	assert.Equal(t, StatusIdle, f.session.Status())
	assert.Equal(t, []string{"Stop"}, f.gateway.Calls())
	assert.Nil(t, f.registry.Active())
}

func TestSession_LoadErrorThenRecover(t *testing.T) {
	tests := []struct {
		name    string
		recover func(*Session) error
		index   int
	}{
		{"play retries same track", (*Session).Play, 0},
		{"next moves on", (*Session).Next, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, twoVerses(), Options{})
			require.NoError(t, f.session.Play())
			f.session.HandleEvent(f.gateway.Fail(player.KindDecode))

			require.Equal(t, StatusError, f.session.Status())
			errs := eventsOf[PlaybackError](f.rec)
			require.Len(t, errs, 1)
			assert.Equal(t, player.KindDecode, errs[0].Kind)
			assert.Equal(t, "2:1", errs[0].VerseKey)

			require.NoError(t, tt.recover(f.session))
			assert.Equal(t, StatusLoading, f.session.Status())
			assert.Equal(t, tt.index, f.session.Index())

			f.session.HandleEvent(f.gateway.Ready(defaultClip))
			assert.Equal(t, StatusPlaying, f.session.Status())
		})
	}
}

func TestSession_SetPlaylistWhilePlayingContinues(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.playing(t)
	require.NoError(t, f.session.Next())
	f.session.HandleEvent(f.gateway.Ready(defaultClip))
	f.session.HandleEvent(f.gateway.Progress(2 * time.Second))
	f.rec.reset()

	next := playlist.New(
		playlist.Track{VerseKey: "2:6", SourceURL: "c.mp3"},
		playlist.Track{VerseKey: "2:7", SourceURL: "d.mp3"},
	)
	f.session.SetPlaylist(next)

	snap := f.session.Snapshot()
	assert.Equal(t, StatusLoading, snap.Status)
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, time.Duration(0), snap.Position)
	assert.True(t, snap.Duration.IsAbsent())
	assert.True(t, snap.Playlist.Equal(next))
	changes := eventsOf[TrackChanged](f.rec)
	require.Len(t, changes, 1)
	assert.Equal(t, "2:6", changes[0].VerseKey)
	assert.Equal(t, "c.mp3", f.gateway.URL())
}

func TestSession_SetPlaylistWhileIdleOrPaused(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		f := newFixture(t, twoVerses(), Options{})
		f.session.SetPlaylist(twoVerses())
		assert.Equal(t, StatusIdle, f.session.Status())
		assert.Empty(t, f.gateway.LoadCalls())
	})

	t.Run("paused", func(t *testing.T) {
		f := newFixture(t, twoVerses(), Options{})
		f.playing(t)
		require.NoError(t, f.session.Pause())

		f.session.SetPlaylist(twoVerses())

		assert.Equal(t, StatusIdle, f.session.Status())
		assert.Nil(t, f.registry.Active())
	})

	t.Run("empty while playing", func(t *testing.T) {
		f := newFixture(t, twoVerses(), Options{})
		f.playing(t)

		f.session.SetPlaylist(playlist.New())

		assert.Equal(t, StatusIdle, f.session.Status())
		assert.Equal(t, 0, f.session.Index())
		assert.Nil(t, f.registry.Active())
	})
}

func TestSession_StaleReadyIgnored(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	require.NoError(t, f.session.Play())
	stale := f.gateway.Ready(defaultClip)
	require.NoError(t, f.session.Next())

	f.session.HandleEvent(stale)

	assert.Equal(t, StatusLoading, f.session.Status())
	assert.False(t, f.gateway.Playing())
}

func TestSession_DurationKnown(t *testing.T) {
	pl := playlist.New(
		playlist.Track{VerseKey: "2:1", SourceURL: "a.mp3", Duration: 6 * time.Second},
		playlist.Track{VerseKey: "2:2", SourceURL: "b.mp3"},
	)
	f := newFixture(t, pl, Options{})
	require.NoError(t, f.session.Play())

	d, ok := f.session.Snapshot().Duration.Get()
	require.True(t, ok, "content duration is shown while loading")
	assert.Equal(t, 6*time.Second, d)

	stale := f.gateway.DurationKnown(time.Hour)
	f.session.HandleEvent(f.gateway.DurationKnown(5 * time.Second))
	assert.Equal(t, mo.Some(5*time.Second), f.session.Snapshot().Duration, "decoded length replaces the hint")

	f.session.HandleEvent(f.gateway.Ready(5 * time.Second))
	f.session.HandleEvent(f.gateway.Progress(time.Minute))
	assert.Equal(t, 5*time.Second, f.session.Snapshot().Position)

	require.NoError(t, f.session.Next())
	assert.True(t, f.session.Snapshot().Duration.IsAbsent(), "track without a hint starts unknown")
	f.session.HandleEvent(stale)
	assert.True(t, f.session.Snapshot().Duration.IsAbsent(), "stale duration ignored")
}

func TestSession_DecodeErrorDuringPlaybackDoesNotAdvance(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.playing(t)
	f.rec.reset()

	f.session.HandleEvent(f.gateway.Fail(player.KindDecode))

	assert.Equal(t, StatusError, f.session.Status())
	assert.Equal(t, 0, f.session.Index())
	assert.Equal(t, player.KindDecode, f.session.Snapshot().Err)
	errs := eventsOf[PlaybackError](f.rec)
	require.Len(t, errs, 1)
	assert.Equal(t, "2:1", errs[0].VerseKey)
	assert.Empty(t, eventsOf[TrackChanged](f.rec))
}

func TestSession_ProgressAndSeek(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.session.Seek(time.Second)
	assert.Empty(t, f.gateway.SeekCalls(), "seek without a clip is a no-op")

	f.playing(t)
	f.session.HandleEvent(f.gateway.Progress(2 * time.Second))
	assert.Equal(t, 2*time.Second, f.session.Snapshot().Position)

	f.session.HandleEvent(f.gateway.Progress(time.Minute))
	assert.Equal(t, defaultClip, f.session.Snapshot().Position, "position never exceeds duration")

	f.session.Seek(time.Hour)
	f.session.SeekBy(-2 * time.Second)
	f.session.Seek(-time.Second)
	assert.Equal(t, []time.Duration{defaultClip, defaultClip - 2*time.Second, 0}, f.gateway.SeekCalls())
	assert.Equal(t, time.Duration(0), f.session.Snapshot().Position)
}

func TestSession_VolumeMuteAutoplay(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})

	f.session.SetVolume(1.7)
	assert.InDelta(t, 1.0, f.session.Snapshot().Volume, 1e-9)
	f.session.SetVolume(-0.3)
	assert.InDelta(t, 0.0, f.gateway.Volume(), 1e-9)

	f.session.SetMuted(true)
	assert.True(t, f.session.Snapshot().Muted)
	assert.True(t, f.gateway.Muted())

	assert.False(t, f.session.AutoplayEnabled())
	f.session.SetAutoplay(true)
	assert.True(t, f.session.Snapshot().Autoplay)
}

func TestSession_PlayVerse(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})

	require.NoError(t, f.session.PlayVerse("2:2"))
	assert.Equal(t, 1, f.session.Index())
	assert.Equal(t, StatusLoading, f.session.Status())
	assert.Equal(t, "b.mp3", f.gateway.URL())

	err := f.session.PlayVerse("3:1")
	assert.ErrorIs(t, err, ErrUnknownVerse)
	assert.Equal(t, 1, f.session.Index())
}

func TestSession_StateChangedEvents(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.playing(t)
	require.NoError(t, f.session.Pause())

	var got []Status
	for _, e := range eventsOf[StateChanged](f.rec) {
		got = append(got, e.Current)
	}
	assert.Equal(t, []Status{StatusLoading, StatusPlaying, StatusPaused}, got)
}

func TestSession_Close(t *testing.T) {
	f := newFixture(t, twoVerses(), Options{})
	f.playing(t)

	require.NoError(t, f.session.Close())
	require.NoError(t, f.session.Close())

	assert.True(t, f.gateway.Closed())
	assert.Nil(t, f.registry.Active())
	assert.ErrorIs(t, f.session.Play(), ErrClosed)
	assert.ErrorIs(t, f.session.Next(), ErrClosed)
}

func TestSession_Run(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, twoVerses(), Options{})
		require.NoError(t, f.session.Play())

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- f.session.Run(ctx) }()

		f.gateway.Emit(f.gateway.Ready(defaultClip))
		synctest.Wait()
		cancel()

		assert.ErrorIs(t, <-done, context.Canceled)
		assert.Equal(t, StatusPlaying, f.session.Status())
	})
}

// TestSession_IndexInvariant drives a session with random commands and
// gateway events and checks the structural invariants after each step.
func TestSession_IndexInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	f := newFixture(t, twoVerses(), Options{})
	lists := []playlist.Playlist{
		playlist.New(),
		twoVerses(),
		playlist.New(
			playlist.Track{VerseKey: "1:1", SourceURL: "a.mp3"},
			playlist.Track{VerseKey: "1:2", SourceURL: "b.mp3"},
			playlist.Track{VerseKey: "1:3", SourceURL: "c.mp3"},
		),
	}

	steps := []func(){
		func() { _ = f.session.Play() },
		func() { _ = f.session.Pause() },
		func() { _ = f.session.Next() },
		func() { _ = f.session.Previous() },
		func() { f.session.HandleEvent(f.gateway.Ready(defaultClip)) },
		func() { f.session.HandleEvent(f.gateway.Ended()) },
		func() { f.session.HandleEvent(f.gateway.Fail(player.KindNetwork)) },
		func() { f.session.HandleEvent(f.gateway.Aborted(f.gateway.Gen())) },
		func() { f.session.SetPlaylist(lists[rng.IntN(len(lists))]) },
	}

	for i := range 2000 {
		steps[rng.IntN(len(steps))]()

		snap := f.session.Snapshot()
		if snap.Playlist.IsEmpty() {
			if snap.Index != 0 || snap.Status != StatusIdle {
				t.Fatalf("step %d: empty playlist with index %d status %v", i, snap.Index, snap.Status)
			}
		} else if snap.Index < 0 || snap.Index >= snap.Playlist.Len() {
			t.Fatalf("step %d: index %d out of range [0,%d)", i, snap.Index, snap.Playlist.Len())
		}
		if snap.Status == StatusPlaying && f.registry.Active() != f.session {
			t.Fatalf("step %d: playing without holding the output", i)
		}
		if d, ok := snap.Duration.Get(); ok && snap.Position > d {
			t.Fatalf("step %d: position %v beyond duration %v", i, snap.Position, d)
		}
	}
}
