package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tilawa/internal/bus"
	"github.com/llehouerou/tilawa/internal/errmsg"
	"github.com/llehouerou/tilawa/internal/playback"
)

const (
	verseTimeout = 4000
	errorTimeout = 8000

	iconPlaying = "media-playback-start"
	iconError   = "dialog-error"

	categoryVerse = "x-tilawa.verse"
	categoryError = "x-tilawa.error"
)

// Announcer shows a desktop notification for each verse a session starts
// reciting and for playback errors. It reads the session's bus from its
// own goroutine, so a slow notification server never stalls playback.
type Announcer struct {
	n       Notifier
	session string
	log     logrus.FieldLogger
	sub     *bus.Subscription
	wg      sync.WaitGroup

	// Owned by the run goroutine.
	id        uint32
	announced string
}

// NewAnnouncer subscribes to b and starts announcing events of the named
// session. Call Close to stop.
func NewAnnouncer(n Notifier, b *bus.Bus, session string, logger logrus.FieldLogger) *Announcer {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	a := &Announcer{
		n:       n,
		session: session,
		log:     logger.WithField("component", "notify"),
		sub: b.Channel(
			playback.TopicPlaybackStarted,
			playback.TopicPlaybackError,
			playback.TopicPlaylistEnded,
		),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *Announcer) run() {
	defer a.wg.Done()
	for {
		select {
		case <-a.sub.Done:
			return
		case e := <-a.sub.Events:
			a.handle(e)
		}
	}
}

func (a *Announcer) handle(e bus.Event) {
	switch e := e.(type) {
	case playback.PlaybackStarted:
		if e.Session != a.session || e.VerseKey == a.announced {
			return
		}
		a.announced = e.VerseKey
		a.show(Notification{
			Title:   "Reciting " + e.VerseKey,
			Body:    describeVerse(e.VerseKey),
			Icon:      iconPlaying,
			Category:  categoryVerse,
			Transient: true,
			Timeout:   verseTimeout,
			Urgency:   UrgencyLow,
		})
	case playback.PlaybackError:
		if e.Session != a.session {
			return
		}
		msg := errmsg.ForKind(e.Kind, e.VerseKey)
		if msg == "" {
			return
		}
		a.announced = ""
		a.show(Notification{
			Title:   "Recitation stopped",
			Body:    msg,
			Icon:     iconError,
			Category: categoryError,
			Timeout:  errorTimeout,
			Urgency:  UrgencyNormal,
		})
	case playback.PlaylistEnded:
		if e.Session != a.session || a.id == 0 {
			return
		}
		if err := a.n.Close(a.id); err != nil {
			a.log.WithError(err).Debug("close notification")
		}
		a.id = 0
		a.announced = ""
	}
}

func (a *Announcer) show(n Notification) {
	n.ReplacesID = a.id
	id, err := a.n.Notify(n)
	if err != nil {
		a.log.WithError(err).Debug("send notification")
		return
	}
	a.id = id
}

// Close stops the announcer and waits for it to finish.
func (a *Announcer) Close() {
	a.sub.Close()
	a.wg.Wait()
}

// describeVerse renders "2:255" as "Surah 2, verse 255".
func describeVerse(key string) string {
	chapter, verse, ok := strings.Cut(key, ":")
	if !ok {
		return ""
	}
	return fmt.Sprintf("Surah %s, verse %s", chapter, verse)
}
