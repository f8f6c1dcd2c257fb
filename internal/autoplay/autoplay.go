// Package autoplay continues recitation across playlists: when a
// session's playlist ends and autoplay is on, it asks the host for the
// next one (typically the next page) and starts it.
package autoplay

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tilawa/internal/bus"
	"github.com/llehouerou/tilawa/internal/playback"
	"github.com/llehouerou/tilawa/internal/playlist"
)

// Reply delivers the next playlist. An empty playlist means there is no
// further content. Reply must be called on the session's goroutine.
type Reply func(next playlist.Playlist, err error)

// Advancer supplies the playlist that follows the current one.
type Advancer interface {
	// RequestNext answers through reply, now or later.
	RequestNext(reply Reply)
}

// AdvancerFunc adapts a function to Advancer.
type AdvancerFunc func(reply Reply)

func (f AdvancerFunc) RequestNext(reply Reply) { f(reply) }

// Controller chains playlists for one session.
type Controller struct {
	session  *playback.Session
	advancer Advancer
	log      logrus.FieldLogger

	token uint64
	unsub func()
}

// New attaches a controller to the session's bus.
func New(s *playback.Session, adv Advancer, logger logrus.FieldLogger) *Controller {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	c := &Controller{
		session:  s,
		advancer: adv,
		log:      logger.WithFields(logrus.Fields{"session": s.Name(), "component": "autoplay"}),
	}
	c.unsub = s.Bus().Subscribe(playback.TopicPlaylistEnded, c.onEnded)
	return c
}

// Close detaches the controller. Pending replies are ignored.
func (c *Controller) Close() {
	c.unsub()
	c.token++
}

func (c *Controller) onEnded(e bus.Event) {
	ended, ok := e.(playback.PlaylistEnded)
	if !ok || ended.Session != c.session.Name() {
		return
	}
	if !c.session.AutoplayEnabled() {
		c.log.Debug("autoplay off, staying at end")
		return
	}

	c.token++
	token := c.token
	c.log.Debug("requesting next playlist")
	c.advancer.RequestNext(func(next playlist.Playlist, err error) {
		c.apply(token, next, err)
	})
}

func (c *Controller) apply(token uint64, next playlist.Playlist, err error) {
	switch {
	case token != c.token:
		c.log.Debug("ignoring superseded reply")
	case err != nil:
		c.log.WithError(err).Warn("next playlist unavailable")
	case next.IsEmpty():
		c.log.Info("no further content")
	case c.session.Status() != playback.StatusEnded:
		c.log.WithField("status", c.session.Status()).Debug("session moved on, dropping reply")
	default:
		c.session.SetPlaylist(next)
		if err := c.session.Play(); err != nil {
			c.log.WithError(err).Warn("autoplay start failed")
		}
	}
}
