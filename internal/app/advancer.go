package app

import (
	"github.com/llehouerou/tilawa/internal/autoplay"
	"github.com/llehouerou/tilawa/internal/playlist"
)

// pageAdvancer answers autoplay requests with the next page. The request
// is recorded during the session call and turned into a fetch command
// afterwards.
type pageAdvancer struct {
	reply     autoplay.Reply
	requested bool
}

func (a *pageAdvancer) RequestNext(reply autoplay.Reply) {
	a.reply = reply
	a.requested = true
}

// takeRequest reports whether a request arrived since the last call.
func (a *pageAdvancer) takeRequest() bool {
	r := a.requested
	a.requested = false
	return r
}

// deliver answers the pending request, if any.
func (a *pageAdvancer) deliver(next playlist.Playlist, err error) {
	reply := a.reply
	a.reply = nil
	if reply != nil {
		reply(next, err)
	}
}
