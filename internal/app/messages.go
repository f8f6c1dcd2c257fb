package app

import (
	"github.com/llehouerou/tilawa/internal/mpris"
	"github.com/llehouerou/tilawa/internal/player"
	"github.com/llehouerou/tilawa/internal/quran"
)

// playerEventMsg carries a gateway event to the session.
type playerEventMsg player.Event

// mediaRequestMsg carries an MPRIS control request.
type mediaRequestMsg mpris.Request

// pageLoadedMsg is the result of a page navigation fetch. Only the fetch
// matching the latest seq is shown.
type pageLoadedMsg struct {
	seq    int
	number int
	page   *quran.Page
	err    error
}

// autoplayPageMsg is the result of fetching the page that follows a
// finished one.
type autoplayPageMsg struct {
	number int
	page   *quran.Page
	err    error
}

type recitersMsg struct {
	reciters []quran.Reciter
	err      error
}

// clearStatusMsg expires the status line message with the same seq.
type clearStatusMsg struct {
	seq int
}
