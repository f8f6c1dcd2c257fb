package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tilawa/internal/app/handler"
	"github.com/llehouerou/tilawa/internal/errmsg"
	"github.com/llehouerou/tilawa/internal/keymap"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.1
)

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	res := handler.Chain(msg.String(),
		m.handleGlobalKeys,
		m.handlePlaybackKeys,
		m.handleReadingKeys,
	)
	return res.Cmd
}

func (m *Model) handleGlobalKeys(key string) handler.Result {
	switch m.keys.Resolve(key) {
	case keymap.ActionQuit:
		return handler.Handled(tea.Quit)
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		m.resize()
		return handler.HandledNoCmd
	}
	return handler.NotHandled
}

func (m *Model) handlePlaybackKeys(key string) handler.Result {
	var err error
	switch m.keys.Resolve(key) {
	case keymap.ActionPlayPause:
		err = m.session.Toggle()
	case keymap.ActionNextVerse:
		err = m.session.Next()
	case keymap.ActionPrevVerse:
		if m.session.Index() == 0 && !m.session.Playlist().IsEmpty() {
			return handler.Handled(m.flash("Already at the first verse of the page.", false))
		}
		err = m.session.Previous()
	case keymap.ActionSeekForward:
		m.session.SeekBy(seekStep)
	case keymap.ActionSeekBackward:
		m.session.SeekBy(-seekStep)
	case keymap.ActionVolumeUp:
		m.session.SetVolume(m.session.Snapshot().Volume + volumeStep)
		m.saveVolume()
	case keymap.ActionVolumeDown:
		m.session.SetVolume(m.session.Snapshot().Volume - volumeStep)
		m.saveVolume()
	case keymap.ActionToggleMute:
		m.session.SetMuted(!m.session.Snapshot().Muted)
		m.saveVolume()
	case keymap.ActionAutoplay:
		return handler.Handled(m.toggleAutoplay())
	default:
		return handler.NotHandled
	}
	if err != nil {
		return handler.Handled(m.flash(errmsg.Format(errmsg.OpPlaybackStart, err), true))
	}
	return handler.HandledNoCmd
}

func (m *Model) toggleAutoplay() tea.Cmd {
	enabled := !m.session.AutoplayEnabled()
	m.session.SetAutoplay(enabled)
	if err := m.state.SaveAutoplay(enabled); err != nil {
		m.log.WithError(err).Warn(errmsg.Format(errmsg.OpSettingsSave, err))
	}
	if enabled {
		return m.flash("Autoplay on: recitation continues to the next page.", false)
	}
	return m.flash("Autoplay off: recitation stops at the end of the page.", false)
}

func (m *Model) handleReadingKeys(key string) handler.Result {
	switch m.keys.Resolve(key) {
	case keymap.ActionNextPage:
		n, ok := m.pager.NextNumber()
		if !ok {
			return handler.Handled(m.flash("This is the last page.", false))
		}
		return handler.Handled(m.gotoPage(n))
	case keymap.ActionPrevPage:
		n, ok := m.pager.PrevNumber()
		if !ok {
			return handler.Handled(m.flash("This is the first page.", false))
		}
		return handler.Handled(m.gotoPage(n))
	case keymap.ActionScrollUp:
		m.view.ScrollBy(-1)
		return handler.HandledNoCmd
	case keymap.ActionScrollDown:
		m.view.ScrollBy(1)
		return handler.HandledNoCmd
	}
	return handler.NotHandled
}
