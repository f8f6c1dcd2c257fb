package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tilawa/internal/errmsg"
	"github.com/llehouerou/tilawa/internal/mpris"
	"github.com/llehouerou/tilawa/internal/playback"
	"github.com/llehouerou/tilawa/internal/player"
	"github.com/llehouerou/tilawa/internal/playlist"
	"github.com/llehouerou/tilawa/internal/quran"
	"github.com/llehouerou/tilawa/internal/state"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case playerEventMsg:
		m.session.HandleEvent(player.Event(msg))
		cmd = waitForPlayerEvent(m.events)
	case mediaRequestMsg:
		m.handleMediaRequest(mpris.Request(msg))
		cmd = waitForMediaRequest(m.mediaCh)
	case pageLoadedMsg:
		cmd = m.handlePageLoaded(msg)
	case autoplayPageMsg:
		cmd = m.handleAutoplayPage(msg)
	case recitersMsg:
		m.handleReciters(msg)
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
	}

	settled := m.settle()
	m.publishMedia()
	return m, tea.Batch(cmd, settled)
}

// settle reacts to the session events published while handling a message.
func (m *Model) settle() tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range m.inbox.take() {
		switch e := e.(type) {
		case playback.TrackChanged:
			m.view.SetCurrent(e.VerseKey)
			m.saveReading(e.VerseKey)
		case playback.StateChanged:
			m.view.SetActive(e.Current.IsActive())
		case playback.PlaybackError:
			if text := errmsg.ForKind(e.Kind, e.VerseKey); text != "" {
				cmds = append(cmds, m.flash(text, true))
			}
		case playback.PlaylistEnded:
			if !m.session.AutoplayEnabled() {
				cmds = append(cmds, m.flash("End of page. Press → for the next page.", false))
			}
		}
	}
	if m.advancer.takeRequest() {
		cmds = append(cmds, m.requestNextPage())
	}
	return tea.Batch(cmds...)
}

// requestNextPage answers an autoplay request: the page after the
// current one, or nothing past the end of the mushaf.
func (m *Model) requestNextPage() tea.Cmd {
	n, ok := m.pager.NextNumber()
	if !ok {
		m.advancer.deliver(playlist.New(), nil)
		return m.flash("End of the Quran.", false)
	}
	m.log.WithField("page", n).Debug("continuing to next page")
	return fetchAutoplayPage(m.pager, n)
}

func (m *Model) handleAutoplayPage(msg autoplayPageMsg) tea.Cmd {
	stillEnded := m.session.Status() == playback.StatusEnded
	var next playlist.Playlist
	if msg.err == nil {
		next = msg.page.Playlist()
	}
	m.advancer.deliver(next, msg.err)

	if msg.err != nil {
		m.log.WithError(msg.err).WithField("page", msg.number).Warn("next page unavailable")
		return m.flash(errmsg.FormatWith(errmsg.OpNextPage, fmt.Sprint(msg.number), msg.err), true)
	}
	if !stillEnded {
		return nil
	}
	m.showPage(msg.page)
	if next.IsEmpty() {
		return m.flash(fmt.Sprintf("No recitation on page %d.", msg.number), false)
	}
	return nil
}

func (m *Model) handlePageLoaded(msg pageLoadedMsg) tea.Cmd {
	if msg.seq != m.pageSeq {
		m.log.WithFields(logrus.Fields{"page": msg.number, "seq": msg.seq}).Debug("dropping stale page")
		return nil
	}
	if msg.err != nil {
		m.log.WithError(msg.err).WithField("page", msg.number).Warn("page load failed")
		return m.flash(errmsg.FormatWith(errmsg.OpPageLoad, fmt.Sprint(msg.number), msg.err), true)
	}
	m.showPage(msg.page)
	m.session.SetPlaylist(msg.page.Playlist())
	return nil
}

// showPage makes page current in the pager and the view.
func (m *Model) showPage(page *quran.Page) {
	m.pager.Set(page)
	m.view.SetPage(page)
	m.saveReading("")
}

// gotoPage starts loading page n. Earlier navigations still in flight
// are dropped when they complete.
func (m *Model) gotoPage(n int) tea.Cmd {
	m.pageSeq++
	return fetchPage(m.pager, n, m.pageSeq)
}

func (m *Model) handleReciters(msg recitersMsg) {
	if msg.err != nil {
		m.log.WithError(msg.err).Debug("reciter list unavailable")
		return
	}
	for _, r := range msg.reciters {
		if r.ID == m.pager.Reciter() {
			m.reciterName = r.DisplayName()
			return
		}
	}
}

func (m *Model) handleMediaRequest(req mpris.Request) {
	m.log.WithField("command", req.Command).Debug("media request")
	var err error
	switch req.Command {
	case mpris.CommandPlay:
		err = m.session.Play()
	case mpris.CommandPause, mpris.CommandStop:
		err = m.session.Pause()
	case mpris.CommandPlayPause:
		err = m.session.Toggle()
	case mpris.CommandNext:
		err = m.session.Next()
	case mpris.CommandPrevious:
		err = m.session.Previous()
	case mpris.CommandSeek:
		m.session.SeekBy(req.Offset)
	case mpris.CommandSetPosition:
		m.session.Seek(req.Offset)
	case mpris.CommandSetVolume:
		m.session.SetVolume(req.Volume)
		m.saveVolume()
	}
	if err != nil {
		m.log.WithError(err).WithField("command", req.Command).Warn("media request failed")
	}
}

// flash shows text on the status line until it expires.
func (m *Model) flash(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	return clearStatusCmd(m.statusSeq)
}

func (m *Model) saveReading(verseKey string) {
	if n := m.pager.Number(); n > 0 {
		m.state.SaveReading(state.ReadingState{Page: n, VerseKey: verseKey})
	}
}

func (m *Model) saveVolume() {
	snap := m.session.Snapshot()
	if err := m.state.SaveVolume(snap.Volume, snap.Muted); err != nil {
		m.log.WithError(err).Warn(errmsg.Format(errmsg.OpSettingsSave, err))
	}
}

func (m *Model) publishMedia() {
	if m.media == nil {
		return
	}
	m.media.Update(mpris.StateFrom(m.session.Snapshot(), m.reciterName, m.pager.Number()))
}
