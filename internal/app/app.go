// Package app is the terminal host: it shows the page being read and
// drives the recitation session from keys, media keys and player events.
package app

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tilawa/internal/autoplay"
	"github.com/llehouerou/tilawa/internal/keymap"
	"github.com/llehouerou/tilawa/internal/mpris"
	"github.com/llehouerou/tilawa/internal/playback"
	"github.com/llehouerou/tilawa/internal/player"
	"github.com/llehouerou/tilawa/internal/quran"
	"github.com/llehouerou/tilawa/internal/reader"
	"github.com/llehouerou/tilawa/internal/state"
	"github.com/llehouerou/tilawa/internal/ui/pageview"
)

// ReciterLister lists the available reciters.
type ReciterLister interface {
	Reciters(ctx context.Context) ([]quran.Reciter, error)
}

// MediaPublisher receives the state shown to media key clients.
type MediaPublisher interface {
	Update(s mpris.State)
}

// Options wires the model to its collaborators. Session, Gateway, Pager
// and State are required.
type Options struct {
	Session *playback.Session
	Gateway player.Interface // the session's gateway, for its events
	Pager   *reader.Pager
	State   state.Interface

	Reciters      ReciterLister
	Media         MediaPublisher
	MediaRequests <-chan mpris.Request

	StartPage int
	Logger    logrus.FieldLogger
}

// Model is the root application model.
type Model struct {
	session  *playback.Session
	events   <-chan player.Event
	pager    *reader.Pager
	state    state.Interface
	reciters ReciterLister
	media    MediaPublisher
	mediaCh  <-chan mpris.Request
	log      logrus.FieldLogger

	inbox    *inbox
	advancer *pageAdvancer
	chain    *autoplay.Controller

	keys     *keymap.Resolver
	help     help.Model
	showHelp bool
	view     pageview.Model

	startPage   int
	pageSeq     int
	reciterName string

	status    string
	statusErr bool
	statusSeq int

	width, height int
}

// New creates the model. It subscribes to the session's bus; call Close
// when the program exits.
func New(opts Options) Model {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	start := opts.StartPage
	if start < quran.FirstPage || start > quran.LastPage {
		start = quran.FirstPage
	}

	adv := &pageAdvancer{}
	return Model{
		session:   opts.Session,
		events:    opts.Gateway.Events(),
		pager:     opts.Pager,
		state:     opts.State,
		reciters:  opts.Reciters,
		media:     opts.Media,
		mediaCh:   opts.MediaRequests,
		log:       log.WithField("component", "app"),
		inbox:     newInbox(opts.Session.Bus()),
		advancer:  adv,
		chain:     autoplay.New(opts.Session, adv, log),
		keys:      keymap.NewResolver(keymap.All),
		help:      help.New(),
		view:      pageview.New(),
		startPage: start,
		pageSeq:   1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForPlayerEvent(m.events),
		waitForMediaRequest(m.mediaCh),
		fetchPage(m.pager, m.startPage, m.pageSeq),
		fetchReciters(m.reciters),
	)
}

// Close detaches the model from the session.
func (m Model) Close() {
	m.chain.Close()
	m.inbox.close()
}
