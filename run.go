package main

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tilawa/internal/app"
	"github.com/llehouerou/tilawa/internal/bus"
	"github.com/llehouerou/tilawa/internal/config"
	"github.com/llehouerou/tilawa/internal/icons"
	"github.com/llehouerou/tilawa/internal/log"
	"github.com/llehouerou/tilawa/internal/mpris"
	"github.com/llehouerou/tilawa/internal/notify"
	"github.com/llehouerou/tilawa/internal/playback"
	"github.com/llehouerou/tilawa/internal/player"
	"github.com/llehouerou/tilawa/internal/quran"
	"github.com/llehouerou/tilawa/internal/reader"
	"github.com/llehouerou/tilawa/internal/state"
	"github.com/llehouerou/tilawa/internal/stderr"
)

const mediaQueueSize = 16

// settings is the startup state once config, saved preferences and flags
// are merged.
type settings struct {
	page     int
	reciter  int
	autoplay bool
	volume   float64
	muted    bool
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newContentClient(cfg *config.Config) *quran.Client {
	api := cfg.GetAPIConfig()
	return quran.New(quran.Options{
		BaseURL:      api.BaseURL,
		AudioBaseURL: api.AudioBaseURL,
		Timeout:      api.Timeout(),
	})
}

// resolveSettings merges the sources of each setting. Flags win over saved
// preferences, which win over the config file. An explicit start page in
// the config wins over the last page read.
func resolveSettings(cmd *cobra.Command, cfg *config.Config, st state.Interface) (settings, error) {
	pb := cfg.GetPlaybackConfig()
	s := settings{
		page:     quran.FirstPage,
		reciter:  cfg.Reciter,
		autoplay: pb.Autoplay,
		volume:   *pb.Volume,
	}

	prefs, err := st.GetPreferences()
	if err != nil {
		return s, err
	}
	if prefs.Reciter > 0 {
		s.reciter = prefs.Reciter
	}
	if prefs.Autoplay != nil {
		s.autoplay = *prefs.Autoplay
	}

	vol, err := st.GetVolume()
	if err != nil {
		return s, err
	}
	if vol != nil {
		s.volume, s.muted = vol.Volume, vol.Muted
	}

	reading, err := st.GetReading()
	if err != nil {
		return s, err
	}
	switch {
	case cfg.StartPage > 0:
		s.page = cfg.StartPage
	case reading != nil && reading.Page > 0:
		s.page = reading.Page
	}

	fs := cmd.Flags()
	if fs.Changed("page") {
		if s.page, err = fs.GetInt("page"); err != nil {
			return s, err
		}
	}
	if fs.Changed("reciter") {
		if s.reciter, err = fs.GetInt("reciter"); err != nil {
			return s, err
		}
		if err := st.SaveReciter(s.reciter); err != nil {
			return s, err
		}
	}
	if fs.Changed("autoplay") {
		if s.autoplay, err = fs.GetBool("autoplay"); err != nil {
			return s, err
		}
	}

	if s.page < quran.FirstPage || s.page > quran.LastPage {
		return s, fmt.Errorf("%w: %d", quran.ErrInvalidPage, s.page)
	}
	return s, nil
}

func run(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	icons.Init(cfg.Icons)

	logger, closeLog, err := log.Setup(cfg.GetLogConfig(), time.Now())
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	if capture, err := stderr.Start(logger); err != nil {
		logger.WithError(err).Warn("stderr capture unavailable")
	} else {
		defer capture.Stop()
	}

	st, err := state.Open()
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer func() { _ = st.Close() }()

	s, err := resolveSettings(cmd, cfg, st)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"page": s.page, "reciter": s.reciter, "autoplay": s.autoplay}).Info("starting")

	content := newContentClient(cfg)
	gateway := player.New(player.Options{
		LoadTimeout: cfg.GetPlaybackConfig().LoadTimeout(),
		Logger:      logger,
	})
	session := playback.NewSession(gateway, playback.Default(), bus.New(), playback.Options{
		Name:     "main",
		Volume:   mo.Some(s.volume),
		Muted:    s.muted,
		Autoplay: s.autoplay,
		Logger:   logger,
	})
	defer func() { _ = session.Close() }()

	if cfg.NotificationsEnabled() {
		if notifier, err := notify.New(); err != nil {
			logger.WithError(err).Warn("desktop notifications unavailable")
		} else {
			announcer := notify.NewAnnouncer(notifier, session.Bus(), session.Name(), logger)
			defer announcer.Close()
		}
	}

	var media app.MediaPublisher
	var requests chan mpris.Request
	if cfg.MPRISEnabled() {
		requests = make(chan mpris.Request, mediaQueueSize)
		adapter, err := mpris.New(func(r mpris.Request) {
			select {
			case requests <- r:
			default:
				logger.WithField("command", r.Command).Warn("media request dropped")
			}
		})
		if err != nil {
			logger.WithError(err).Warn("MPRIS unavailable")
			requests = nil
		} else {
			media = adapter
			defer func() { _ = adapter.Close() }()
		}
	}

	m := app.New(app.Options{
		Session:       session,
		Gateway:       gateway,
		Pager:         reader.New(content, s.reciter),
		State:         st,
		Reciters:      content,
		Media:         media,
		MediaRequests: requests,
		StartPage:     s.page,
		Logger:        logger,
	})
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// printReciters lists recitations, marking the configured one.
func printReciters(w io.Writer, reciters []quran.Reciter, current int) {
	width := len(fmt.Sprint(lo.MaxBy(reciters, func(a, b quran.Reciter) bool { return a.ID > b.ID }).ID))
	for _, r := range reciters {
		mark := " "
		if r.ID == current {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %*d  %s\n", mark, width, r.ID, r.DisplayName())
	}
}
