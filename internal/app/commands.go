package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tilawa/internal/mpris"
	"github.com/llehouerou/tilawa/internal/player"
	"github.com/llehouerou/tilawa/internal/reader"
)

const (
	fetchTimeout   = 20 * time.Second
	statusDuration = 4 * time.Second
)

// waitForPlayerEvent waits for the next gateway event.
func waitForPlayerEvent(ch <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		return playerEventMsg(<-ch)
	}
}

// waitForMediaRequest waits for the next MPRIS request.
func waitForMediaRequest(ch <-chan mpris.Request) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return mediaRequestMsg(<-ch)
	}
}

// fetchPage loads page n for a page navigation.
func fetchPage(p *reader.Pager, n, seq int) tea.Cmd {
	reciter := p.Reciter()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		page, err := p.FetchWith(ctx, n, reciter)
		return pageLoadedMsg{seq: seq, number: n, page: page, err: err}
	}
}

// fetchAutoplayPage loads page n to continue the recitation.
func fetchAutoplayPage(p *reader.Pager, n int) tea.Cmd {
	reciter := p.Reciter()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		page, err := p.FetchWith(ctx, n, reciter)
		return autoplayPageMsg{number: n, page: page, err: err}
	}
}

func fetchReciters(r ReciterLister) tea.Cmd {
	if r == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		reciters, err := r.Reciters(ctx)
		return recitersMsg{reciters: reciters, err: err}
	}
}

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
