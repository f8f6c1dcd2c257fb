// Package reader tracks the page being read and turns it into a
// recitation playlist.
package reader

import (
	"context"
	"fmt"

	"github.com/llehouerou/tilawa/internal/playlist"
	"github.com/llehouerou/tilawa/internal/quran"
)

// Source fetches page content.
type Source interface {
	Page(ctx context.Context, page, reciter int) (*quran.Page, error)
}

// Pager holds the current page. Fetch is safe to call from any
// goroutine; the other methods belong to the owner's goroutine.
type Pager struct {
	src     Source
	reciter int
	page    *quran.Page
}

// New creates a pager with no page loaded.
func New(src Source, reciter int) *Pager {
	return &Pager{src: src, reciter: reciter}
}

// Fetch retrieves page n without changing the current page.
func (p *Pager) Fetch(ctx context.Context, n int) (*quran.Page, error) {
	return p.FetchWith(ctx, n, p.reciter)
}

// FetchWith is Fetch for an explicit reciter.
func (p *Pager) FetchWith(ctx context.Context, n, reciter int) (*quran.Page, error) {
	if n < quran.FirstPage || n > quran.LastPage {
		return nil, fmt.Errorf("%w: %d", quran.ErrInvalidPage, n)
	}
	return p.src.Page(ctx, n, reciter)
}

// Load fetches page n and makes it current.
func (p *Pager) Load(ctx context.Context, n int) (*quran.Page, error) {
	page, err := p.Fetch(ctx, n)
	if err != nil {
		return nil, err
	}
	p.Set(page)
	return page, nil
}

// Set makes page current.
func (p *Pager) Set(page *quran.Page) { p.page = page }

// Current returns the current page, or nil.
func (p *Pager) Current() *quran.Page { return p.page }

// Number returns the current page number, or 0 before the first load.
func (p *Pager) Number() int {
	if p.page == nil {
		return 0
	}
	return p.page.Number
}

// NextNumber returns the page after the current one.
func (p *Pager) NextNumber() (int, bool) {
	n := p.Number()
	if n == 0 || n >= quran.LastPage {
		return 0, false
	}
	return n + 1, true
}

// PrevNumber returns the page before the current one.
func (p *Pager) PrevNumber() (int, bool) {
	n := p.Number()
	if n <= quran.FirstPage {
		return 0, false
	}
	return n - 1, true
}

// Playlist returns the recitation playlist of the current page.
func (p *Pager) Playlist() playlist.Playlist {
	if p.page == nil {
		return playlist.New()
	}
	return p.page.Playlist()
}

func (p *Pager) Reciter() int { return p.reciter }

// SetReciter changes the reciter used by later fetches.
func (p *Pager) SetReciter(id int) { p.reciter = id }
