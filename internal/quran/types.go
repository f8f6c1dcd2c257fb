package quran

import (
	"time"

	"github.com/samber/lo"

	"github.com/llehouerou/tilawa/internal/playlist"
)

// Page bounds of the Madani mushaf.
const (
	FirstPage = 1
	LastPage  = 604
)

// VerseAudio is the recitation clip of a verse.
type VerseAudio struct {
	URL string `json:"url"`
	// Duration in seconds. Only some recitations carry it.
	Duration float64 `json:"duration,omitempty"`
}

// Verse is one ayah as returned by the verses endpoints.
type Verse struct {
	ID          int         `json:"id"`
	VerseKey    string      `json:"verse_key"`
	VerseNumber int         `json:"verse_number"`
	ChapterID   int         `json:"chapter_id"`
	PageNumber  int         `json:"page_number"`
	JuzNumber   int         `json:"juz_number"`
	TextUthmani string      `json:"text_uthmani"`
	Audio       *VerseAudio `json:"audio"`
}

// Page is the content of one mushaf page.
type Page struct {
	Number int
	Verses []Verse
}

// AudioVerses returns the page's verses for building a playlist.
func (p *Page) AudioVerses() []playlist.VerseWithAudio {
	return lo.Map(p.Verses, func(v Verse, _ int) playlist.VerseWithAudio {
		out := playlist.VerseWithAudio{VerseKey: v.VerseKey}
		if v.Audio != nil {
			out.Audio = &playlist.Audio{
				URL:      v.Audio.URL,
				Duration: time.Duration(v.Audio.Duration * float64(time.Second)),
			}
		}
		return out
	})
}

// Playlist builds the recitation playlist of the page.
func (p *Page) Playlist() playlist.Playlist {
	return playlist.Build(p.AudioVerses())
}

// Chapters returns the chapter numbers that appear on the page, in order.
func (p *Page) Chapters() []int {
	return lo.Uniq(lo.Map(p.Verses, func(v Verse, _ int) int { return v.ChapterID }))
}

// Juz returns the juz of the first verse, or 0 for an empty page.
func (p *Page) Juz() int {
	if len(p.Verses) == 0 {
		return 0
	}
	return p.Verses[0].JuzNumber
}

// Reciter is an available recitation.
type Reciter struct {
	ID             int    `json:"id"`
	ReciterName    string `json:"reciter_name"`
	Style          string `json:"style"`
	TranslatedName struct {
		Name         string `json:"name"`
		LanguageName string `json:"language_name"`
	} `json:"translated_name"`
}

// DisplayName returns the reciter name with its style, if any.
func (r Reciter) DisplayName() string {
	name := r.ReciterName
	if name == "" {
		name = r.TranslatedName.Name
	}
	if r.Style != "" {
		return name + " (" + r.Style + ")"
	}
	return name
}

type pageResponse struct {
	Verses []Verse `json:"verses"`
}

type recitersResponse struct {
	Recitations []Reciter `json:"recitations"`
}
