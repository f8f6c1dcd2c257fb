package playlist

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Audio describes the recitation clip attached to a verse.
type Audio struct {
	URL      string
	Duration time.Duration // zero when unknown
}

// VerseWithAudio is a verse as supplied by the content collaborator.
// Audio is nil when the reciter has no clip for the verse.
type VerseWithAudio struct {
	VerseKey string
	Audio    *Audio
}

// Build maps verses to tracks, preserving order and skipping verses
// without a resolvable audio source.
func Build(verses []VerseWithAudio) Playlist {
	tracks := lo.FilterMap(verses, func(v VerseWithAudio, _ int) (Track, bool) {
		if v.Audio == nil || v.VerseKey == "" {
			return Track{}, false
		}
		url := strings.TrimSpace(v.Audio.URL)
		if url == "" {
			return Track{}, false
		}
		return Track{VerseKey: v.VerseKey, SourceURL: url, Duration: max(0, v.Audio.Duration)}, true
	})
	return Playlist{tracks: tracks}
}
