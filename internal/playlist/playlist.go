// Package playlist holds the immutable recitation model: one Track per verse
// clip and the ordered Playlist built from a page of verses.
package playlist

import (
	"slices"
	"time"
)

// Track is one playable recitation clip for a single verse.
type Track struct {
	VerseKey  string // "chapter:verse"
	SourceURL string // absolute URL of the clip
	// Duration is the length announced by the content source, zero when
	// unknown. The decoded clip has the final word.
	Duration time.Duration
}

// Playlist holds an ordered, immutable collection of tracks.
// The zero value is an empty playlist.
type Playlist struct {
	tracks []Track
}

// New creates a playlist from the given tracks. The slice is copied.
func New(tracks ...Track) Playlist {
	if len(tracks) == 0 {
		return Playlist{}
	}
	return Playlist{tracks: slices.Clone(tracks)}
}

// Tracks returns a copy of all tracks.
func (p Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// At returns the track at the given index and false if out of bounds.
func (p Playlist) At(index int) (Track, bool) {
	if index < 0 || index >= len(p.tracks) {
		return Track{}, false
	}
	return p.tracks[index], true
}

// Len returns the number of tracks.
func (p Playlist) Len() int {
	return len(p.tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p Playlist) IsEmpty() bool {
	return len(p.tracks) == 0
}

// IndexOf returns the index of the track with the given verse key, or -1.
func (p Playlist) IndexOf(verseKey string) int {
	return slices.IndexFunc(p.tracks, func(t Track) bool {
		return t.VerseKey == verseKey
	})
}

// Equal reports whether both playlists hold the same tracks in the same order.
func (p Playlist) Equal(other Playlist) bool {
	return slices.Equal(p.tracks, other.tracks)
}
