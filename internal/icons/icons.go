// Package icons selects the glyphs used for playback indicators.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play     string
	Pause    string
	Loading  string
	Stopped  string
	Volume   string
	Mute     string
	Autoplay string
	Error    string
}

var (
	nerdIcons = Icons{
		Play:     "\uf04b", // nf-fa-play
		Pause:    "\uf04c", // nf-fa-pause
		Loading:  "󰔟",       // nf-md-timer_sand
		Stopped:  "\uf04d", // nf-fa-stop
		Volume:   "󰕾",       // nf-md-volume_high
		Mute:     "󰝟",       // nf-md-volume_mute
		Autoplay: "󰑖",       // nf-md-repeat
		Error:    "\uf071", // nf-fa-warning
	}

	unicodeIcons = Icons{
		Play:     "▶",
		Pause:    "⏸",
		Loading:  "…",
		Stopped:  "■",
		Volume:   "🔊",
		Mute:     "🔇",
		Autoplay: "🔁",
		Error:    "⚠",
	}

	noneIcons = Icons{
		Play:     ">",
		Pause:    "||",
		Loading:  "..",
		Stopped:  "[]",
		Volume:   "vol",
		Mute:     "mute",
		Autoplay: "[A]",
		Error:    "!",
	}

	// current holds the active icon set
	current = noneIcons
)

// Init initializes the icons based on the style.
// Call this once at startup with the config value.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleUnicode:
		current = unicodeIcons
	case StyleNone:
		current = noneIcons
	default:
		current = noneIcons
	}
}

func Play() string     { return current.Play }
func Pause() string    { return current.Pause }
func Loading() string  { return current.Loading }
func Stopped() string  { return current.Stopped }
func Autoplay() string { return current.Autoplay }
func Error() string    { return current.Error }

// Volume returns the volume indicator, or the mute one when muted.
func Volume(muted bool) string {
	if muted {
		return current.Mute
	}
	return current.Volume
}
