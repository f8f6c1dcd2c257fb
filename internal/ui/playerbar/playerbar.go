// Package playerbar renders the one-line recitation status bar.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tilawa/internal/icons"
	"github.com/llehouerou/tilawa/internal/playback"
	"github.com/llehouerou/tilawa/internal/ui"
	"github.com/llehouerou/tilawa/internal/ui/render"
	"github.com/llehouerou/tilawa/internal/ui/styles"
)

// Height is the rendered height, border included.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Status   playback.Status
	VerseKey string
	Index    int
	Total    int
	Reciter  string
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	Autoplay bool
}

// NewState builds the bar state from a session snapshot.
func NewState(s playback.Snapshot, reciter string) State {
	return State{
		Status:   s.Status,
		VerseKey: s.VerseKey,
		Index:    s.Index,
		Total:    s.Playlist.Len(),
		Reciter:  reciter,
		Position: s.Position,
		Duration: s.Duration.OrEmpty(),
		Volume:   s.Volume,
		Muted:    s.Muted,
		Autoplay: s.Autoplay,
	}
}

func statusIcon(st playback.Status) string {
	switch st {
	case playback.StatusPlaying:
		return icons.Play()
	case playback.StatusPaused:
		return icons.Pause()
	case playback.StatusLoading:
		return icons.Loading()
	case playback.StatusError:
		return icons.Error()
	case playback.StatusIdle, playback.StatusEnded:
	}
	return icons.Stopped()
}

// Render returns the player bar for the given outer width.
func Render(s State, width int) string {
	inner := max(width-ui.BorderWidth, 0)
	st := styles.T().S()

	left := statusIcon(s.Status) + " "
	if s.VerseKey == "" {
		left += st.Muted.Render("No recitation on this page")
	} else {
		left += st.Title.Render("Verse "+s.VerseKey) +
			st.Muted.Render(fmt.Sprintf("  %d/%d", s.Index+1, s.Total))
		if s.Reciter != "" {
			left += st.Subtle.Render(" · " + s.Reciter)
		}
	}

	right := RenderVolume(s.Volume, s.Muted)
	if s.Autoplay {
		right += " " + st.Marker.Render(icons.Autoplay())
	}

	timeStr := formatDuration(s.Position) + " / " + formatDuration(s.Duration)
	fixed := lipgloss.Width(timeStr) + lipgloss.Width(right) + 4

	// Give the bar what the labels leave, shortening the labels if the
	// bar would drop below its minimum.
	left = render.Truncate(left, max(inner-fixed-ui.MinProgressBarWidth, 0))
	barWidth := max(inner-fixed-lipgloss.Width(left), 0)

	line := left + "  " + RenderProgress(s.Position, s.Duration, barWidth) + "  " +
		st.Muted.Render(timeStr) + "  " + right
	line = render.Truncate(line, inner)

	return barStyle().Padding(0, 1).Width(inner + 2).Render(line)
}

// RenderProgress renders a progress bar of the given width.
func RenderProgress(position, duration time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	var ratio float64
	if duration > 0 {
		ratio = float64(position) / float64(duration)
	}
	filled := max(0, min(int(float64(width)*ratio), width))
	st := styles.T()
	return lipgloss.NewStyle().Foreground(st.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(st.FgSubtle).Render(strings.Repeat("─", width-filled))
}

// RenderVolume renders the volume indicator.
// Format: "🔊 100%", or the mute icon when muted.
func RenderVolume(volume float64, muted bool) string {
	pct := int(volume*100 + 0.5)
	return styles.T().S().Muted.Render(fmt.Sprintf("%s %3d%%", icons.Volume(muted), pct))
}

func barStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().Border)
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
