package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Accent is the base color the palette is derived from.
const Accent = "#8b7355"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Brand/accent colors
	Primary   lipgloss.Color // Current verse, active states
	Secondary lipgloss.Color // Verse markers

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	// Backgrounds
	BgBase      lipgloss.Color
	BgHighlight lipgloss.Color // Behind the verse being recited

	Border lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles for common UI patterns.
type Styles struct {
	Base      lipgloss.Style
	Muted     lipgloss.Style
	Subtle    lipgloss.Style
	Title     lipgloss.Style
	Reciting  lipgloss.Style // Verse being recited
	Marker    lipgloss.Style // Verse number markers
	Highlight lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
}

var defaultTheme = NewTheme(Accent)

// NewTheme derives a palette from an accent color given as "#rrggbb".
// An invalid accent falls back to Accent.
func NewTheme(accent string) Theme {
	base, err := colorful.Hex(accent)
	if err != nil {
		base, _ = colorful.Hex(Accent)
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	black := colorful.Color{R: 0, G: 0, B: 0}

	h, c, l := base.Hcl()
	complement := colorful.Hcl(h+180, c, l).Clamped()

	return Theme{
		Primary:   hex(base.BlendLab(white, 0.35)),
		Secondary: hex(complement.BlendLab(white, 0.2)),

		FgBase:   lipgloss.Color("#d8d0c4"),
		FgMuted:  lipgloss.Color("#8a847a"),
		FgSubtle: lipgloss.Color("#5a5650"),

		BgBase:      lipgloss.Color("#1a1816"),
		BgHighlight: hex(base.BlendLab(black, 0.6)),

		Border: hex(base.BlendLab(black, 0.3)),

		Success: lipgloss.Color("#42b883"),
		Error:   lipgloss.Color("#ff5555"),
		Warning: lipgloss.Color("#f1a208"),
	}
}

func hex(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Clamped().Hex())
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Reciting: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.BgHighlight).
			Bold(true),
		Marker:    lipgloss.NewStyle().Foreground(t.Secondary),
		Highlight: lipgloss.NewStyle().Background(t.BgHighlight),
		Success:   lipgloss.NewStyle().Foreground(t.Success),
		Error:     lipgloss.NewStyle().Foreground(t.Error),
		Warning:   lipgloss.NewStyle().Foreground(t.Warning),
	}
}
