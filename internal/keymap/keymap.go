package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/samber/lo"
)

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", or "reading"
}

// Help label overrides for keys whose name reads poorly.
var keyLabels = map[string]string{
	" ":     "space",
	"left":  "←",
	"right": "→",
	"up":    "↑",
	"down":  "↓",
}

// All contains all key bindings.
var All = []Binding{
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionNextVerse, []string{"n"}, "Next verse", "playback"},
	{ActionPrevVerse, []string{"p"}, "Previous verse", "playback"},
	{ActionSeekBackward, []string{"["}, "Seek -5s", "playback"},
	{ActionSeekForward, []string{"]"}, "Seek +5s", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionToggleMute, []string{"m"}, "Mute", "playback"},
	{ActionAutoplay, []string{"a"}, "Toggle autoplay", "playback"},

	{ActionPrevPage, []string{"left", "h"}, "Previous page", "reading"},
	{ActionNextPage, []string{"right", "l"}, "Next page", "reading"},
	{ActionScrollUp, []string{"up", "k"}, "Scroll up", "reading"},
	{ActionScrollDown, []string{"down", "j"}, "Scroll down", "reading"},
}

// Contexts in help display order.
var Contexts = []string{"playback", "reading", "global"}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	return lo.Filter(All, func(b Binding, _ int) bool { return b.Context == context })
}

// Key converts a binding to a bubbles key binding for help rendering.
func (b Binding) Key() key.Binding {
	labels := lo.Map(b.Keys, func(k string, _ int) string {
		if l, ok := keyLabels[k]; ok {
			return l
		}
		return k
	})
	label := labels[0]
	if len(labels) > 1 && b.Context == "reading" {
		label = labels[0] + "/" + labels[1]
	}
	return key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(label, b.Description))
}

// Help implements help.KeyMap over All.
type Help struct{}

// short lists the actions shown in the one-line help.
var short = []Action{ActionPlayPause, ActionNextVerse, ActionPrevVerse, ActionNextPage, ActionHelp, ActionQuit}

func (Help) ShortHelp() []key.Binding {
	return lo.FilterMap(All, func(b Binding, _ int) (key.Binding, bool) {
		return b.Key(), lo.Contains(short, b.Action)
	})
}

func (Help) FullHelp() [][]key.Binding {
	return lo.Map(Contexts, func(ctx string, _ int) []key.Binding {
		return lo.Map(ByContext(ctx), func(b Binding, _ int) key.Binding { return b.Key() })
	})
}
