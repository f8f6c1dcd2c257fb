// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Playback actions
	ActionPlayPause    Action = "play_pause"
	ActionNextVerse    Action = "next_verse"
	ActionPrevVerse    Action = "prev_verse"
	ActionSeekForward  Action = "seek_forward"
	ActionSeekBackward Action = "seek_backward"
	ActionVolumeUp     Action = "volume_up"
	ActionVolumeDown   Action = "volume_down"
	ActionToggleMute   Action = "toggle_mute"
	ActionAutoplay     Action = "toggle_autoplay"

	// Reading actions
	ActionNextPage   Action = "next_page"
	ActionPrevPage   Action = "prev_page"
	ActionScrollUp   Action = "scroll_up"
	ActionScrollDown Action = "scroll_down"
)
