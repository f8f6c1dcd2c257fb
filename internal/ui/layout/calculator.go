// Package layout provides pure functions for UI dimension calculations.
package layout

// NarrowThreshold is the terminal width below which the header drops the
// title and keeps only the page description.
const NarrowThreshold = 60

// ContentOpts contains the heights of the rows around the reading panel.
type ContentOpts struct {
	HeaderHeight    int
	StatusHeight    int
	PlayerBarHeight int
	HelpHeight      int // 1 for the short help, more when expanded
}

// ContentHeight calculates the height left for the reading panel. It is
// never negative.
func ContentHeight(windowHeight int, opts ContentOpts) int {
	height := windowHeight
	height -= opts.HeaderHeight
	height -= opts.StatusHeight
	height -= opts.PlayerBarHeight
	height -= opts.HelpHeight
	return max(height, 0)
}

// IsNarrowMode returns true if the terminal width is below the narrow threshold.
func IsNarrowMode(width int) bool {
	return width < NarrowThreshold
}

// PlayerBarRow calculates the 1-based row number where the player bar
// starts, counted from the top of the window.
func PlayerBarRow(windowHeight int, opts ContentOpts) int {
	row := windowHeight
	row -= opts.HelpHeight
	row -= opts.PlayerBarHeight
	return max(row, 0) + 1
}
