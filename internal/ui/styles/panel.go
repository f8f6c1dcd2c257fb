package styles

import "github.com/charmbracelet/lipgloss"

// PanelStyle returns the bordered style of the reading panel. The border
// takes the accent color while a recitation is active.
func PanelStyle(active bool) lipgloss.Style {
	t := T()
	border := t.Border
	if active {
		border = t.Primary
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
