package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tilawa/internal/keymap"
	"github.com/llehouerou/tilawa/internal/ui/headerbar"
	"github.com/llehouerou/tilawa/internal/ui/layout"
	"github.com/llehouerou/tilawa/internal/ui/playerbar"
	"github.com/llehouerou/tilawa/internal/ui/render"
	"github.com/llehouerou/tilawa/internal/ui/styles"
)

const statusHeight = 1

// resize lays out the page view in what the fixed rows leave.
func (m *Model) resize() {
	m.help.Width = m.width
	m.help.ShowAll = m.showHelp
	h := layout.ContentHeight(m.height, layout.ContentOpts{
		HeaderHeight:    headerbar.Height,
		StatusHeight:    statusHeight,
		PlayerBarHeight: playerbar.Height,
		HelpHeight:      m.helpHeight(),
	})
	m.view.SetSize(m.width, h)
}

func (m *Model) helpHeight() int {
	return lipgloss.Height(m.help.View(keymap.Help{}))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	s := styles.T().S()

	var status string
	if m.status != "" {
		st := s.Subtle
		if m.statusErr {
			st = s.Error
		}
		status = st.Render(render.Truncate(m.status, m.width))
	}

	bar := playerbar.Render(playerbar.NewState(m.session.Snapshot(), m.reciterName), m.width)

	return strings.Join([]string{
		headerbar.Render(m.pager.Current(), m.width),
		m.view.View(),
		status,
		bar,
		m.help.View(keymap.Help{}),
	}, "\n")
}
