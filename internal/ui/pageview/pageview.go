// Package pageview renders the verses of a page with the verse being
// recited highlighted.
package pageview

import (
	"strings"

	"github.com/samber/lo"

	"github.com/llehouerou/tilawa/internal/quran"
	"github.com/llehouerou/tilawa/internal/ui"
	"github.com/llehouerou/tilawa/internal/ui/render"
	"github.com/llehouerou/tilawa/internal/ui/styles"
)

// Model is the reading view.
type Model struct {
	ui.Base
	page    *quran.Page
	current string // verse key being recited
	active  bool
	offset  int

	lines  [][]token // cached wrap for the current width
	wrapAt int
}

// New creates an empty reading view.
func New() Model {
	return Model{}
}

// SetSize sets the outer dimensions, border included.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.lines = nil
	m.follow()
}

// SetPage shows a new page scrolled to the top.
func (m *Model) SetPage(p *quran.Page) {
	m.page = p
	m.offset = 0
	m.lines = nil
	if p == nil || !lo.ContainsBy(p.Verses, func(v quran.Verse) bool { return v.VerseKey == m.current }) {
		m.current = ""
	}
	m.follow()
}

// Page returns the page on display.
func (m Model) Page() *quran.Page { return m.page }

// SetCurrent highlights the verse being recited and scrolls to it.
func (m *Model) SetCurrent(verseKey string) {
	m.current = verseKey
	m.follow()
}

func (m Model) Current() string { return m.current }

// SetActive switches the panel border to the active color.
func (m *Model) SetActive(active bool) { m.active = active }

// ScrollBy moves the view by n lines.
func (m *Model) ScrollBy(n int) {
	m.offset = max(0, min(m.offset+n, m.maxOffset()))
}

func (m Model) innerWidth() int  { return max(m.Width()-ui.BorderWidth, 1) }
func (m Model) innerHeight() int { return max(m.Height()-ui.BorderHeight, 1) }

func (m *Model) layout() [][]token {
	if m.page == nil {
		return nil
	}
	if m.lines != nil && m.wrapAt == m.innerWidth() {
		return m.lines
	}
	var tokens []token
	for i, v := range m.page.Verses {
		tokens = append(tokens, segment(render.Sanitize(v.TextUthmani), i)...)
		tokens = append(tokens, newToken(verseMarker(v.VerseNumber), i))
	}
	m.lines = wrap(tokens, m.innerWidth())
	m.wrapAt = m.innerWidth()
	return m.lines
}

func (m *Model) maxOffset() int {
	return max(len(m.layout())-m.innerHeight(), 0)
}

// follow scrolls so the first line of the current verse is visible.
func (m *Model) follow() {
	idx := m.currentIndex()
	if idx < 0 || m.Height() == 0 {
		return
	}
	lines := m.layout()
	first := lo.IndexOf(lo.Map(lines, func(l []token, _ int) bool {
		return lo.ContainsBy(l, func(t token) bool { return t.verse == idx })
	}), true)
	if first < 0 {
		return
	}
	h := m.innerHeight()
	switch {
	case first < m.offset+ui.ScrollMargin:
		m.offset = first - ui.ScrollMargin
	case first >= m.offset+h-ui.ScrollMargin:
		m.offset = first - h + ui.ScrollMargin + 1
	}
	m.offset = max(0, min(m.offset, m.maxOffset()))
}

func (m Model) currentIndex() int {
	if m.page == nil || m.current == "" {
		return -1
	}
	return lo.IndexOf(lo.Map(m.page.Verses, func(v quran.Verse, _ int) string { return v.VerseKey }), m.current)
}

// View renders the panel.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	s := styles.T().S()
	w, h := m.innerWidth(), m.innerHeight()

	var rows []string
	if m.page == nil {
		rows = append(rows, render.Center(s.Muted.Render(render.Truncate("Loading page…", w)), w))
	} else {
		lines := m.layout()
		cur := m.currentIndex()
		end := min(m.offset+h, len(lines))
		for _, line := range lines[m.offset:end] {
			rows = append(rows, m.renderLine(line, cur, w))
		}
	}
	for len(rows) < h {
		rows = append(rows, strings.Repeat(" ", w))
	}

	return styles.PanelStyle(m.active).
		Padding(0, 1).
		Width(w + 2).
		Render(strings.Join(rows, "\n"))
}

// renderLine right-aligns a line, as Arabic is read right to left.
func (m Model) renderLine(line []token, current, width int) string {
	s := styles.T().S()
	parts := make([]string, len(line))
	for i, t := range line {
		switch {
		case t.verse == current:
			parts[i] = s.Reciting.Render(t.text)
		case strings.HasPrefix(t.text, "﴿"):
			parts[i] = s.Marker.Render(t.text)
		default:
			parts[i] = s.Base.Render(t.text)
		}
	}
	pad := max(width-lineWidth(line), 0)
	return strings.Repeat(" ", pad) + strings.Join(parts, " ")
}
