// internal/ui/headerbar/headerbar.go
package headerbar

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/llehouerou/tilawa/internal/quran"
	"github.com/llehouerou/tilawa/internal/ui/layout"
	"github.com/llehouerou/tilawa/internal/ui/render"
	"github.com/llehouerou/tilawa/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

// Title is the application name shown on the left.
const Title = "تلاوة tilawa"

// Segments describes the page: its number, juz and chapters.
func Segments(p *quran.Page) []string {
	if p == nil {
		return nil
	}
	chapters := lo.Map(p.Chapters(), func(c int, _ int) string { return fmt.Sprint(c) })
	label := "Surah"
	if len(chapters) > 1 {
		label = "Surahs"
	}
	return []string{
		fmt.Sprintf("Page %d", p.Number),
		fmt.Sprintf("Juz %d", p.Juz()),
		label + " " + strings.Join(chapters, ", "),
	}
}

// Render returns the header bar for the given width. Narrow terminals
// get the page description only.
func Render(p *quran.Page, width int) string {
	if width <= 0 {
		return ""
	}
	t := styles.T()
	s := t.S()

	segs := Segments(p)
	if len(segs) == 0 {
		segs = []string{"Loading…"}
	}
	parts := make([]string, len(segs))
	for i, seg := range segs {
		if i == 0 {
			parts[i] = s.Title.Render(seg)
		} else {
			parts[i] = s.Muted.Render(seg)
		}
	}
	info := strings.Join(parts, s.Subtle.Render(" │ "))

	if layout.IsNarrowMode(width) {
		return render.Truncate(info, width)
	}
	title := styles.ApplyGradient(Title, t.Primary, t.Secondary)
	return render.Truncate(render.Row(title, info, width), width)
}
