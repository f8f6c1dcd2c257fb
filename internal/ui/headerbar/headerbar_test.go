package headerbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/tilawa/internal/quran"
)

func testPage() *quran.Page {
	return &quran.Page{Number: 50, Verses: []quran.Verse{
		{ChapterID: 2, JuzNumber: 3},
		{ChapterID: 3, JuzNumber: 3},
	}}
}

func TestSegments(t *testing.T) {
	assert.Nil(t, Segments(nil))

	p := testPage()
	assert.Equal(t, []string{"Page 50", "Juz 3", "Surahs 2, 3"}, Segments(p))

	p.Verses = p.Verses[:1]
	assert.Equal(t, []string{"Page 50", "Juz 3", "Surah 2"}, Segments(p))
}

func TestRender_Wide(t *testing.T) {
	got := ansi.Strip(Render(testPage(), 80))

	assert.True(t, strings.HasPrefix(got, Title))
	assert.True(t, strings.HasSuffix(got, "Page 50 │ Juz 3 │ Surahs 2, 3"))
	assert.Equal(t, 80, ansi.StringWidth(Render(testPage(), 80)))
}

func TestRender_Narrow(t *testing.T) {
	got := ansi.Strip(Render(testPage(), 40))

	assert.Equal(t, "Page 50 │ Juz 3 │ Surahs 2, 3", got)
}

func TestRender_TruncatesToWidth(t *testing.T) {
	assert.LessOrEqual(t, ansi.StringWidth(Render(testPage(), 12)), 12)
	assert.Empty(t, Render(testPage(), 0))
}

func TestRender_Loading(t *testing.T) {
	assert.Contains(t, ansi.Strip(Render(nil, 80)), "Loading…")
}
