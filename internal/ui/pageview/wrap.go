package pageview

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// token is an unbreakable run of text belonging to one verse.
type token struct {
	text  string
	verse int
	width int
}

func newToken(text string, verse int) token {
	return token{text: text, verse: verse, width: runewidth.StringWidth(text)}
}

// segment splits text at its line break opportunities.
func segment(text string, verse int) []token {
	var tokens []token
	state := -1
	rest := text
	for rest != "" {
		var seg string
		seg, rest, _, state = uniseg.FirstLineSegmentInString(rest, state)
		seg = strings.TrimRight(seg, " ")
		if seg == "" {
			continue
		}
		tokens = append(tokens, newToken(seg, verse))
	}
	return tokens
}

// wrap fills lines of at most width cells, one space between tokens.
// A token wider than width gets a line of its own.
func wrap(tokens []token, width int) [][]token {
	var lines [][]token
	var line []token
	used := 0
	for _, t := range tokens {
		need := t.width
		if len(line) > 0 {
			need++
		}
		if len(line) > 0 && used+need > width {
			lines = append(lines, line)
			line, used, need = nil, 0, t.width
		}
		line = append(line, t)
		used += need
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

func lineWidth(line []token) int {
	w := max(len(line)-1, 0)
	for _, t := range line {
		w += t.width
	}
	return w
}

var arabicDigits = [10]rune{'٠', '١', '٢', '٣', '٤', '٥', '٦', '٧', '٨', '٩'}

// verseMarker renders an end-of-verse marker with Arabic-Indic digits.
func verseMarker(n int) string {
	var digits []rune
	if n <= 0 {
		digits = []rune{arabicDigits[0]}
	}
	for ; n > 0; n /= 10 {
		digits = append([]rune{arabicDigits[n%10]}, digits...)
	}
	return "﴿" + string(digits) + "﴾"
}
