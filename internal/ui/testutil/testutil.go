// Package testutil provides helpers for inspecting rendered views in tests.
package testutil

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes escape sequences so rendered output can be compared
// as plain text.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// MeasureWidth returns the visual width of a rendered string.
func MeasureWidth(s string) int {
	return lipgloss.Width(StripANSI(s))
}

// SplitLines returns the plain lines of output without trailing blank lines.
func SplitLines(output string) []string {
	lines := strings.Split(StripANSI(output), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// FindLine returns the first plain line containing substr, or "".
func FindLine(output, substr string) string {
	for _, line := range SplitLines(output) {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// ContainsLine reports whether a line of output contains substr.
func ContainsLine(output, substr string) bool {
	return FindLine(output, substr) != ""
}

// CountLines returns the number of non-blank lines in output.
func CountLines(output string) int {
	count := 0
	for _, line := range SplitLines(output) {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
