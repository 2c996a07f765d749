package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		// Even suffix is too wide, truncate suffix
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	targetWidth := maxWidth - suffixWidth
	return runewidth.Truncate(s, targetWidth, "") + suffix
}

// padRight pads s with spaces on the right to the given cell width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// containsMatch returns the byte offsets of the first case-insensitive
// occurrence of needle in s, or nil when there is none. It mirrors the
// engine's containment test so highlighted text is what matched.
func containsMatch(s, needle string) []int {
	if needle == "" {
		return nil
	}
	lower := strings.ToLower(s)
	i := strings.Index(lower, strings.ToLower(needle))
	if i < 0 || len(lower) != len(s) {
		// Lowercasing changed byte lengths; offsets would not line up.
		return nil
	}
	idx := make([]int, 0, len(needle))
	for j := i; j < i+len(needle); j++ {
		idx = append(idx, j)
	}
	return idx
}

// highlight renders s with the bytes at the given offsets styled by match
// and the rest by base. Offsets past the end of s are ignored, so a
// truncated name keeps the highlights that survived.
func highlight(s string, offsets []int, base, match lipgloss.Style) string {
	if len(offsets) == 0 {
		return base.Render(s)
	}
	marked := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		marked[o] = true
	}

	var sb strings.Builder
	var run strings.Builder
	runMatched := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runMatched {
			sb.WriteString(match.Render(run.String()))
		} else {
			sb.WriteString(base.Render(run.String()))
		}
		run.Reset()
	}
	for i, r := range s {
		m := marked[i]
		if m != runMatched {
			flush()
			runMatched = m
		}
		run.WriteRune(r)
	}
	flush()
	return sb.String()
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
