package picker

import "github.com/mattn/go-runewidth"

const ellipsis = "…"

// MiddleTruncate shortens s to maxWidth display columns by cutting out its
// middle. Below 3 columns it hard-truncates from the right. Wide runes
// (CJK, emoji) count as two columns.
func MiddleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return truncateLeft(s, maxWidth)
	}
	remaining := maxWidth - 1
	return truncateLeft(s, (remaining+1)/2) + ellipsis + truncateRight(s, remaining/2)
}

// EndTruncate shortens s to maxWidth columns, ending in an ellipsis.
func EndTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 2 {
		return truncateLeft(s, maxWidth)
	}
	return truncateLeft(s, maxWidth-1) + ellipsis
}

// truncateLeft returns the longest prefix of s at most maxWidth wide.
func truncateLeft(s string, maxWidth int) string {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > maxWidth {
			return s[:i]
		}
		w += rw
	}
	return s
}

// truncateRight returns the longest suffix of s at most maxWidth wide.
func truncateRight(s string, maxWidth int) string {
	runes := []rune(s)
	w := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > maxWidth {
			break
		}
		w += rw
		start = i
	}
	return string(runes[start:])
}
