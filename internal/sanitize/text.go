// Package sanitize cleans untrusted text before it is ranked or drawn:
// stdin lines, desktop-file strings and clipboard previews.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ansiRE matches ANSI escape sequences:
//   - CSI sequences: ESC [ ... final_byte  (covers SGR like \x1b[31m)
//   - OSC sequences: ESC ] ... (ST | BEL)
//   - Charset designation: ESC ( B, ESC ) 0
//   - Other two-byte escapes: ESC followed by one of [#()*+\-./] and a byte
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;?]*[ -/]*[@-~]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`|` +
	`[#()*+\-./][A-Za-z0-9]` +
	`)`)

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return ansiRE.ReplaceAllString(s, "")
}

// ValidateUTF8 replaces invalid byte sequences with U+FFFD.
func ValidateUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// Line prepares one input line for ranking: escapes are stripped, invalid
// UTF-8 is replaced, and control characters other than tab are dropped.
// Tabs survive because they commonly delimit columns.
func Line(s string) string {
	s = ValidateUTF8(StripANSI(s))
	if !hasControl(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// Label flattens s for single-row display: every whitespace run, including
// newlines and tabs, becomes one space.
func Label(s string) string {
	return Line(strings.Join(strings.Fields(StripANSI(s)), " "))
}

func hasControl(s string) bool {
	for _, r := range s {
		if r != '\t' && unicode.IsControl(r) {
			return true
		}
	}
	return false
}
