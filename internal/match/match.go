// Package match provides the fuzzy subsequence matchers used by the scorer.
//
// Both inputs are expected to be lower-cased by the caller. A matcher is
// total: it never panics and reports "no match" through its boolean result.
// Scores are deterministic and non-negative, and an exact substring scores
// at least as high as a scattered subsequence of the same needle.
package match

import "fmt"

// Matcher scores how well needle matches haystack as a subsequence.
type Matcher interface {
	Score(haystack string, needle []rune) (int, bool)
}

// Matcher names accepted by New.
const (
	NameFZF    = "fzf"
	NameSahilm = "sahilm"
)

// New returns the matcher registered under name. An empty name selects fzf.
func New(name string) (Matcher, error) {
	switch name {
	case "", NameFZF:
		return NewFZF(), nil
	case NameSahilm:
		return Sahilm{}, nil
	default:
		return nil, fmt.Errorf("unknown matcher %q (must be %s or %s)", name, NameFZF, NameSahilm)
	}
}

// IsValidName reports whether name selects a known matcher.
func IsValidName(name string) bool {
	switch name {
	case "", NameFZF, NameSahilm:
		return true
	default:
		return false
	}
}
