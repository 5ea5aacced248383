package match

import "github.com/sahilm/fuzzy"

// Sahilm wraps github.com/sahilm/fuzzy. The library penalises unmatched
// characters and can go negative, so any match is clamped to at least 1.
type Sahilm struct{}

// Score implements Matcher.
func (Sahilm) Score(haystack string, needle []rune) (int, bool) {
	if len(needle) == 0 || haystack == "" {
		return 0, false
	}
	matches := fuzzy.Find(string(needle), []string{haystack})
	if len(matches) == 0 {
		return 0, false
	}
	score := matches[0].Score
	if score < 1 {
		score = 1
	}
	return score, true
}
