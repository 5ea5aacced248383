// Package rank computes a single comparable score per (item, query) pair.
//
// The score encodes a discrete tier plus fine-grained refinement, so sorting
// by score alone yields the ranking; Less only breaks exact ties.
package rank

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/match"
)

// Mode selects the scoring cascade.
type Mode int

const (
	ModeFuzzy Mode = iota
	ModeExact
)

func (m Mode) String() string {
	if m == ModeExact {
		return "exact"
	}
	return "fuzzy"
}

// ParseMode maps a config value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "fuzzy":
		return ModeFuzzy, nil
	case "exact":
		return ModeExact, nil
	default:
		return ModeFuzzy, fmt.Errorf("unknown ranking mode %q (must be fuzzy or exact)", s)
	}
}

// DefaultPrefixDepth limits word-start checks to short queries.
const DefaultPrefixDepth = 3

// Query is a lower-cased query with its runes cached.
type Query struct {
	Raw   string
	lower string
	runes []rune
}

// NewQuery prepares s for scoring.
func NewQuery(s string) Query {
	lower := strings.ToLower(s)
	return Query{Raw: s, lower: lower, runes: []rune(lower)}
}

// Empty reports whether the query has no characters.
func (q Query) Empty() bool { return q.lower == "" }

// Len returns the query length in runes.
func (q Query) Len() int { return len(q.runes) }

// Scorer is a pure function of (item, query, usage snapshot). It holds a
// matcher that may carry scratch buffers, so it is owned by one goroutine.
type Scorer struct {
	Mode        Mode
	Matcher     match.Matcher
	PrefixDepth int
}

// NewScorer returns a scorer with defaults filled in.
func NewScorer(mode Mode, m match.Matcher, prefixDepth int) *Scorer {
	if m == nil {
		m = match.NewFZF()
	}
	if prefixDepth <= 0 {
		prefixDepth = DefaultPrefixDepth
	}
	return &Scorer{Mode: mode, Matcher: m, PrefixDepth: prefixDepth}
}

// Score returns the item's total score and whether it matches at all.
func (s *Scorer) Score(it *item.Item, q Query) (int64, bool) {
	b := s.evaluate(it, q)
	return b.Total, b.Matched
}

// Explain returns the full breakdown behind Score.
func (s *Scorer) Explain(it *item.Item, q Query) Breakdown {
	return s.evaluate(it, q)
}

func (s *Scorer) evaluate(it *item.Item, q Query) Breakdown {
	if q.Empty() {
		return emptyQuery(it)
	}
	if s.Mode == ModeExact {
		return s.exact(it, q)
	}
	return s.fuzzy(it, q)
}

// emptyQuery orders by pin, then usage; names or ordinals break the rest.
func emptyQuery(it *item.Item) Breakdown {
	b := Breakdown{Tier: "empty-query", Matched: true}
	if it.Pinned {
		b.Base = TierGap
	}
	b.FrecencyTerm = int64(math.Round(clampFrecency(it.Frecency) * emptyFrecencyScale))
	b.Total = b.Base + b.FrecencyTerm
	return b
}

// candidate is the field a structural check matched on.
type candidate struct {
	text   string
	weight int
	label  string
}

func (s *Scorer) fuzzy(it *item.Item, q Query) Breakdown {
	primary := candidate{text: it.SortKey(), weight: 100, label: "primary"}

	tier, field := s.structural(it, primary, q)
	var fz int
	if tier != TierNone {
		fz = s.weighted(field, q)
	} else {
		best, ok := s.bestFuzzy(it, primary, q)
		if !ok {
			return Breakdown{Tier: TierNone.String()}
		}
		tier, field, fz = TierFuzzy, best.cand, best.score
	}
	if it.Pinned {
		tier = tier.pinned()
	}

	b := Breakdown{
		Tier:    tier.String(),
		Base:    tier.Base(),
		Field:   field.label,
		Fuzzy:   fz,
		Matched: true,
	}
	b.FuzzyTerm = int64(min(fz, MaxFuzzy)) * fuzzyMultiplier
	b.FrecencyTerm = int64(math.Round(clampFrecency(it.Frecency) * frecencyScale))
	b.Total = b.Base + b.FuzzyTerm + b.FrecencyTerm
	return b
}

// structural runs the exact/prefix/word-start cascade, primary before
// secondary at each level. Returned tiers are the unpinned ones.
func (s *Scorer) structural(it *item.Item, primary candidate, q Query) (Tier, candidate) {
	if primary.text == q.lower {
		return TierPrimaryExact, primary
	}
	if c, ok := firstSecondary(it, func(text string) bool { return text == q.lower }); ok {
		return TierSecondaryExact, c
	}
	if strings.HasPrefix(primary.text, q.lower) {
		return TierPrimaryPrefix, primary
	}
	if c, ok := firstSecondary(it, func(text string) bool { return strings.HasPrefix(text, q.lower) }); ok {
		return TierSecondaryPrefix, c
	}
	if q.Len() > s.PrefixDepth {
		return TierNone, candidate{}
	}
	if wordStart(primary.text, q.lower) {
		return TierPrimaryWord, primary
	}
	if c, ok := firstSecondary(it, func(text string) bool { return wordStart(text, q.lower) }); ok {
		return TierSecondaryWord, c
	}
	return TierNone, candidate{}
}

func firstSecondary(it *item.Item, pred func(string) bool) (candidate, bool) {
	for i := range it.Secondary {
		f := &it.Secondary[i]
		if pred(f.Lower()) {
			return candidate{text: f.Lower(), weight: f.Weight, label: fmt.Sprintf("secondary[%d]", i)}, true
		}
	}
	return candidate{}, false
}

type scoredCandidate struct {
	cand  candidate
	score int
}

// bestFuzzy returns the highest weighted fuzzy score across all fields.
// Earlier fields win ties.
func (s *Scorer) bestFuzzy(it *item.Item, primary candidate, q Query) (scoredCandidate, bool) {
	var best scoredCandidate
	found := false
	if raw, ok := s.Matcher.Score(primary.text, q.runes); ok {
		best = scoredCandidate{cand: primary, score: raw}
		found = true
	}
	for i := range it.Secondary {
		f := &it.Secondary[i]
		raw, ok := s.Matcher.Score(f.Lower(), q.runes)
		if !ok {
			continue
		}
		sc := raw * f.Weight / 100
		if !found || sc > best.score {
			best = scoredCandidate{
				cand:  candidate{text: f.Lower(), weight: f.Weight, label: fmt.Sprintf("secondary[%d]", i)},
				score: sc,
			}
			found = true
		}
	}
	return best, found
}

func (s *Scorer) weighted(c candidate, q Query) int {
	raw, ok := s.Matcher.Score(c.text, q.runes)
	if !ok {
		return 0
	}
	return raw * c.weight / 100
}

func (s *Scorer) exact(it *item.Item, q Query) Breakdown {
	primary := it.SortKey()
	tier, field, label := exactNone, "", ""
	switch {
	case primary == q.lower:
		tier, field, label = exactPrimaryEqual, primary, "primary"
	case strings.HasPrefix(primary, q.lower):
		tier, field, label = exactPrimaryPrefix, primary, "primary"
	case strings.Contains(primary, q.lower):
		tier, field, label = exactPrimarySubstring, primary, "primary"
	default:
		checks := []struct {
			tier exactTier
			pred func(string) bool
		}{
			{exactSecondaryEqual, func(t string) bool { return t == q.lower }},
			{exactSecondaryPrefix, func(t string) bool { return strings.HasPrefix(t, q.lower) }},
			{exactSecondarySubstring, func(t string) bool { return strings.Contains(t, q.lower) }},
		}
		for _, c := range checks {
			if cand, ok := firstSecondary(it, c.pred); ok {
				tier, field, label = c.tier, cand.text, cand.label
				break
			}
		}
	}
	if tier == exactNone {
		return Breakdown{Tier: exactTierNames[exactNone]}
	}

	extra := utf8.RuneCountInString(field) - q.Len()
	closeness := 999 - min(999, max(extra, 0))

	b := Breakdown{
		Tier:    exactTierNames[tier],
		Base:    tier.base(),
		Field:   label,
		Matched: true,
	}
	if it.Pinned {
		b.Base += exactPinBoost
		b.Tier = "pinned-" + b.Tier
	}
	b.FuzzyTerm = int64(closeness) * fuzzyMultiplier
	b.FrecencyTerm = int64(math.Round(clampFrecency(it.Frecency) * frecencyScale))
	b.Total = b.Base + b.FuzzyTerm + b.FrecencyTerm
	return b
}

// wordStart reports whether q begins s or begins any whitespace-delimited
// word inside it.
func wordStart(s, q string) bool {
	if strings.HasPrefix(s, q) {
		return true
	}
	prevSpace := false
	for i, r := range s {
		if prevSpace && !unicode.IsSpace(r) && strings.HasPrefix(s[i:], q) {
			return true
		}
		prevSpace = unicode.IsSpace(r)
	}
	return false
}

// clampFrecency keeps the usage signal inside [0, 1) so its contribution
// can never cross a tier boundary.
func clampFrecency(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f >= 1 {
		return math.Nextafter(1, 0)
	}
	return f
}
