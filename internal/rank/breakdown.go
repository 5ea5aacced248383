package rank

import (
	"log/slog"

	"github.com/runger/flick/internal/item"
)

// Breakdown records how a score was assembled. It is a debug side channel;
// ranking only ever uses Total.
type Breakdown struct {
	Tier         string
	Base         int64
	Field        string
	Fuzzy        int
	FuzzyTerm    int64
	FrecencyTerm int64
	Total        int64
	Matched      bool
}

// LogValue implements slog.LogValuer.
func (b Breakdown) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("tier", b.Tier),
		slog.Int64("base", b.Base),
		slog.String("field", b.Field),
		slog.Int("fuzzy", b.Fuzzy),
		slog.Int64("fuzzy_term", b.FuzzyTerm),
		slog.Int64("frecency_term", b.FrecencyTerm),
		slog.Int64("total", b.Total),
	)
}

// Less orders items by descending score. Ties fall back to the
// case-insensitive name for applications and to input order for lines and
// clipboard records; the ordinal makes the order total either way.
func Less(a, b *item.Item) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.TieBreakByName() && b.TieBreakByName() {
		ka, kb := a.SortKey(), b.SortKey()
		if ka != kb {
			return ka < kb
		}
	}
	return a.Ordinal < b.Ordinal
}

// Compare is Less in the three-way form slices.SortFunc expects.
func Compare(a, b *item.Item) int {
	switch {
	case Less(a, b):
		return -1
	case Less(b, a):
		return 1
	default:
		return 0
	}
}
