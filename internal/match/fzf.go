package match

import (
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Slab sizes matching fzf's own defaults.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

var initAlgo sync.Once

// FZF runs fzf's FuzzyMatchV2 over pre-lowered text. It reuses one slab
// across calls, so a single FZF must not be shared between goroutines.
type FZF struct {
	slab *util.Slab
}

// NewFZF creates a matcher with its own slab.
func NewFZF() *FZF {
	initAlgo.Do(func() { algo.Init("default") })
	return &FZF{slab: util.MakeSlab(slab16Size, slab32Size)}
}

// Score implements Matcher.
func (m *FZF) Score(haystack string, needle []rune) (int, bool) {
	if len(needle) == 0 || haystack == "" {
		return 0, false
	}
	chars := util.ToChars([]byte(haystack))
	// caseSensitive=true because both sides are already lowered; fzf's
	// case folding in its ASCII fast path is only partial.
	result, _ := algo.FuzzyMatchV2(true, false, true, &chars, needle, false, m.slab)
	if result.Start < 0 {
		return 0, false
	}
	if result.Score < 0 {
		return 0, true
	}
	return result.Score, true
}
