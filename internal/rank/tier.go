package rank

import "fmt"

// TierGap separates adjacent tiers. Every in-tier refinement stays below it.
const TierGap int64 = 1_000_000

// Refinement limits. The fuzzy sub-score is capped so that
// MaxFuzzy*fuzzyMultiplier + frecencyScale < TierGap.
const (
	MaxFuzzy        = 9_999
	fuzzyMultiplier = 100
	frecencyScale   = 10

	// emptyFrecencyScale orders items by usage when there is no query.
	emptyFrecencyScale = 100_000
)

// Tier is a discrete score bracket in fuzzy mode. Lower values rank higher.
type Tier int

const (
	TierNone Tier = iota
	TierPinnedPrimaryExact
	TierPinnedSecondaryExact
	TierPinnedPrimaryPrefix
	TierPinnedSecondaryPrefix
	TierPinnedPrimaryWord
	TierPinnedSecondaryWord
	TierPrimaryExact
	TierSecondaryExact
	TierPrimaryPrefix
	TierSecondaryPrefix
	TierPrimaryWord
	TierSecondaryWord
	TierPinnedFuzzy
	TierFuzzy
)

// pinnedOffset is the distance between a structural tier and its pinned twin.
const pinnedOffset = TierPrimaryExact - TierPinnedPrimaryExact

var tierNames = map[Tier]string{
	TierNone:                  "none",
	TierPinnedPrimaryExact:    "pinned-primary-exact",
	TierPinnedSecondaryExact:  "pinned-secondary-exact",
	TierPinnedPrimaryPrefix:   "pinned-primary-prefix",
	TierPinnedSecondaryPrefix: "pinned-secondary-prefix",
	TierPinnedPrimaryWord:     "pinned-primary-word",
	TierPinnedSecondaryWord:   "pinned-secondary-word",
	TierPrimaryExact:          "primary-exact",
	TierSecondaryExact:        "secondary-exact",
	TierPrimaryPrefix:         "primary-prefix",
	TierSecondaryPrefix:       "secondary-prefix",
	TierPrimaryWord:           "primary-word",
	TierSecondaryWord:         "secondary-word",
	TierPinnedFuzzy:           "pinned-fuzzy",
	TierFuzzy:                 "fuzzy",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Base returns the score floor of the tier.
func (t Tier) Base() int64 {
	if t <= TierNone || t > TierFuzzy {
		return 0
	}
	return int64(TierFuzzy-t+1) * TierGap
}

// pinned maps an unpinned tier to its pinned counterpart.
func (t Tier) pinned() Tier {
	switch {
	case t >= TierPrimaryExact && t <= TierSecondaryWord:
		return t - pinnedOffset
	case t == TierFuzzy:
		return TierPinnedFuzzy
	default:
		return t
	}
}

// Exact mode tiers, highest first.
type exactTier int

const (
	exactNone exactTier = iota
	exactSecondarySubstring
	exactSecondaryPrefix
	exactSecondaryEqual
	exactPrimarySubstring
	exactPrimaryPrefix
	exactPrimaryEqual
)

var exactTierNames = map[exactTier]string{
	exactNone:               "none",
	exactSecondarySubstring: "exact-secondary-substring",
	exactSecondaryPrefix:    "exact-secondary-prefix",
	exactSecondaryEqual:     "exact-secondary-equal",
	exactPrimarySubstring:   "exact-primary-substring",
	exactPrimaryPrefix:      "exact-primary-prefix",
	exactPrimaryEqual:       "exact-primary-equal",
}

func (t exactTier) base() int64 { return int64(t) * TierGap }

// exactPinBoost lifts every pinned item above every unpinned one.
const exactPinBoost = 10 * TierGap
