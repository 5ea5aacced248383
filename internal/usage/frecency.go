package usage

import (
	"math"
	"time"
)

// DefaultTau is the decay time constant for the usage signal.
const DefaultTau = 7 * 24 * time.Hour

// MinTau guards against a decay so fast that history is meaningless.
const MinTau = time.Hour

// Bump applies one use at nowMs to e.
// The decay formula is: decayed = decayed * exp(-(now - last) / tau) + 1.
func Bump(e Entry, nowMs int64, tau time.Duration) Entry {
	e.Count++
	if e.LastUsedMs == 0 || e.Decayed <= 0 {
		e.Decayed = 1
	} else {
		e.Decayed = e.Decayed*decayFactor(nowMs-e.LastUsedMs, tau) + 1
	}
	if nowMs > e.LastUsedMs {
		e.LastUsedMs = nowMs
	}
	return e
}

// Decayed returns the entry's decayed score as of nowMs. Entries recorded
// without timestamps (imported counts) decay from the raw count.
func Decayed(e Entry, nowMs int64, tau time.Duration) float64 {
	if e.LastUsedMs == 0 {
		return float64(e.Count)
	}
	return e.Decayed * decayFactor(nowMs-e.LastUsedMs, tau)
}

// Normalize maps a decayed score into [0, 1).
func Normalize(decayed float64) float64 {
	if decayed <= 0 || math.IsNaN(decayed) {
		return 0
	}
	if math.IsInf(decayed, 1) {
		return math.Nextafter(1, 0)
	}
	// Large scores round to exactly 1 in float64.
	return min(decayed/(decayed+1), math.Nextafter(1, 0))
}

func decayFactor(elapsedMs int64, tau time.Duration) float64 {
	if elapsedMs <= 0 {
		return 1
	}
	if tau < MinTau {
		tau = MinTau
	}
	return math.Exp(-float64(elapsedMs) / float64(tau.Milliseconds()))
}
