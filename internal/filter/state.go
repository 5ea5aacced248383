// Package filter maintains the shown/hidden partition of the item pool and
// the selection within the shown list.
//
// Items live once in an arena; shown and hidden hold indexes into it and
// move between each other with swap-remove, so a pass is a single linear
// scan of both partitions. A State is owned by one goroutine.
package filter

import (
	"context"
	"log/slog"
	"slices"

	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/rank"
	"github.com/runger/flick/internal/usage"
)

// debugTop is how many leading rows get a score breakdown at debug level.
const debugTop = 5

// Options configures a State.
type Options struct {
	// HardStop clamps navigation at the ends instead of wrapping.
	HardStop bool
	// Logger receives per-pass score breakdowns at debug level.
	Logger *slog.Logger
}

// State is the filter engine plus selection.
type State struct {
	scorer *rank.Scorer
	opts   Options
	logger *slog.Logger

	pool  []item.Item
	stamp []uint64
	gen   uint64

	shown  []int
	hidden []int

	query    rank.Query
	selected int // -1 when shown is empty
	scroll   int

	usage *usage.Record
}

// New creates an empty state. All items start hidden until the first pass.
func New(scorer *rank.Scorer, opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &State{
		scorer:   scorer,
		opts:     opts,
		logger:   logger,
		selected: -1,
	}
}

// Append adds items to the pool. Each gets the next ordinal and the current
// usage snapshot, then is scored against the current query. The selected
// item stays selected; only a query change resets the selection.
func (s *State) Append(items ...item.Item) {
	if len(items) == 0 {
		return
	}
	prev := s.selectedPoolIndex()
	added := false
	for _, it := range items {
		idx := len(s.pool)
		it.Ordinal = idx
		if s.usage != nil {
			s.usage.Apply(&it)
		}
		s.pool = append(s.pool, it)
		s.stamp = append(s.stamp, s.gen)

		p := &s.pool[idx]
		if score, ok := s.scorer.Score(p, s.query); ok {
			p.Score = score
			s.shown = append(s.shown, idx)
			added = true
		} else {
			p.Score = 0
			s.hidden = append(s.hidden, idx)
		}
	}
	if added {
		s.sortShown()
		s.reselect(prev)
	}
}

// ApplyUsage attaches rec to every pooled item and to items appended later.
// Scores are stale until the next pass.
func (s *State) ApplyUsage(rec *usage.Record) {
	s.usage = rec
	for i := range s.pool {
		rec.Apply(&s.pool[i])
	}
}

// SetQuery replaces the query and runs exactly one filter pass.
func (s *State) SetQuery(q string) {
	s.query = rank.NewQuery(q)
	s.pass()
	s.resetSelection()
}

// Refresh re-runs the pass for the current query, e.g. after a pin toggle.
// The previously selected item stays selected when it is still shown; only
// SetQuery resets the selection.
func (s *State) Refresh() {
	prev := s.selectedPoolIndex()
	s.pass()
	s.reselect(prev)
}

// pass rescores shown first, then hidden. Items moved out of shown in this
// pass carry the current stamp and are skipped when hidden is scanned.
func (s *State) pass() {
	s.gen++
	gen := s.gen

	for i := 0; i < len(s.shown); {
		idx := s.shown[i]
		s.stamp[idx] = gen
		it := &s.pool[idx]
		if score, ok := s.scorer.Score(it, s.query); ok {
			it.Score = score
			i++
			continue
		}
		it.Score = 0
		s.shown = swapRemove(s.shown, i)
		s.hidden = append(s.hidden, idx)
	}

	for i := 0; i < len(s.hidden); {
		idx := s.hidden[i]
		if s.stamp[idx] == gen {
			i++
			continue
		}
		s.stamp[idx] = gen
		it := &s.pool[idx]
		score, ok := s.scorer.Score(it, s.query)
		if !ok {
			i++
			continue
		}
		it.Score = score
		s.hidden = swapRemove(s.hidden, i)
		s.shown = append(s.shown, idx)
	}

	s.sortShown()
	s.logPass()
}

func swapRemove(xs []int, i int) []int {
	last := len(xs) - 1
	xs[i] = xs[last]
	return xs[:last]
}

func (s *State) sortShown() {
	slices.SortFunc(s.shown, func(a, b int) int {
		return rank.Compare(&s.pool[a], &s.pool[b])
	})
}

func (s *State) logPass() {
	ctx := context.Background()
	if !s.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	s.logger.Debug("filter pass",
		"query", s.query.Raw,
		"shown", len(s.shown),
		"hidden", len(s.hidden),
	)
	for pos, idx := range s.shown[:min(debugTop, len(s.shown))] {
		it := &s.pool[idx]
		s.logger.Debug("score",
			"rank", pos,
			"identity", it.Identity,
			"breakdown", s.scorer.Explain(it, s.query),
		)
	}
}

func (s *State) resetSelection() {
	if len(s.shown) == 0 {
		s.selected = -1
	} else {
		s.selected = 0
	}
	s.scroll = 0
}

func (s *State) selectedPoolIndex() int {
	if s.selected < 0 || s.selected >= len(s.shown) {
		return -1
	}
	return s.shown[s.selected]
}

// reselect points the selection back at pool index prev if it is still
// shown, and otherwise at the first row.
func (s *State) reselect(prev int) {
	if prev >= 0 {
		if pos := slices.Index(s.shown, prev); pos >= 0 {
			s.selected = pos
			s.scroll = min(s.scroll, pos)
			return
		}
	}
	s.resetSelection()
}

// Shown returns the matching items in rank order. The pointers are valid
// until the next Append.
func (s *State) Shown() []*item.Item {
	out := make([]*item.Item, len(s.shown))
	for i, idx := range s.shown {
		out[i] = &s.pool[idx]
	}
	return out
}

// Item returns the shown item at position i.
func (s *State) Item(i int) (*item.Item, bool) {
	if i < 0 || i >= len(s.shown) {
		return nil, false
	}
	return &s.pool[s.shown[i]], true
}

// Len returns the number of shown items.
func (s *State) Len() int { return len(s.shown) }

// HiddenLen returns the number of hidden items.
func (s *State) HiddenLen() int { return len(s.hidden) }

// PoolLen returns the total number of items.
func (s *State) PoolLen() int { return len(s.pool) }

// Query returns the current raw query.
func (s *State) Query() string { return s.query.Raw }

// Selected returns the selected position in the shown list.
func (s *State) Selected() (int, bool) {
	if s.selected < 0 {
		return 0, false
	}
	return s.selected, true
}

// SelectedItem returns the selected item.
func (s *State) SelectedItem() (*item.Item, bool) {
	if s.selected < 0 {
		return nil, false
	}
	return s.Item(s.selected)
}

// ScrollOffset returns the index of the first visible row.
func (s *State) ScrollOffset() int { return s.scroll }
