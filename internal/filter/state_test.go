package filter

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/match"
	"github.com/runger/flick/internal/rank"
	"github.com/runger/flick/internal/usage"
)

func newState(opts Options) *State {
	return New(rank.NewScorer(rank.ModeFuzzy, match.NewFZF(), rank.DefaultPrefixDepth), opts)
}

func apps(names ...string) []item.Item {
	out := make([]item.Item, len(names))
	for i, n := range names {
		out[i] = item.NewApp(n, n+".desktop")
	}
	return out
}

func names(s *State) []string {
	var out []string
	for _, it := range s.Shown() {
		out = append(out, it.Primary)
	}
	return out
}

// checkPartition asserts shown and hidden are disjoint and cover the pool.
func checkPartition(t *testing.T, s *State) {
	t.Helper()
	seen := make(map[int]int, len(s.pool))
	for _, idx := range s.shown {
		seen[idx]++
	}
	for _, idx := range s.hidden {
		seen[idx]++
	}
	require.Len(t, seen, len(s.pool), "every pool item is in exactly one partition")
	for idx, n := range seen {
		require.Equal(t, 1, n, "pool index %d appears %d times", idx, n)
		require.True(t, idx >= 0 && idx < len(s.pool))
	}
}

func checkSelection(t *testing.T, s *State) {
	t.Helper()
	sel, ok := s.Selected()
	if s.Len() == 0 {
		assert.False(t, ok)
		return
	}
	require.True(t, ok)
	assert.Less(t, sel, s.Len())
	assert.LessOrEqual(t, s.ScrollOffset(), sel)
}

func fireState(t *testing.T) *State {
	t.Helper()
	ctx := context.Background()
	store := usage.NewStore(usage.NewMemoryBackend(), usage.Options{})
	for range 5 {
		require.NoError(t, store.RecordUse(ctx, "Firebird"))
	}
	_, err := store.TogglePin(ctx, "Firebird")
	require.NoError(t, err)

	s := newState(Options{})
	s.ApplyUsage(store.Load(ctx))
	s.Append(apps("Firefox", "Files", "Firebird")...)
	return s
}

func TestNew_EverythingHiddenBeforeFirstPass(t *testing.T) {
	s := newState(Options{})
	assert.Zero(t, s.Len())
	_, ok := s.Selected()
	assert.False(t, ok)
	_, ok = s.SelectedItem()
	assert.False(t, ok)
}

func TestConcreteScenario(t *testing.T) {
	s := fireState(t)

	s.SetQuery("fire")
	assert.Equal(t, []string{"Firebird", "Firefox"}, names(s))
	assert.Equal(t, 1, s.HiddenLen())
	checkPartition(t, s)

	s.SetQuery("")
	assert.Equal(t, []string{"Firebird", "Files", "Firefox"}, names(s))
	checkPartition(t, s)
}

func TestBackspaceReadmits(t *testing.T) {
	s := newState(Options{})
	s.Append(apps("Firefox", "Firm", "Files")...)

	s.SetQuery("fire")
	assert.Equal(t, []string{"Firefox"}, names(s))

	s.SetQuery("fir")
	assert.ElementsMatch(t, []string{"Firefox", "Firm"}, names(s))

	s.SetQuery("fi")
	assert.ElementsMatch(t, []string{"Firefox", "Firm", "Files"}, names(s))
	checkPartition(t, s)
}

func TestEmptyQueryTotality(t *testing.T) {
	s := newState(Options{})
	s.Append(apps("a", "b", "c", "Zed", "Äpfel")...)
	s.SetQuery("")
	assert.Equal(t, 5, s.Len())
	assert.Zero(t, s.HiddenLen())
}

func TestPartitionInvariant_QuerySequence(t *testing.T) {
	s := newState(Options{})
	s.Append(apps(
		"Firefox", "Files", "Firebird", "Gnome Terminal", "Calculator",
		"Text Editor", "Terminal", "Settings", "Software", "System Monitor",
	)...)

	queries := []string{"", "t", "te", "ter", "term", "ter", "te", "s", "sy", "sys", "x", "", "f", "fi", "fir", "fire", "fir", "zzz", ""}
	for _, q := range queries {
		s.SetQuery(q)
		checkPartition(t, s)
		checkSelection(t, s)
		assert.Equal(t, q, s.Query())
	}
}

func TestIdempotence(t *testing.T) {
	s := newState(Options{})
	s.Append(apps("Terminal", "Gnome Terminal", "Text Editor", "Tetris", "Settings")...)

	s.SetQuery("te")
	first := names(s)
	s.SetQuery("te")
	assert.Equal(t, first, names(s))
	s.Refresh()
	assert.Equal(t, first, names(s))
}

func TestSelectionResetOnQueryChange(t *testing.T) {
	s := newState(Options{})
	s.Append(apps("Alpha", "Beta", "Gamma", "Delta")...)
	s.SetQuery("")
	s.MoveLast(10)
	sel, _ := s.Selected()
	require.Equal(t, 3, sel)

	s.SetQuery("a")
	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Zero(t, sel)
	assert.Zero(t, s.ScrollOffset())

	s.SetQuery("qqq")
	_, ok = s.Selected()
	assert.False(t, ok)
	checkSelection(t, s)
}

func TestAppend_KeepsSelection(t *testing.T) {
	s := newState(Options{})
	s.Append(apps("Beta", "Delta")...)
	s.SetQuery("")
	s.MoveDown(10)
	it, ok := s.SelectedItem()
	require.True(t, ok)
	require.Equal(t, "Delta", it.Primary)

	// Alpha sorts ahead of both, shifting positions; Delta stays selected.
	s.Append(apps("Alpha", "Omega")...)
	it, ok = s.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "Delta", it.Primary)
	assert.Equal(t, []string{"Alpha", "Beta", "Delta", "Omega"}, names(s))
	checkPartition(t, s)
}

func TestAppend_ScoresAgainstCurrentQuery(t *testing.T) {
	s := newState(Options{})
	s.SetQuery("fire")
	s.Append(apps("Files", "Firefox")...)
	assert.Equal(t, []string{"Firefox"}, names(s))
	assert.Equal(t, 1, s.HiddenLen())
	checkPartition(t, s)
	checkSelection(t, s)
}

func TestAppend_AssignsOrdinals(t *testing.T) {
	s := newState(Options{})
	s.Append(apps("a", "b")...)
	s.Append(apps("c")...)
	for i := range s.pool {
		assert.Equal(t, i, s.pool[i].Ordinal)
	}
	assert.Equal(t, 3, s.PoolLen())
}

func TestLines_KeepInputOrderOnTies(t *testing.T) {
	s := newState(Options{})
	for _, raw := range []string{"zeta", "alpha", "mid"} {
		s.Append(item.NewLine(raw, "", item.ColumnSpec{}, item.ColumnSpec{}))
	}
	s.SetQuery("")
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names(s))
}

func TestRefresh_AfterPinToggle(t *testing.T) {
	ctx := context.Background()
	store := usage.NewStore(usage.NewMemoryBackend(), usage.Options{})
	s := newState(Options{})
	s.ApplyUsage(store.Load(ctx))
	s.Append(apps("Alpha", "Beta", "Gamma")...)
	s.SetQuery("")

	s.MoveLast(10)
	it, _ := s.SelectedItem()
	require.Equal(t, "Gamma", it.Primary)

	_, err := store.TogglePin(ctx, "Gamma")
	require.NoError(t, err)
	s.ApplyUsage(store.Record())
	s.Refresh()

	assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, names(s))
	it, ok := s.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "Gamma", it.Primary, "selection follows the toggled item")

	// A pass through SetQuery resets the selection even when the query
	// text is unchanged.
	s.MoveLast(10)
	s.SetQuery("")
	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Zero(t, sel)
}

func TestShown_SortedByRank(t *testing.T) {
	s := newState(Options{})
	s.Append(apps("Gnome Terminal", "Terminal", "Tetris", "Extreme Tux Racer")...)
	s.SetQuery("ter")
	shown := s.Shown()
	require.NotEmpty(t, shown)
	assert.True(t, slices.IsSortedFunc(shown, rank.Compare))
	assert.Equal(t, "Terminal", shown[0].Primary)
}
