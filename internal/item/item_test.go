package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "apps", KindApp.String())
	assert.Equal(t, "dmenu", KindLine.String())
	assert.Equal(t, "clip", KindClip.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestSplitColumns(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		delim string
		want  []string
	}{
		{"whitespace runs", "  a  b\tc ", "", []string{"a", "b", "c"}},
		{"tab", "1\tfoo bar\tbaz", "\t", []string{"1", "foo bar", "baz"}},
		{"keeps empty", "a::b", ":", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitColumns(tt.line, tt.delim))
		})
	}
}

func TestParseColumnSpec(t *testing.T) {
	tests := []struct {
		spec    string
		max     int
		want    []int
		wantErr bool
	}{
		{"", 3, nil, false},
		{"1", 3, []int{1}, false},
		{"1,3", 3, []int{1, 3}, false},
		{"2-", 4, []int{2, 3, 4}, false},
		{"1-2, 4", 5, []int{1, 2, 4}, false},
		{"2-9", 3, []int{2, 3}, false},
		{"4,1", 3, []int{1}, false},
		{"0", 3, nil, true},
		{"x", 3, nil, true},
		{"3-1", 3, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			cs, err := ParseColumnSpec(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cs.Resolve(tt.max))
		})
	}
}

func TestColumnSpec_ResolveClampsToLine(t *testing.T) {
	cs := spec(t, "1-50000000")
	assert.Equal(t, []int{1, 2}, cs.Resolve(2))
	assert.Empty(t, spec(t, "5-9").Resolve(3))
	assert.Equal(t, []int{3}, spec(t, "3-9").Resolve(3))
	assert.Empty(t, cs.Resolve(0))

	it := NewLine("id value", "", cs, cs)
	assert.Equal(t, "id value", it.Primary)
}

func spec(t *testing.T, s string) ColumnSpec {
	t.Helper()
	cs, err := ParseColumnSpec(s)
	require.NoError(t, err)
	return cs
}

func TestNewLine(t *testing.T) {
	it := NewLine("42\tfirefox\tweb browser", "\t", spec(t, "2"), spec(t, "3"))

	assert.Equal(t, KindLine, it.Kind)
	assert.Equal(t, "42\tfirefox\tweb browser", it.Identity)
	assert.Equal(t, "firefox", it.Primary)
	require.Len(t, it.Secondary, 1)
	assert.Equal(t, "web browser", it.Secondary[0].Text)
	assert.Equal(t, WeightColumn, it.Secondary[0].Weight)
	assert.False(t, it.TieBreakByName())
}

func TestNewLine_AllColumnsDisplayed(t *testing.T) {
	it := NewLine("a b c", "", ColumnSpec{}, spec(t, "9"))
	assert.Equal(t, "a b c", it.Primary)
	assert.Empty(t, it.Secondary)
}

func TestNewLine_OpenRangePerLine(t *testing.T) {
	with := spec(t, "2-")
	short := NewLine("1 two", "", with, ColumnSpec{})
	long := NewLine("1 two three four", "", with, ColumnSpec{})
	assert.Equal(t, "two", short.Primary)
	assert.Equal(t, "two three four", long.Primary)
}

func TestSelectColumns(t *testing.T) {
	cols := []string{"a", "b", "c"}
	assert.Equal(t, cols, SelectColumns(cols, ColumnSpec{}))
	assert.Equal(t, []string{"a", "c"}, SelectColumns(cols, spec(t, "1,3")))
	assert.Equal(t, []string{"b", "c"}, SelectColumns(cols, spec(t, "2-")))
	assert.Empty(t, SelectColumns(cols, spec(t, "7")))
}

func TestNewApp(t *testing.T) {
	it := NewApp("Firefox", "firefox.desktop")
	assert.Equal(t, "Firefox", it.Identity)
	assert.Equal(t, "firefox", it.SortKey())
	assert.True(t, it.TieBreakByName())
}

func TestSetTags_ReplacesPreviousTags(t *testing.T) {
	it := NewClip("7", "hello world")
	it.SetTags([]string{"greeting", "work"})
	require.Len(t, it.Secondary, 2)

	it.SetTags([]string{"home"})
	require.Len(t, it.Secondary, 1)
	assert.Equal(t, "home", it.Secondary[0].Text)
	assert.Equal(t, []string{"home"}, it.Tags)
}

func TestAddSecondary_SkipsBlankAndClamps(t *testing.T) {
	var it Item
	it.AddSecondary("  ", 50)
	it.AddSecondary("x", 500)
	require.Len(t, it.Secondary, 1)
	assert.Equal(t, 100, it.Secondary[0].Weight)
}
