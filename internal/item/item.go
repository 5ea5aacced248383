// Package item defines the rankable item shared by every source.
package item

import "strings"

// Kind identifies which source produced an item.
type Kind int

const (
	KindApp  Kind = iota // Desktop application entry
	KindLine             // Free-text line read from stdin
	KindClip             // Clipboard history record
)

// String returns the scope name used for usage persistence.
func (k Kind) String() string {
	switch k {
	case KindApp:
		return "apps"
	case KindLine:
		return "dmenu"
	case KindClip:
		return "clip"
	default:
		return "unknown"
	}
}

// Field is an auxiliary searchable string with a priority weight.
// Weight is a percentage in [1, 100]; higher means more important.
type Field struct {
	Text   string
	Weight int

	lower string
}

// Lower returns the lower-cased text, computed once.
func (f *Field) Lower() string {
	if f.lower == "" && f.Text != "" {
		f.lower = strings.ToLower(f.Text)
	}
	return f.lower
}

// Secondary field weights per source.
const (
	WeightExec        = 90
	WeightGenericName = 80
	WeightKeywords    = 70
	WeightCategories  = 50
	WeightTag         = 80
	WeightColumn      = 90
)

// Item is the normalized representation of anything the picker can rank.
type Item struct {
	Kind Kind

	// Identity is the stable key for usage and pin lookup.
	Identity string
	// Primary is the main label matched against and displayed.
	Primary string
	// Secondary holds auxiliary searchable fields in priority order.
	Secondary []Field
	// Columns is the raw text split by the configured delimiter.
	Columns []string
	Tags    []string

	Pinned     bool
	UsageCount uint64
	Frecency   float64 // normalized usage signal in [0, 1)

	// Score is scratch space for the last filter pass.
	Score int64
	// Ordinal is the insertion position, the final tie-break.
	Ordinal int

	// App payload.
	DesktopID string
	Path      string
	Exec      []string
	Terminal  bool

	// Line and clip payload.
	Raw    string
	ClipID string

	primaryLower string
}

// TieBreakByName reports whether equal scores fall back to alphabetical
// order of Primary. Lines and clips keep their input order instead.
func (it *Item) TieBreakByName() bool {
	return it.Kind == KindApp
}

// SortKey returns the case-insensitive primary text.
func (it *Item) SortKey() string {
	if it.primaryLower == "" && it.Primary != "" {
		it.primaryLower = strings.ToLower(it.Primary)
	}
	return it.primaryLower
}

// SetPrimary replaces the primary text and drops the cached sort key.
func (it *Item) SetPrimary(text string) {
	it.Primary = text
	it.primaryLower = ""
}

// AddSecondary appends a non-empty auxiliary field.
func (it *Item) AddSecondary(text string, weight int) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	it.Secondary = append(it.Secondary, Field{Text: text, Weight: clampWeight(weight), lower: strings.ToLower(text)})
}

// SetTags replaces the item's tags and rebuilds their secondary fields.
func (it *Item) SetTags(tags []string) {
	kept := it.Secondary[:0]
	isTag := make(map[string]bool, len(it.Tags))
	for _, t := range it.Tags {
		isTag[t] = true
	}
	for _, f := range it.Secondary {
		if f.Weight == WeightTag && isTag[f.Text] {
			continue
		}
		kept = append(kept, f)
	}
	it.Secondary = kept
	it.Tags = append([]string(nil), tags...)
	for _, t := range it.Tags {
		it.AddSecondary(t, WeightTag)
	}
}

func clampWeight(w int) int {
	if w < 1 {
		return 1
	}
	if w > 100 {
		return 100
	}
	return w
}

// NewApp builds an application item. The display name is the identity so
// history survives desktop-file renames that keep the name.
func NewApp(name, desktopID string) Item {
	return Item{
		Kind:      KindApp,
		Identity:  name,
		Primary:   name,
		DesktopID: desktopID,
	}
}

// NewLine builds a free-text item from one input line. The raw line is the
// identity; with selects the columns that form the primary text (empty means
// the whole line) and match the columns added as secondary fields.
func NewLine(raw, delim string, with, match ColumnSpec) Item {
	cols := SplitColumns(raw, delim)
	it := Item{
		Kind:     KindLine,
		Identity: raw,
		Raw:      raw,
		Columns:  cols,
		Primary:  raw,
	}
	if !with.Empty() {
		it.Primary = JoinColumns(cols, with.Resolve(len(cols)), delim)
	}
	for _, c := range match.Resolve(len(cols)) {
		if c >= 1 && c <= len(cols) {
			it.AddSecondary(cols[c-1], WeightColumn)
		}
	}
	return it
}

// NewClip builds a clipboard record item from its store id and preview.
func NewClip(id, preview string) Item {
	return Item{
		Kind:     KindClip,
		Identity: id,
		ClipID:   id,
		Primary:  preview,
		Raw:      id + "\t" + preview,
		Columns:  []string{id, preview},
	}
}
