package item

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitColumns splits a line by delim. An empty delimiter splits on runs of
// whitespace, like awk.
func SplitColumns(line, delim string) []string {
	if delim == "" {
		return strings.Fields(line)
	}
	return strings.Split(line, delim)
}

// JoinColumns joins the selected 1-based columns with delim (a single
// space when delim is empty). Out-of-range columns are skipped.
func JoinColumns(cols []string, sel []int, delim string) string {
	if delim == "" {
		delim = " "
	}
	parts := make([]string, 0, len(sel))
	for _, c := range sel {
		if c >= 1 && c <= len(cols) {
			parts = append(parts, cols[c-1])
		}
	}
	return strings.Join(parts, delim)
}

type colRange struct {
	start, end int // end 0 means open
}

// ColumnSpec is a parsed column selector. Open ranges such as "2-" are
// resolved against each line's column count.
type ColumnSpec struct {
	ranges []colRange
}

// Empty reports whether the spec selects nothing, meaning "all columns" to
// callers.
func (c ColumnSpec) Empty() bool { return len(c.ranges) == 0 }

// Resolve returns the 1-based columns selected from a line of n columns.
// Columns past n are never returned.
func (c ColumnSpec) Resolve(n int) []int {
	var out []int
	for _, r := range c.ranges {
		if r.start > n {
			continue
		}
		end := r.end
		if end == 0 || end > n {
			end = n
		}
		for col := r.start; col <= end; col++ {
			out = append(out, col)
		}
	}
	return out
}

// ParseColumnSpec parses a selector such as "1", "1,3", "2-4" or "2-".
func ParseColumnSpec(spec string) (ColumnSpec, error) {
	var cs ColumnSpec
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return cs, nil
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(lo)
		if err != nil || start < 1 {
			return ColumnSpec{}, fmt.Errorf("invalid column %q", part)
		}
		if !isRange {
			cs.ranges = append(cs.ranges, colRange{start: start, end: start})
			continue
		}
		r := colRange{start: start}
		if hi != "" {
			r.end, err = strconv.Atoi(hi)
			if err != nil || r.end < start {
				return ColumnSpec{}, fmt.Errorf("invalid column range %q", part)
			}
		}
		cs.ranges = append(cs.ranges, r)
	}
	return cs, nil
}

// SelectColumns returns the columns spec picks out of cols. An empty spec
// returns cols unchanged.
func SelectColumns(cols []string, spec ColumnSpec) []string {
	if spec.Empty() {
		return cols
	}
	var out []string
	for _, c := range spec.Resolve(len(cols)) {
		if c >= 1 && c <= len(cols) {
			out = append(out, cols[c-1])
		}
	}
	return out
}
