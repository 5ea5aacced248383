package filter

import "github.com/runger/flick/internal/item"

// MoveDown advances the selection, wrapping to the top unless HardStop.
func (s *State) MoveDown(maxVisible int) {
	n := len(s.shown)
	if n == 0 {
		return
	}
	switch {
	case s.selected < n-1:
		s.selected++
	case !s.opts.HardStop:
		s.selected = 0
	}
	s.follow(maxVisible)
}

// MoveUp retreats the selection, wrapping to the bottom unless HardStop.
func (s *State) MoveUp(maxVisible int) {
	n := len(s.shown)
	if n == 0 {
		return
	}
	switch {
	case s.selected > 0:
		s.selected--
	case !s.opts.HardStop:
		s.selected = n - 1
	}
	s.follow(maxVisible)
}

// MoveFirst selects the first row.
func (s *State) MoveFirst(maxVisible int) {
	if len(s.shown) == 0 {
		return
	}
	s.selected = 0
	s.follow(maxVisible)
}

// MoveLast selects the last row.
func (s *State) MoveLast(maxVisible int) {
	if len(s.shown) == 0 {
		return
	}
	s.selected = len(s.shown) - 1
	s.follow(maxVisible)
}

// PageDown moves one window down, stopping at the last row.
func (s *State) PageDown(maxVisible int) {
	if len(s.shown) == 0 {
		return
	}
	s.selected = min(s.selected+window(maxVisible), len(s.shown)-1)
	s.follow(maxVisible)
}

// PageUp moves one window up, stopping at the first row.
func (s *State) PageUp(maxVisible int) {
	if len(s.shown) == 0 {
		return
	}
	s.selected = max(s.selected-window(maxVisible), 0)
	s.follow(maxVisible)
}

// SelectIndex jumps to shown position i. Out-of-range positions are ignored.
func (s *State) SelectIndex(i, maxVisible int) {
	if i < 0 || i >= len(s.shown) {
		return
	}
	s.selected = i
	s.follow(maxVisible)
}

// Visible returns the rows inside the scroll window and the selected row's
// position within them (-1 when nothing is selected).
func (s *State) Visible(maxVisible int) ([]*item.Item, int) {
	s.follow(maxVisible)
	end := min(s.scroll+window(maxVisible), len(s.shown))
	rows := make([]*item.Item, 0, end-s.scroll)
	for _, idx := range s.shown[s.scroll:end] {
		rows = append(rows, &s.pool[idx])
	}
	cursor := -1
	if s.selected >= 0 {
		cursor = s.selected - s.scroll
	}
	return rows, cursor
}

// follow clamps the selection and scrolls so the selected row is inside
// a window of maxVisible rows.
func (s *State) follow(maxVisible int) {
	n := len(s.shown)
	if n == 0 {
		s.selected, s.scroll = -1, 0
		return
	}
	s.selected = max(0, min(s.selected, n-1))
	w := window(maxVisible)
	if s.selected < s.scroll {
		s.scroll = s.selected
	}
	if s.selected >= s.scroll+w {
		s.scroll = s.selected - w + 1
	}
	s.scroll = max(0, min(s.scroll, n-1))
}

func window(maxVisible int) int {
	return max(maxVisible, 1)
}
