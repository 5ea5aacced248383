package launch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/runger/flick/internal/item"
)

// Stdout prints the accepted line.
type Stdout struct {
	W io.Writer
	// Delimiter joins the columns picked by Nth.
	Delimiter string
	// Nth selects the printed columns; empty prints the raw line.
	Nth item.ColumnSpec
}

// Deliver implements Sink.
func (s *Stdout) Deliver(_ context.Context, it *item.Item) error {
	out := it.Raw
	if out == "" {
		out = it.Primary
	}
	if !s.Nth.Empty() {
		cols := it.Columns
		if len(cols) == 0 {
			cols = item.SplitColumns(out, s.Delimiter)
		}
		delim := s.Delimiter
		if delim == "" {
			delim = " "
		}
		out = strings.Join(item.SelectColumns(cols, s.Nth), delim)
	}
	if _, err := fmt.Fprintln(s.W, out); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	return nil
}
