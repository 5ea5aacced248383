package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/runger/flick/internal/item"
	"github.com/runger/flick/internal/sanitize"
)

// MaxLineBytes is the longest accepted input line.
const MaxLineBytes = 1 << 20

// Lines streams one item per non-blank input line.
type Lines struct {
	R         io.Reader
	Delimiter string
	// With selects the displayed columns; empty shows the whole line.
	With item.ColumnSpec
	// Match selects extra columns searched as secondary fields.
	Match item.ColumnSpec
}

// Stream implements Source.
func (l *Lines) Stream(ctx context.Context, out chan<- item.Item) error {
	sc := bufio.NewScanner(l.R)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	for sc.Scan() {
		raw := sanitize.Line(sc.Text())
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if err := send(ctx, out, item.NewLine(raw, l.Delimiter, l.With, l.Match)); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
