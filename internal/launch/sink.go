// Package launch hands the accepted item to whatever consumes it: a
// detached application process, stdout, or the system clipboard.
package launch

import (
	"context"
	"errors"

	"github.com/runger/flick/internal/item"
)

// ErrNoCommand is returned when an item carries nothing to run.
var ErrNoCommand = errors.New("item has no command")

// Sink delivers one accepted item.
type Sink interface {
	Deliver(ctx context.Context, it *item.Item) error
}
