// Package source produces items for the picker in the background.
//
// A Source streams fully built items into a channel; Run owns the channel
// and closes it when the source returns. The consumer drains it without
// blocking once per UI tick.
package source

import (
	"context"
	"errors"

	"github.com/runger/flick/internal/item"
)

// Source streams items until exhausted or until ctx is done.
type Source interface {
	Stream(ctx context.Context, out chan<- item.Item) error
}

// Func adapts a function to Source.
type Func func(ctx context.Context, out chan<- item.Item) error

// Stream calls f.
func (f Func) Stream(ctx context.Context, out chan<- item.Item) error { return f(ctx, out) }

// DefaultBuffer is the loader channel capacity.
const DefaultBuffer = 256

// Loader is a running Source.
type Loader struct {
	items chan item.Item
	err   error
}

// Run starts src in a goroutine. Cancelling ctx stops the producer at its
// next send.
func Run(ctx context.Context, src Source, buffer int) *Loader {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	l := &Loader{items: make(chan item.Item, buffer)}
	go func() {
		err := src.Stream(ctx, l.items)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		// err is published by the close below.
		l.err = err
		close(l.items)
	}()
	return l
}

// Items returns the receive side of the loader channel.
func (l *Loader) Items() <-chan item.Item { return l.items }

// Err returns the source's error. It is only meaningful after the channel
// has been observed closed.
func (l *Loader) Err() error { return l.err }

// Drain takes up to limit items (all available when limit <= 0) without
// blocking. closed reports that the producer has finished.
func Drain(ch <-chan item.Item, limit int) (batch []item.Item, closed bool) {
	for limit <= 0 || len(batch) < limit {
		select {
		case it, ok := <-ch:
			if !ok {
				return batch, true
			}
			batch = append(batch, it)
		default:
			return batch, false
		}
	}
	return batch, false
}

// Collect blocks until the channel closes and returns everything sent.
func Collect(ch <-chan item.Item) []item.Item {
	var out []item.Item
	for it := range ch {
		out = append(out, it)
	}
	return out
}

// send delivers it unless ctx is done first.
func send(ctx context.Context, out chan<- item.Item, it item.Item) error {
	select {
	case out <- it:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
