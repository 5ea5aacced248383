// Package storage provides SQLite-based persistent storage for flick.
// It holds usage counters, pins, the launch log and clipboard tags.
package storage

import (
	"context"
	"errors"

	"github.com/runger/flick/internal/usage"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines every persistence operation flick performs.
type Store interface {
	// Usage returns a usage backend bound to scope.
	Usage(scope string) usage.Backend

	// Usage listing for `flick history`
	TopUsage(ctx context.Context, scope string, limit int) ([]UsageRow, error)

	// Launch log
	RecordLaunch(ctx context.Context, l *Launch) error
	QueryLaunches(ctx context.Context, q LaunchQuery) ([]Launch, error)

	// Clipboard tags
	AddClipTags(ctx context.Context, clipID string, tags ...string) error
	ClearClipTags(ctx context.Context, clipID string) error
	ClipTags(ctx context.Context) (map[string][]string, error)

	// Lifecycle
	Close() error
}

// UsageRow is one usage counter with its scope and identity.
type UsageRow struct {
	Scope    string
	Identity string
	Entry    usage.Entry
	Pinned   bool
}

// Launch is one entry of the launch log.
type Launch struct {
	ID        int64
	SessionID string
	Scope     string
	Identity  string
	TsMs      int64
}

// LaunchQuery selects launch log entries, newest first.
type LaunchQuery struct {
	Scope     string // empty means every scope
	SessionID string
	Limit     int
}
