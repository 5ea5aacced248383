// Package usage tracks how often items are chosen and which are pinned.
//
// A Record is loaded once per session and read by the scorer on every
// keystroke; it never reads through to storage. Persistence failures are
// reported to the caller but never undo the in-memory change, so ranking
// within a session stays correct even when the disk does not.
package usage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/runger/flick/internal/item"
)

// Entry is the persisted usage state of one identity.
type Entry struct {
	Count      uint64
	Decayed    float64
	LastUsedMs int64
}

// Backend is the persistence contract. Implementations must be durable
// before the process exits normally; no transaction model is assumed.
type Backend interface {
	Get(ctx context.Context, identity string) (Entry, bool, error)
	Set(ctx context.Context, identity string, e Entry) error
	// All returns every readable entry. Rows that fail to decode are
	// reported through onErr and skipped.
	All(ctx context.Context, onErr func(identity string, err error)) (map[string]Entry, error)
	PinnedSet(ctx context.Context) (map[string]struct{}, error)
	SetPinnedSet(ctx context.Context, pinned map[string]struct{}) error
}

// Record is an in-memory snapshot of usage counters and pins.
type Record struct {
	entries map[string]Entry
	pinned  map[string]struct{}
	tau     time.Duration
	nowMs   int64
}

func newRecord(tau time.Duration, now time.Time) *Record {
	return &Record{
		entries: make(map[string]Entry),
		pinned:  make(map[string]struct{}),
		tau:     tau,
		nowMs:   now.UnixMilli(),
	}
}

// Count returns the number of recorded uses of identity.
func (r *Record) Count(identity string) uint64 {
	if r == nil {
		return 0
	}
	return r.entries[identity].Count
}

// Entry returns the raw entry for identity.
func (r *Record) Entry(identity string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	e, ok := r.entries[identity]
	return e, ok
}

// Pinned reports whether identity is pinned.
func (r *Record) Pinned(identity string) bool {
	if r == nil {
		return false
	}
	_, ok := r.pinned[identity]
	return ok
}

// Frecency returns the normalized usage signal for identity in [0, 1),
// evaluated at the time the record was loaded.
func (r *Record) Frecency(identity string) float64 {
	if r == nil {
		return 0
	}
	e, ok := r.entries[identity]
	if !ok {
		return 0
	}
	return Normalize(Decayed(e, r.nowMs, r.tau))
}

// Apply copies identity's usage and pin state onto it.
func (r *Record) Apply(it *item.Item) {
	it.UsageCount = r.Count(it.Identity)
	it.Pinned = r.Pinned(it.Identity)
	it.Frecency = r.Frecency(it.Identity)
}

// Len returns the number of identities with recorded usage.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// PinnedIDs returns a copy of the pinned identity set.
func (r *Record) PinnedIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(r.pinned))
	for id := range r.pinned {
		out[id] = struct{}{}
	}
	return out
}

// Options configures a Store.
type Options struct {
	// Tau is the frecency decay constant. Defaults to DefaultTau.
	Tau time.Duration
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// Logger receives per-record load failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store couples a Backend with the session's in-memory Record.
type Store struct {
	backend Backend
	tau     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	rec     *Record
}

// NewStore creates a store over backend.
func NewStore(backend Backend, opts Options) *Store {
	if opts.Tau <= 0 {
		opts.Tau = DefaultTau
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		backend: backend,
		tau:     opts.Tau,
		now:     opts.Now,
		logger:  opts.Logger,
		rec:     newRecord(opts.Tau, opts.Now()),
	}
}

// Load reads all persisted counters and pins. Individual unreadable
// records are treated as absent; a failing backend yields an empty record.
func (s *Store) Load(ctx context.Context) *Record {
	rec := newRecord(s.tau, s.now())

	entries, err := s.backend.All(ctx, func(identity string, err error) {
		s.logger.Warn("usage record unreadable", "identity", identity, "error", err)
	})
	if err != nil {
		s.logger.Warn("usage load failed", "error", err)
	}
	for id, e := range entries {
		rec.entries[id] = e
	}

	pinned, err := s.backend.PinnedSet(ctx)
	if err != nil {
		s.logger.Warn("pinned set load failed", "error", err)
	}
	for id := range pinned {
		rec.pinned[id] = struct{}{}
	}

	s.rec = rec
	return rec
}

// Record returns the current in-memory snapshot.
func (s *Store) Record() *Record {
	return s.rec
}

// RecordUse increments identity's counter in memory and in the backend.
// Unknown identities start at 1.
func (s *Store) RecordUse(ctx context.Context, identity string) error {
	if identity == "" {
		return fmt.Errorf("record use: empty identity")
	}
	base := s.rec.entries[identity]
	stored, ok, getErr := s.backend.Get(ctx, identity)
	if getErr == nil && ok && stored.Count > base.Count {
		base = stored
	}

	next := Bump(base, s.now().UnixMilli(), s.tau)
	s.rec.entries[identity] = next

	if err := s.backend.Set(ctx, identity, next); err != nil {
		return fmt.Errorf("record use %q: %w", identity, err)
	}
	return nil
}

// TogglePin flips identity's pin and persists the full pinned set. The
// returned state is the in-memory one even when persistence fails.
func (s *Store) TogglePin(ctx context.Context, identity string) (bool, error) {
	if identity == "" {
		return false, fmt.Errorf("toggle pin: empty identity")
	}
	_, was := s.rec.pinned[identity]
	if was {
		delete(s.rec.pinned, identity)
	} else {
		s.rec.pinned[identity] = struct{}{}
	}
	if err := s.backend.SetPinnedSet(ctx, s.rec.PinnedIDs()); err != nil {
		return !was, fmt.Errorf("toggle pin %q: %w", identity, err)
	}
	return !was, nil
}
