package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/runger/flick/internal/usage"
)

// scopedUsage is a usage.Backend over the rows of one scope.
type scopedUsage struct {
	db    *sql.DB
	scope string
}

var _ usage.Backend = (*scopedUsage)(nil)

// Usage returns a backend whose identities live in scope, so the same
// string from two sources never shares a counter.
func (s *SQLiteStore) Usage(scope string) usage.Backend {
	return &scopedUsage{db: s.db, scope: scope}
}

func (u *scopedUsage) Get(ctx context.Context, identity string) (usage.Entry, bool, error) {
	row := u.db.QueryRowContext(ctx, `
		SELECT count, decayed, last_used_ms FROM usage
		WHERE scope = ? AND identity = ?
	`, u.scope, identity)

	var count, last any
	var decayed any
	if err := row.Scan(&count, &decayed, &last); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return usage.Entry{}, false, nil
		}
		return usage.Entry{}, false, fmt.Errorf("failed to get usage: %w", err)
	}
	e, err := decodeEntry(count, decayed, last)
	if err != nil {
		return usage.Entry{}, false, fmt.Errorf("usage row %q: %w", identity, err)
	}
	return e, true, nil
}

func (u *scopedUsage) Set(ctx context.Context, identity string, e usage.Entry) error {
	if e.Count > math.MaxInt64 {
		return fmt.Errorf("usage count overflow for %q", identity)
	}
	_, err := u.db.ExecContext(ctx, `
		INSERT INTO usage (scope, identity, count, decayed, last_used_ms)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(scope, identity) DO UPDATE SET
			count = excluded.count,
			decayed = excluded.decayed,
			last_used_ms = excluded.last_used_ms
	`, u.scope, identity, int64(e.Count), e.Decayed, e.LastUsedMs)
	if err != nil {
		return fmt.Errorf("failed to set usage: %w", err)
	}
	return nil
}

// All decodes every row of the scope. Columns are scanned untyped so one
// corrupt row is reported and skipped instead of failing the load.
func (u *scopedUsage) All(ctx context.Context, onErr func(string, error)) (map[string]usage.Entry, error) {
	rows, err := u.db.QueryContext(ctx, `
		SELECT identity, count, decayed, last_used_ms FROM usage WHERE scope = ?
	`, u.scope)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	out := make(map[string]usage.Entry)
	for rows.Next() {
		var identity sql.NullString
		var count, decayed, last any
		if err := rows.Scan(&identity, &count, &decayed, &last); err != nil {
			onErr(identity.String, err)
			continue
		}
		if !identity.Valid || identity.String == "" {
			onErr("", errors.New("missing identity"))
			continue
		}
		e, err := decodeEntry(count, decayed, last)
		if err != nil {
			onErr(identity.String, err)
			continue
		}
		out[identity.String] = e
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("failed to read usage rows: %w", err)
	}
	return out, nil
}

func (u *scopedUsage) PinnedSet(ctx context.Context) (map[string]struct{}, error) {
	rows, err := u.db.QueryContext(ctx, `SELECT identity FROM pins WHERE scope = ?`, u.scope)
	if err != nil {
		return nil, fmt.Errorf("failed to query pins: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("failed to read pins: %w", err)
	}
	return out, nil
}

// SetPinnedSet replaces the scope's pins in one transaction.
func (u *scopedUsage) SetPinnedSet(ctx context.Context, pinned map[string]struct{}) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pins WHERE scope = ?`, u.scope); err != nil {
		return fmt.Errorf("failed to clear pins: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO pins (scope, identity) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare pin insert: %w", err)
	}
	defer stmt.Close()

	for id := range pinned {
		if _, err := stmt.ExecContext(ctx, u.scope, id); err != nil {
			return fmt.Errorf("failed to insert pin %q: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pins: %w", err)
	}
	return nil
}

// TopUsage lists the scope's counters by count, with pin state.
func (s *SQLiteStore) TopUsage(ctx context.Context, scope string, limit int) ([]UsageRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.scope, u.identity, u.count, u.decayed, u.last_used_ms,
		       EXISTS(SELECT 1 FROM pins p WHERE p.scope = u.scope AND p.identity = u.identity)
		FROM usage u
		WHERE (? = '' OR u.scope = ?)
		ORDER BY u.count DESC, u.last_used_ms DESC, u.identity ASC
		LIMIT ?
	`, scope, scope, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	var out []UsageRow
	for rows.Next() {
		var r UsageRow
		var count int64
		var pinned int
		if err := rows.Scan(&r.Scope, &r.Identity, &count, &r.Entry.Decayed, &r.Entry.LastUsedMs, &pinned); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		if count > 0 {
			r.Entry.Count = uint64(count)
		}
		r.Pinned = pinned != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func decodeEntry(count, decayed, last any) (usage.Entry, error) {
	c, err := asInt64(count)
	if err != nil {
		return usage.Entry{}, fmt.Errorf("count: %w", err)
	}
	if c < 0 {
		return usage.Entry{}, fmt.Errorf("negative count %d", c)
	}
	d, err := asFloat64(decayed)
	if err != nil {
		return usage.Entry{}, fmt.Errorf("decayed: %w", err)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return usage.Entry{}, fmt.Errorf("invalid decayed score %v", d)
	}
	l, err := asInt64(last)
	if err != nil {
		return usage.Entry{}, fmt.Errorf("last_used_ms: %w", err)
	}
	return usage.Entry{Count: uint64(c), Decayed: d, LastUsedMs: l}, nil
}

func asInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case nil:
		return 0, nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("non-integer value %v", x)
		}
		return int64(x), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func asFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
