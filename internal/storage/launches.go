package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// NewSessionID returns a fresh launch-log session id.
func NewSessionID() string {
	return uuid.NewString()
}

// RecordLaunch appends l to the launch log and sets its ID.
func (s *SQLiteStore) RecordLaunch(ctx context.Context, l *Launch) error {
	if l.Identity == "" {
		return fmt.Errorf("launch: empty identity")
	}
	if l.SessionID == "" {
		l.SessionID = NewSessionID()
	} else if _, err := uuid.Parse(l.SessionID); err != nil {
		return fmt.Errorf("launch: invalid session id %q: %w", l.SessionID, err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO launches (session_id, scope, identity, ts_ms)
		VALUES (?, ?, ?, ?)
	`, l.SessionID, l.Scope, l.Identity, l.TsMs)
	if err != nil {
		return fmt.Errorf("failed to record launch: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read launch id: %w", err)
	}
	l.ID = id
	return nil
}

// QueryLaunches returns launch log entries, newest first.
func (s *SQLiteStore) QueryLaunches(ctx context.Context, q LaunchQuery) ([]Launch, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, session_id, scope, identity, ts_ms FROM launches WHERE 1=1`
	var args []any
	if q.Scope != "" {
		query += ` AND scope = ?`
		args = append(args, q.Scope)
	}
	if q.SessionID != "" {
		query += ` AND session_id = ?`
		args = append(args, q.SessionID)
	}
	query += ` ORDER BY ts_ms DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query launches: %w", err)
	}
	defer rows.Close()

	var out []Launch
	for rows.Next() {
		var l Launch
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Scope, &l.Identity, &l.TsMs); err != nil {
			return nil, fmt.Errorf("failed to scan launch: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
