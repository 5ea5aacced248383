package storage

import (
	"context"
	"fmt"
	"strings"
)

// AddClipTags attaches tags to a clipboard record. Blank and duplicate tags
// are ignored.
func (s *SQLiteStore) AddClipTags(ctx context.Context, clipID string, tags ...string) error {
	if clipID == "" {
		return fmt.Errorf("tag: empty clip id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO clip_tags (clip_id, tag) VALUES (?, ?)
		`, clipID, tag); err != nil {
			return fmt.Errorf("failed to add tag %q: %w", tag, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tags: %w", err)
	}
	return nil
}

// ClearClipTags removes every tag of clipID. It returns ErrNotFound when
// the record had none.
func (s *SQLiteStore) ClearClipTags(ctx context.Context, clipID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clip_tags WHERE clip_id = ?`, clipID)
	if err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClipTags returns every clip id with its tags in alphabetical order.
func (s *SQLiteStore) ClipTags(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT clip_id, tag FROM clip_tags ORDER BY clip_id, tag
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		out[id] = append(out[id], tag)
	}
	return out, rows.Err()
}
