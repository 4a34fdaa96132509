// ABOUTME: Interaction toggle: at-most-one like per (resource, subject) with a derived counter
// ABOUTME: Record existence and counter are mutated inside one transaction

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// counterTable maps a like resource type to the table carrying its counter.
// The switch keeps table names out of caller control.
func counterTable(resourceType string) (string, error) {
	switch resourceType {
	case ResourceArticle:
		return "articles", nil
	case ResourceProject:
		return "projects", nil
	default:
		return "", fmt.Errorf("unknown like resource type %q", resourceType)
	}
}

// ToggleLike flips the subject's like on a resource and keeps the resource's
// counter in lockstep, all inside a single transaction. If no like exists it
// is inserted and the counter incremented; otherwise it is deleted and the
// counter decremented with a floor of zero. Storage failures roll back fully
// so record and counter never diverge.
func (s *SQLiteStore) ToggleLike(ctx context.Context, resourceType string, resourceID int64, subject string) (int, bool, error) {
	table, err := counterTable(resourceType)
	if err != nil {
		return 0, false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("beginning toggle transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT like_count FROM %s WHERE id = ?", table), resourceID,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, ErrNotFound
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading like count: %w", err)
	}

	var existing int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM likes WHERE resource_type = ? AND resource_id = ? AND username = ?",
		resourceType, resourceID, subject,
	).Scan(&existing)
	if err != nil {
		return 0, false, fmt.Errorf("checking existing like: %w", err)
	}

	var isLikedNow bool
	if existing > 0 {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM likes WHERE resource_type = ? AND resource_id = ? AND username = ?",
			resourceType, resourceID, subject,
		); err != nil {
			return 0, false, fmt.Errorf("deleting like: %w", err)
		}
		count--
		if count < 0 {
			count = 0
		}
	} else {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO likes (resource_type, resource_id, username, created_at) VALUES (?, ?, ?, ?)",
			resourceType, resourceID, subject, formatTime(time.Now()),
		)
		if isUniqueViolation(err) {
			// Backstop: a concurrent toggle from the same subject won.
			return 0, false, ErrDuplicateLike
		}
		if err != nil {
			return 0, false, fmt.Errorf("inserting like: %w", err)
		}
		count++
		isLikedNow = true
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET like_count = ? WHERE id = ?", table), count, resourceID,
	); err != nil {
		return 0, false, fmt.Errorf("updating like count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("committing toggle: %w", err)
	}
	return count, isLikedNow, nil
}

// LikeStatus reports whether the subject currently likes the resource
func (s *SQLiteStore) LikeStatus(ctx context.Context, resourceType string, resourceID int64, subject string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM likes WHERE resource_type = ? AND resource_id = ? AND username = ?",
		resourceType, resourceID, subject,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("querying like status: %w", err)
	}
	return count > 0, nil
}

// ListLikers returns the subjects who like a resource, most recent first
func (s *SQLiteStore) ListLikers(ctx context.Context, resourceType string, resourceID int64) ([]*LikeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resource_type, resource_id, username, created_at
		FROM likes
		WHERE resource_type = ? AND resource_id = ?
		ORDER BY created_at DESC
	`, resourceType, resourceID)
	if err != nil {
		return nil, fmt.Errorf("listing likers: %w", err)
	}
	defer rows.Close()

	var records []*LikeRecord
	for rows.Next() {
		var r LikeRecord
		var createdAt string
		if err := rows.Scan(&r.ResourceType, &r.ResourceID, &r.Subject, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning like record: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, &r)
	}
	return records, rows.Err()
}
