// ABOUTME: Comment persistence for the SQLite store
// ABOUTME: List queries join usernames for display, including the replied-to author

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateComment inserts a comment and fills in its assigned ID.
func (s *SQLiteStore) CreateComment(ctx context.Context, c *Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (content, article_id, user_id, parent_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.Content, c.ArticleID, c.UserID, c.ParentID, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading comment id: %w", err)
	}
	c.ID = id
	return nil
}

// GetComment returns a single comment, or ErrNotFound.
func (s *SQLiteStore) GetComment(ctx context.Context, id int64) (*Comment, error) {
	var c Comment
	var createdAt string
	var parentID sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, content, article_id, user_id, parent_id, created_at
		FROM comments WHERE id = ?
	`, id).Scan(&c.ID, &c.Content, &c.ArticleID, &c.UserID, &parentID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying comment: %w", err)
	}

	if parentID.Valid {
		c.ParentID = &parentID.Int64
	}
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}

// DeleteComment removes a comment. The author-or-admin check belongs to the
// HTTP layer.
func (s *SQLiteStore) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return requireRowAffected(res)
}

// ListCommentsByArticle returns an article's comments oldest first, with the
// author's username and, for replies, the replied-to author's username.
func (s *SQLiteStore) ListCommentsByArticle(ctx context.Context, articleID int64) ([]*Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			c.id, c.content, c.article_id, c.user_id, c.parent_id, c.created_at,
			COALESCE(u.username, ''),
			COALESCE(pu.username, '')
		FROM comments c
		LEFT JOIN users u ON c.user_id = u.id
		LEFT JOIN comments pc ON c.parent_id = pc.id
		LEFT JOIN users pu ON pc.user_id = pu.id
		WHERE c.article_id = ?
		ORDER BY c.created_at ASC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		var createdAt string
		var parentID sql.NullInt64
		if err := rows.Scan(
			&c.ID, &c.Content, &c.ArticleID, &c.UserID, &parentID, &createdAt,
			&c.Username, &c.ParentUsername,
		); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		if parentID.Valid {
			c.ParentID = &parentID.Int64
		}
		c.CreatedAt = parseTime(createdAt)
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
