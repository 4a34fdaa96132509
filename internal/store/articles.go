// ABOUTME: Article persistence for the SQLite store
// ABOUTME: Articles hold markdown source; rendering happens at the HTTP layer

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const articleColumns = `id, title, summary, content, category, cover_url, view_count, like_count, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (*Article, error) {
	var a Article
	var createdAt, updatedAt string
	err := row.Scan(
		&a.ID, &a.Title, &a.Summary, &a.Content, &a.Category, &a.CoverURL,
		&a.ViewCount, &a.LikeCount, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return &a, nil
}

// ListArticles returns all articles, newest first.
func (s *SQLiteStore) ListArticles(ctx context.Context) ([]*Article, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM articles ORDER BY created_at DESC", articleColumns))
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var articles []*Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetArticle returns a single article, or ErrNotFound.
func (s *SQLiteStore) GetArticle(ctx context.Context, id int64) (*Article, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM articles WHERE id = ?", articleColumns), id)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying article: %w", err)
	}
	return a, nil
}

// CreateArticle inserts a new article and fills in its assigned ID.
func (s *SQLiteStore) CreateArticle(ctx context.Context, a *Article) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (title, summary, content, category, cover_url, view_count, like_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Title, a.Summary, a.Content, a.Category, a.CoverURL,
		a.ViewCount, a.LikeCount, formatTime(a.CreatedAt), formatTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading article id: %w", err)
	}
	a.ID = id
	return nil
}

// UpdateArticle updates the editable fields and bumps updated_at.
func (s *SQLiteStore) UpdateArticle(ctx context.Context, a *Article) error {
	a.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE articles
		SET title = ?, summary = ?, content = ?, category = ?, cover_url = ?, updated_at = ?
		WHERE id = ?
	`, a.Title, a.Summary, a.Content, a.Category, a.CoverURL, formatTime(a.UpdatedAt), a.ID)
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteArticle removes an article, its comments, and its like records.
func (s *SQLiteStore) DeleteArticle(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE article_id = ?", id); err != nil {
		return fmt.Errorf("deleting article comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM likes WHERE resource_type = ? AND resource_id = ?", ResourceArticle, id); err != nil {
		return fmt.Errorf("deleting article likes: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	if err := requireRowAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}
