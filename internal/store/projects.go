// ABOUTME: Project persistence for the SQLite store
// ABOUTME: List/search/get/save plus view counting; like counts live on the row

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const projectColumns = `id, title, description, category, cover_url, media_url, media_type, attachment_url, view_count, like_count, created_at`

func scanProject(row interface{ Scan(...any) error }) (*Project, error) {
	var p Project
	var createdAt string
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.CoverURL,
		&p.MediaURL, &p.MediaType, &p.AttachmentURL,
		&p.ViewCount, &p.LikeCount, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// ListProjects returns all projects, newest first, or by like count when
// sortByLikes is set.
func (s *SQLiteStore) ListProjects(ctx context.Context, sortByLikes bool) ([]*Project, error) {
	order := "created_at DESC"
	if sortByLikes {
		order = "like_count DESC"
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM projects ORDER BY %s", projectColumns, order))
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

// SearchProjects matches the keyword against title and description,
// case-insensitively.
func (s *SQLiteStore) SearchProjects(ctx context.Context, keyword string) ([]*Project, error) {
	pattern := "%" + keyword + "%"
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM projects
		WHERE title LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE
		ORDER BY created_at DESC
	`, projectColumns), pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching projects: %w", err)
	}
	defer rows.Close()

	return collectProjects(rows)
}

func collectProjects(rows *sql.Rows) ([]*Project, error) {
	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns a single project, or ErrNotFound.
func (s *SQLiteStore) GetProject(ctx context.Context, id int64) (*Project, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM projects WHERE id = ?", projectColumns), id)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying project: %w", err)
	}
	return p, nil
}

// CreateProject inserts a new project and fills in its assigned ID.
func (s *SQLiteStore) CreateProject(ctx context.Context, p *Project) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (title, description, category, cover_url, media_url, media_type, attachment_url, view_count, like_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Title, p.Description, p.Category, p.CoverURL, p.MediaURL, p.MediaType,
		p.AttachmentURL, p.ViewCount, p.LikeCount, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}
	p.ID = id
	return nil
}

// UpdateProject updates the editable fields of an existing project.
// Counters are not touched here; they belong to the toggle and view paths.
func (s *SQLiteStore) UpdateProject(ctx context.Context, p *Project) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, description = ?, category = ?, cover_url = ?, media_url = ?, media_type = ?, attachment_url = ?
		WHERE id = ?
	`, p.Title, p.Description, p.Category, p.CoverURL, p.MediaURL, p.MediaType, p.AttachmentURL, p.ID)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteProject removes a project and its like records.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM likes WHERE resource_type = ? AND resource_id = ?", ResourceProject, id); err != nil {
		return fmt.Errorf("deleting project likes: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if err := requireRowAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// IncrementProjectViews bumps the view counter by one.
func (s *SQLiteStore) IncrementProjectViews(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE projects SET view_count = view_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("incrementing project views: %w", err)
	}
	return requireRowAffected(res)
}

// requireRowAffected converts a zero-row update into ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
