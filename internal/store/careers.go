// ABOUTME: Career timeline persistence for the SQLite store
// ABOUTME: Save doubles as insert-or-update keyed on the entry ID

package store

import (
	"context"
	"fmt"
)

const careerColumns = `id, start_date, end_date, is_current, period, company, position, description, tags`

// ListCareers returns all career entries, most recent start date first.
func (s *SQLiteStore) ListCareers(ctx context.Context) ([]*Career, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM careers ORDER BY start_date DESC", careerColumns))
	if err != nil {
		return nil, fmt.Errorf("listing careers: %w", err)
	}
	defer rows.Close()

	var careers []*Career
	for rows.Next() {
		var c Career
		if err := rows.Scan(
			&c.ID, &c.StartDate, &c.EndDate, &c.IsCurrent,
			&c.Period, &c.Company, &c.Position, &c.Description, &c.Tags,
		); err != nil {
			return nil, fmt.Errorf("scanning career: %w", err)
		}
		careers = append(careers, &c)
	}
	return careers, rows.Err()
}

// SaveCareer inserts a new entry when ID is zero, otherwise updates in place.
func (s *SQLiteStore) SaveCareer(ctx context.Context, c *Career) error {
	if c.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO careers (start_date, end_date, is_current, period, company, position, description, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, c.StartDate, c.EndDate, c.IsCurrent, c.Period, c.Company, c.Position, c.Description, c.Tags)
		if err != nil {
			return fmt.Errorf("inserting career: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading career id: %w", err)
		}
		c.ID = id
		return nil
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE careers
		SET start_date = ?, end_date = ?, is_current = ?, period = ?, company = ?, position = ?, description = ?, tags = ?
		WHERE id = ?
	`, c.StartDate, c.EndDate, c.IsCurrent, c.Period, c.Company, c.Position, c.Description, c.Tags, c.ID)
	if err != nil {
		return fmt.Errorf("updating career: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteCareer removes a career entry.
func (s *SQLiteStore) DeleteCareer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM careers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting career: %w", err)
	}
	return requireRowAffected(res)
}

// CountCareers returns the number of career entries. Used by demo seeding.
func (s *SQLiteStore) CountCareers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM careers").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting careers: %w", err)
	}
	return count, nil
}
