package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// InsertCreator adds a new tracked creator. The handle must match
// ^[\w.]{1,30}$; a leading @ is the caller's to strip. The generated ID
// is written back into c.
func (s *Store) InsertCreator(ctx context.Context, c *Creator) error {
	if !ValidHandle(c.Handle) {
		return fmt.Errorf("%w: %q", ErrInvalidHandle, c.Handle)
	}
	if c.ID == "" {
		c.ID = "cr_" + s.newID()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().UnixMilli()
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO creators (id, handle, niche, follower_count, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Handle, c.Niche, c.FollowerCount, c.CreatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %q", ErrDuplicateHandle, c.Handle)
	}
	return err
}

// GetCreator retrieves a creator by ID.
func (s *Store) GetCreator(ctx context.Context, id string) (*Creator, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, handle, niche, follower_count, created_at
		FROM creators WHERE id = ?`, id)
	return scanCreator(row)
}

// GetCreatorByHandle retrieves a creator by handle (case-sensitive).
func (s *Store) GetCreatorByHandle(ctx context.Context, handle string) (*Creator, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT id, handle, niche, follower_count, created_at
		FROM creators WHERE handle = ?`, handle)
	return scanCreator(row)
}

// ListCreators returns all tracked creators, oldest first.
func (s *Store) ListCreators(ctx context.Context) ([]*Creator, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, handle, niche, follower_count, created_at
		FROM creators ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creators []*Creator
	for rows.Next() {
		var c Creator
		if err := rows.Scan(&c.ID, &c.Handle, &c.Niche, &c.FollowerCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		creators = append(creators, &c)
	}
	return creators, rows.Err()
}

// UpdateNiche sets a creator's niche label.
func (s *Store) UpdateNiche(ctx context.Context, id, niche string) error {
	return s.updateOne(ctx, `UPDATE creators SET niche = ? WHERE id = ?`, niche, id)
}

// UpdateFollowerCount records the latest follower snapshot from the
// acquisition layer.
func (s *Store) UpdateFollowerCount(ctx context.Context, id string, count int) error {
	if count < 0 {
		count = 0
	}
	return s.updateOne(ctx, `UPDATE creators SET follower_count = ? WHERE id = ?`, count, id)
}

// DeleteCreator removes a creator; videos cascade via foreign key.
func (s *Store) DeleteCreator(ctx context.Context, id string) error {
	return s.updateOne(ctx, `DELETE FROM creators WHERE id = ?`, id)
}

func (s *Store) updateOne(ctx context.Context, query string, args ...any) error {
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCreator(row *sql.Row) (*Creator, error) {
	var c Creator
	err := row.Scan(&c.ID, &c.Handle, &c.Niche, &c.FollowerCount, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
