package store

import (
	"context"
	"time"
)

// InsertScrapeLog records one acquisition attempt. The generated ID is
// written back into e.
func (s *Store) InsertScrapeLog(ctx context.Context, e *ScrapeLogEntry) error {
	if e.ID == "" {
		e.ID = "scr_" + s.newID()
	}
	if e.ScrapedAt == 0 {
		e.ScrapedAt = time.Now().UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO scrape_log (id, creator_id, handle, status, videos_found,
		videos_upserted, videos_skipped, demo_data, error_message, duration_ms, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatorID, e.Handle, e.Status, e.VideosFound,
		e.VideosUpsert, e.VideosSkipped, e.DemoData, e.ErrorMessage, e.DurationMS, e.ScrapedAt,
	)
	return err
}

// ScrapeHistory returns the most recent scrape attempts for a creator,
// newest first.
func (s *Store) ScrapeHistory(ctx context.Context, creatorID string, limit int) ([]*ScrapeLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, creator_id, handle, status, videos_found, videos_upserted,
		videos_skipped, demo_data, error_message, duration_ms, scraped_at
		FROM scrape_log WHERE creator_id = ?
		ORDER BY scraped_at DESC LIMIT ?`, creatorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*ScrapeLogEntry
	for rows.Next() {
		var e ScrapeLogEntry
		if err := rows.Scan(&e.ID, &e.CreatorID, &e.Handle, &e.Status, &e.VideosFound,
			&e.VideosUpsert, &e.VideosSkipped, &e.DemoData, &e.ErrorMessage,
			&e.DurationMS, &e.ScrapedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
