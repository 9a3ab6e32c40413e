package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/wrenfold/creatorscope/analytics"
	"github.com/wrenfold/creatorscope/dbopen"
)

// UpsertVideos inserts or refreshes a batch of scraped videos for one
// creator in a single transaction. Existing rows (same creator_id and
// video_id) get their counts replaced; a re-scrape is the only way a
// stored video changes. Entries without a video_id are skipped and
// counted, never fatal.
func (s *Store) UpsertVideos(ctx context.Context, creatorID string, videos []VideoUpsert) (UpsertResult, error) {
	var res UpsertResult
	now := time.Now().UnixMilli()

	err := dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, v := range videos {
			if v.VideoID == "" {
				res.Skipped++
				continue
			}
			var postedAt any
			if v.PostedAt > 0 {
				postedAt = v.PostedAt
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO videos (id, creator_id, video_id, caption, hashtags,
				views, likes, comments, shares, duration, posted_at, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(creator_id, video_id) DO UPDATE SET
					views = excluded.views,
					likes = excluded.likes,
					comments = excluded.comments,
					shares = excluded.shares`,
				"vid_"+s.newID(), creatorID, v.VideoID, v.Caption, v.Hashtags,
				clampCount(v.Views), clampCount(v.Likes), clampCount(v.Comments),
				clampCount(v.Shares), v.Duration, postedAt, now,
			)
			if err != nil {
				return err
			}
			res.Upserted++
		}
		return nil
	})
	if err != nil {
		return UpsertResult{}, err
	}
	return res, nil
}

// VideosByCreator returns the creator's full video snapshot, newest
// posted first, rows without a timestamp last.
func (s *Store) VideosByCreator(ctx context.Context, creatorID string) ([]analytics.Video, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT video_id, caption, hashtags, views, likes, comments, shares, duration, posted_at
		FROM videos WHERE creator_id = ?
		ORDER BY posted_at DESC, video_id ASC`, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var videos []analytics.Video
	for rows.Next() {
		var v analytics.Video
		var postedAt sql.NullInt64
		if err := rows.Scan(&v.VideoID, &v.Caption, &v.Hashtags, &v.Views,
			&v.Likes, &v.Comments, &v.Shares, &v.Duration, &postedAt); err != nil {
			return nil, err
		}
		v.PostedAt = postedAt.Int64
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// CountVideos returns the number of stored videos for a creator.
func (s *Store) CountVideos(ctx context.Context, creatorID string) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM videos WHERE creator_id = ?`, creatorID).Scan(&n)
	return n, err
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
