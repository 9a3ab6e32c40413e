package analytics

import (
	"context"
	"errors"
	"fmt"
)

// CreatorComparison is one creator's row in a side-by-side comparison.
// The integer averages are floored means, matching what the display
// layer renders.
type CreatorComparison struct {
	ID                string  `json:"id"`
	Handle            string  `json:"username"`
	AvgViews          int     `json:"avg_views"`
	AvgLikes          int     `json:"avg_likes"`
	AvgComments       int     `json:"avg_comments"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	TotalVideos       int     `json:"total_videos"`
	PostingFrequency  float64 `json:"posting_frequency"`
	FollowerCount     int     `json:"follower_count"`
}

// ComparisonResult holds one row per resolved creator, in the order the
// caller requested them. The presentation layer assigns colors by
// position, so the order must survive the round trip. Skipped lists the
// requested ids that did not resolve.
type ComparisonResult struct {
	Creators []CreatorComparison `json:"creators"`
	Skipped  []string            `json:"skipped_ids,omitempty"`
}

// Compare builds a ComparisonResult for the requested creator ids.
//
// Unknown ids are skipped and recorded, never fatal: one bad id must not
// sink a whole comparison when the remaining rows are still useful. Any
// other source error aborts: that means the snapshot collaborator
// itself failed, which the caller has to handle. Fewer than two resolved
// creators yields a degenerate (possibly empty) result rather than an
// error.
func Compare(ctx context.Context, src Source, ids []string) (ComparisonResult, error) {
	var result ComparisonResult
	for _, id := range ids {
		snap, err := src.CreatorSnapshot(ctx, id)
		if errors.Is(err, ErrUnknownCreator) {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		if err != nil {
			return ComparisonResult{}, fmt.Errorf("snapshot %s: %w", id, err)
		}
		result.Creators = append(result.Creators, compareOne(snap))
	}
	return result, nil
}

func compareOne(snap *Snapshot) CreatorComparison {
	row := CreatorComparison{
		ID:            snap.Creator.ID,
		Handle:        snap.Creator.Handle,
		FollowerCount: snap.Creator.FollowerCount,
		TotalVideos:   len(snap.Videos),
	}
	if len(snap.Videos) == 0 {
		return row
	}

	var views, likes, comments int
	rates := make([]float64, 0, len(snap.Videos))
	var earliest, latest int64
	dated := 0
	for _, v := range snap.Videos {
		views += clamp(v.Views)
		likes += clamp(v.Likes)
		comments += clamp(v.Comments)
		rates = append(rates, Rate(v))

		if !validPostedAt(v) {
			continue
		}
		dated++
		if earliest == 0 || v.PostedAt < earliest {
			earliest = v.PostedAt
		}
		if v.PostedAt > latest {
			latest = v.PostedAt
		}
	}

	n := len(snap.Videos)
	row.AvgViews = views / n
	row.AvgLikes = likes / n
	row.AvgComments = comments / n
	row.AvgEngagementRate = round2(mean(rates))
	// A frequency needs at least two dated posts to define a span.
	if dated >= 2 {
		row.PostingFrequency = round2(float64(dated) / float64(spanDays(earliest, latest)))
	}
	return row
}
