// Package analytics is the aggregation engine behind the stats, patterns,
// top-videos and compare endpoints. It turns an immutable snapshot of
// creator and video records into derived, serializable result structures.
//
// Every function here is a pure computation over its input: no I/O, no
// locks, no cross-call state. Concurrent invocations are safe by
// construction, so a comparison batch can fan out per creator if a caller
// wants to.
//
// Input hygiene is handled at this boundary: negative counts are clamped
// to zero and videos without a parsable timestamp are excluded from
// time bucketing but never abort a computation. Malformed input degrades
// a result, it does not raise.
package analytics

import (
	"context"
	"errors"
	"math"
	"time"
)

// ErrUnknownCreator is returned by a Source when a requested creator id
// does not exist. Compare treats it as a skip, not a failure.
var ErrUnknownCreator = errors.New("analytics: unknown creator")

// Creator is the identity snapshot the engine works from.
type Creator struct {
	ID            string `json:"id"`
	Handle        string `json:"username"`
	Niche         string `json:"niche,omitempty"`
	FollowerCount int    `json:"follower_count"`
}

// Video is a single posted video in a creator's snapshot. PostedAt is unix
// milliseconds; zero means the scrape produced no parsable timestamp.
type Video struct {
	VideoID  string  `json:"video_id"`
	Caption  string  `json:"caption"`
	Hashtags string  `json:"hashtags,omitempty"`
	Views    int     `json:"views"`
	Likes    int     `json:"likes"`
	Comments int     `json:"comments"`
	Shares   int     `json:"shares"`
	Duration float64 `json:"duration,omitempty"`
	PostedAt int64   `json:"posted_at,omitempty"`
}

// Snapshot pairs a creator with the full set of videos it owns at one
// point in time.
type Snapshot struct {
	Creator Creator
	Videos  []Video
}

// Source resolves a creator id to its snapshot. The store implements this;
// tests substitute fakes. Implementations must return ErrUnknownCreator
// (possibly wrapped) for ids that do not exist, and reserve other errors
// for hard failures such as the storage layer being unreachable.
type Source interface {
	CreatorSnapshot(ctx context.Context, id string) (*Snapshot, error)
}

// Rate computes the engagement rate of one video as a percentage:
// (likes + comments) / views * 100, rounded to two decimals. A video with
// zero views rates 0 rather than dividing by zero, and negative counts
// are clamped so the result is never negative or non-finite.
func Rate(v Video) float64 {
	views := clamp(v.Views)
	if views == 0 {
		return 0
	}
	likes := clamp(v.Likes)
	comments := clamp(v.Comments)
	return round2(float64(likes+comments) / float64(views) * 100)
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// mean returns the arithmetic mean of rates, 0 for an empty slice.
func mean(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rates {
		sum += r
	}
	return sum / float64(len(rates))
}

// validPostedAt reports whether the video carries a usable timestamp.
func validPostedAt(v Video) bool {
	return v.PostedAt > 0
}

// spanDays returns the whole days between the earliest and latest
// timestamp, floored at 1 so a same-day burst never inflates a
// per-day frequency.
func spanDays(earliest, latest int64) int {
	days := int(time.UnixMilli(latest).Sub(time.UnixMilli(earliest)).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
