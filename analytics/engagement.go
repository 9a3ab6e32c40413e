package analytics

// Stats is the aggregate engagement summary for one creator.
//
// AvgEngagementRate is the mean of per-video rates, not a rate computed
// from summed totals: a totals-based ratio would let zero-view videos
// skew the denominator without contributing to the numerator.
type Stats struct {
	ID                string    `json:"id"`
	Handle            string    `json:"username"`
	TotalVideos       int       `json:"total_videos"`
	TotalViews        int       `json:"total_views"`
	TotalLikes        int       `json:"total_likes"`
	AvgEngagementRate float64   `json:"avg_engagement_rate"`
	FollowerCount     int       `json:"follower_count"`
	DateRange         DateRange `json:"date_range"`
}

// DateRange bounds the posted_at timestamps present in a snapshot, in
// unix milliseconds. Both fields are zero when no video carries a
// timestamp.
type DateRange struct {
	Earliest int64 `json:"earliest,omitempty"`
	Latest   int64 `json:"latest,omitempty"`
}

// Summarize computes creator-level Stats from a video snapshot. An empty
// snapshot yields all-zero counts and a zero rate; callers must treat
// that as a valid result, not an error.
func Summarize(c Creator, videos []Video) Stats {
	st := Stats{
		ID:            c.ID,
		Handle:        c.Handle,
		FollowerCount: c.FollowerCount,
		TotalVideos:   len(videos),
	}

	rates := make([]float64, 0, len(videos))
	for _, v := range videos {
		st.TotalViews += clamp(v.Views)
		st.TotalLikes += clamp(v.Likes)
		rates = append(rates, Rate(v))

		if !validPostedAt(v) {
			continue
		}
		if st.DateRange.Earliest == 0 || v.PostedAt < st.DateRange.Earliest {
			st.DateRange.Earliest = v.PostedAt
		}
		if v.PostedAt > st.DateRange.Latest {
			st.DateRange.Latest = v.PostedAt
		}
	}
	st.AvgEngagementRate = round2(mean(rates))
	return st
}
