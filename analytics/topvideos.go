package analytics

import "sort"

// DefaultTopVideos is the ranked-list length used when a caller passes a
// non-positive n.
const DefaultTopVideos = 10

// TopVideoEntry is one ranked video: the raw record plus its computed
// engagement rate. Caption and hashtags pass through unmodified; an
// absent caption stays empty rather than getting a placeholder.
type TopVideoEntry struct {
	Video
	EngagementRate float64 `json:"engagement_rate"`
}

// TopVideos returns the n highest-engagement videos in descending rate
// order. Ties break by higher view count, then by input position, so
// identical snapshots always rank identically. Fewer than n videos
// returns all of them; the result is never padded.
func TopVideos(videos []Video, n int) []TopVideoEntry {
	if n <= 0 {
		n = DefaultTopVideos
	}

	entries := make([]TopVideoEntry, 0, len(videos))
	for _, v := range videos {
		entries = append(entries, TopVideoEntry{Video: v, EngagementRate: Rate(v)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].EngagementRate != entries[j].EngagementRate {
			return entries[i].EngagementRate > entries[j].EngagementRate
		}
		return clamp(entries[i].Views) > clamp(entries[j].Views)
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
