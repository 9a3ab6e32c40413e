package analytics

import "fmt"

// Insight is one superlative fact derived from a comparison: which
// creator wins a category, with a short supporting detail. Insights are
// computed on demand and never persisted.
type Insight struct {
	Icon   string `json:"icon"`
	Label  string `json:"label"`
	Handle string `json:"username"`
	Detail string `json:"detail"`
}

// Insights derives the superlative facts from a comparison result:
// largest audience, highest engagement, most viewed, and, only when
// someone actually posts, most active. Fewer than two rows yields an
// empty set; a single creator has nothing to win against.
//
// Ties go to the first row in comparison order, which is the caller's
// requested order, so results are deterministic.
func Insights(result ComparisonResult) []Insight {
	rows := result.Creators
	if len(rows) < 2 {
		return nil
	}

	audience := maxBy(rows, func(c CreatorComparison) float64 { return float64(c.FollowerCount) })
	engagement := maxBy(rows, func(c CreatorComparison) float64 { return c.AvgEngagementRate })
	viewed := maxBy(rows, func(c CreatorComparison) float64 { return float64(c.AvgViews) })

	insights := []Insight{
		{
			Icon:   "👥",
			Label:  "Largest Audience",
			Handle: audience.Handle,
			Detail: fmt.Sprintf("%s followers", formatCount(audience.FollowerCount)),
		},
		{
			Icon:   "🔥",
			Label:  "Highest Engagement",
			Handle: engagement.Handle,
			Detail: fmt.Sprintf("%.2f%% average engagement", engagement.AvgEngagementRate),
		},
		{
			Icon:   "📈",
			Label:  "Most Viewed",
			Handle: viewed.Handle,
			Detail: fmt.Sprintf("%s average views per video", formatCount(viewed.AvgViews)),
		},
	}

	// An all-zero-frequency set omits Most Active entirely: naming an
	// arbitrary "most active" creator with zero posts is worse than
	// saying nothing.
	active := maxBy(rows, func(c CreatorComparison) float64 { return c.PostingFrequency })
	if active.PostingFrequency > 0 {
		insights = append(insights, Insight{
			Icon:   "⚡",
			Label:  "Most Active",
			Handle: active.Handle,
			Detail: fmt.Sprintf("%.2f posts per day", active.PostingFrequency),
		})
	}
	return insights
}

// maxBy returns the first row with the maximum key value.
func maxBy(rows []CreatorComparison, key func(CreatorComparison) float64) CreatorComparison {
	best := rows[0]
	for _, r := range rows[1:] {
		if key(r) > key(best) {
			best = r
		}
	}
	return best
}

// formatCount renders 1234567 as "1.2M" for insight details.
func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
