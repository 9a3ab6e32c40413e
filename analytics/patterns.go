package analytics

import (
	"sort"
	"time"
)

// MinPatternPosts is the number of timestamped posts below which a
// PatternReport is flagged low-confidence. The report is still fully
// computed; hiding it is a presentation decision.
const MinPatternPosts = 5

// HourRate is one hour-of-day bucket with the mean engagement rate of
// the videos posted in that hour.
type HourRate struct {
	Hour int     `json:"hour"`
	Rate float64 `json:"avg_engagement_rate"`
}

// DayRate is one weekday bucket with its mean engagement rate.
type DayRate struct {
	Day  string  `json:"day"`
	Rate float64 `json:"avg_engagement_rate"`
}

// PatternReport describes when a creator's content performs best.
//
// BestHours and BestDays are ordered association lists, not maps:
// consumers depend on the descending-rate order, so the order is part of
// the contract. Buckets with no posts are omitted entirely: a reported
// 0% bucket would be indistinguishable from a genuinely poor one.
type PatternReport struct {
	TotalPosts       int        `json:"total_posts"`
	BestHours        []HourRate `json:"best_hours"`
	BestDays         []DayRate  `json:"best_days"`
	PostingFrequency float64    `json:"posting_frequency"`
	LowConfidence    bool       `json:"low_confidence"`
}

// Patterns buckets a creator's videos by hour-of-day and weekday and
// ranks the buckets by mean engagement rate. Videos without a parsable
// posted_at are excluded from bucketing; TotalPosts counts only the
// videos that were bucketed.
func Patterns(videos []Video) PatternReport {
	var (
		hourRates [24][]float64
		dayRates  [7][]float64
		earliest  int64
		latest    int64
		valid     int
	)

	for _, v := range videos {
		if !validPostedAt(v) {
			continue
		}
		valid++
		rate := Rate(v)
		t := time.UnixMilli(v.PostedAt)
		hourRates[t.Hour()] = append(hourRates[t.Hour()], rate)
		dayRates[t.Weekday()] = append(dayRates[t.Weekday()], rate)

		if earliest == 0 || v.PostedAt < earliest {
			earliest = v.PostedAt
		}
		if v.PostedAt > latest {
			latest = v.PostedAt
		}
	}

	report := PatternReport{
		TotalPosts:    valid,
		LowConfidence: valid < MinPatternPosts,
	}
	if valid == 0 {
		return report
	}

	for h, rates := range hourRates {
		if len(rates) == 0 {
			continue
		}
		report.BestHours = append(report.BestHours, HourRate{Hour: h, Rate: round2(mean(rates))})
	}
	// Descending rate; equal rates keep hour-ascending order from the
	// build loop, so a stable sort is enough for determinism.
	sort.SliceStable(report.BestHours, func(i, j int) bool {
		return report.BestHours[i].Rate > report.BestHours[j].Rate
	})

	for d, rates := range dayRates {
		if len(rates) == 0 {
			continue
		}
		report.BestDays = append(report.BestDays, DayRate{
			Day:  time.Weekday(d).String(),
			Rate: round2(mean(rates)),
		})
	}
	sort.SliceStable(report.BestDays, func(i, j int) bool {
		return report.BestDays[i].Rate > report.BestDays[j].Rate
	})

	report.PostingFrequency = round2(float64(valid) / float64(spanDays(earliest, latest)))
	return report
}
