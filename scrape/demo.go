package scrape

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Demo data stands in when TikTok blocks live scraping. The shapes
// mirror real creator accounts closely enough to exercise every
// analytics path: a wide view distribution, engagement ratios in the
// observed 5–20% like band, and timestamps spread over the last 90
// days.

var demoCaptions = []string{
	"POV: when Monday hits different #relatable #fyp",
	"Wait for it... #surprise #viral",
	"Trying this trend for the first time #trending #foryou",
	"This took me 3 hours to make #creative #art",
	"I can't believe this actually worked #hack #lifehack",
	"The ending though #plottwist #comedy",
	"Day in my life #vlog #dayinmylife #routine",
	"This sound is everything #music #dance",
	"Rate my fit 1-10 #fashion #ootd #style",
	"New recipe alert #cooking #foodtok #recipe",
}

var demoHashtags = []string{
	"fyp,foryou,viral",
	"trending,foryoupage,tiktok",
	"comedy,funny,humor",
	"dance,music,choreography",
	"lifestyle,vlog,dayinmylife",
	"food,recipe,cooking",
}

var demoViewMultipliers = []float64{0.1, 0.2, 0.3, 0.5, 0.5, 0.8, 1.0, 1.5, 3.0, 10.0}

// DemoVideos generates count sample videos for a blocked creator.
func DemoVideos(count int) []Video {
	baseViews := 500_000 + rand.IntN(49_500_000)
	now := time.Now()

	videos := make([]Video, 0, count)
	for range count {
		mult := demoViewMultipliers[rand.IntN(len(demoViewMultipliers))]
		views := int(float64(baseViews) * mult * (0.5 + rand.Float64()))
		postedAt := now.
			Add(-time.Duration(1+rand.IntN(90)) * 24 * time.Hour).
			Add(-time.Duration(rand.IntN(24)) * time.Hour)

		videos = append(videos, Video{
			VideoID:  fmt.Sprintf("%d", 7_000_000_000_000_000_000+rand.Int64N(400_000_000_000_000_000)),
			Caption:  demoCaptions[rand.IntN(len(demoCaptions))],
			Hashtags: demoHashtags[rand.IntN(len(demoHashtags))],
			Views:    views,
			Likes:    int(float64(views) * (0.05 + rand.Float64()*0.15)),
			Comments: int(float64(views) * (0.005 + rand.Float64()*0.025)),
			Shares:   int(float64(views) * (0.002 + rand.Float64()*0.013)),
			Duration: 7 + rand.Float64()*173,
			PostedAt: postedAt.UnixMilli(),
		})
	}
	return videos
}

// DemoVideoCount picks a plausible batch size for a demo scrape.
func DemoVideoCount() int {
	return 20 + rand.IntN(11)
}

// DemoFollowerCount picks a plausible follower count for a creator
// whose profile could not be scraped.
func DemoFollowerCount() int {
	return 500_000 + rand.IntN(19_500_000)
}
