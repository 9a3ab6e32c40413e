package store

// Creator is a tracked creator row. Timestamps are unix milliseconds.
type Creator struct {
	ID            string `json:"id"`
	Handle        string `json:"username"`
	Niche         string `json:"niche"`
	FollowerCount int    `json:"follower_count"`
	CreatedAt     int64  `json:"created_at"`
}

// VideoUpsert is one scraped video heading into the upsert batch.
// PostedAt is unix milliseconds, 0 = unknown.
type VideoUpsert struct {
	VideoID  string
	Caption  string
	Hashtags string
	Views    int
	Likes    int
	Comments int
	Shares   int
	Duration float64
	PostedAt int64
}

// UpsertResult reports what a video batch did.
type UpsertResult struct {
	Upserted int // rows inserted or updated
	Skipped  int // entries dropped for missing video_id
}

// ScrapeLogEntry is one acquisition attempt.
type ScrapeLogEntry struct {
	ID            string `json:"id"`
	CreatorID     string `json:"creator_id,omitempty"`
	Handle        string `json:"username"`
	Status        string `json:"status"` // "ok", "demo", "error"
	VideosFound   int    `json:"videos_found"`
	VideosUpsert  int    `json:"videos_upserted"`
	VideosSkipped int    `json:"videos_skipped"`
	DemoData      bool   `json:"demo_data"`
	ErrorMessage  string `json:"error_message,omitempty"`
	DurationMS    int64  `json:"duration_ms"`
	ScrapedAt     int64  `json:"scraped_at"`
}
