package scrape

import (
	"encoding/json"
	"strings"
)

// Profile is a creator's public profile as scraped from TikTok.
type Profile struct {
	Handle         string `json:"username"`
	Nickname       string `json:"nickname"`
	Bio            string `json:"bio"`
	FollowerCount  int    `json:"followers"`
	FollowingCount int    `json:"following"`
	LikeCount      int    `json:"likes"`
	VideoCount     int    `json:"video_count"`
	Verified       bool   `json:"verified"`
}

// Video is one scraped video. PostedAt is unix milliseconds, 0 when the
// page carried no timestamp.
type Video struct {
	VideoID  string  `json:"video_id"`
	Caption  string  `json:"caption"`
	Hashtags string  `json:"hashtags"`
	Views    int     `json:"views"`
	Likes    int     `json:"likes"`
	Comments int     `json:"comments"`
	Shares   int     `json:"shares"`
	Duration float64 `json:"duration"`
	PostedAt int64   `json:"posted_at,omitempty"`
}

// Result is one completed scrape of a creator.
type Result struct {
	Profile Profile `json:"profile"`
	Videos  []Video `json:"videos"`
}

// Raw structs matching TikTok's embedded JSON exactly.

// universalData keeps the default scope as raw messages: the profile
// lives under a fixed key, but video item lists show up under varying
// keys depending on what the page preloaded, so every scope gets probed.
type universalData struct {
	DefaultScope map[string]json.RawMessage `json:"__DEFAULT_SCOPE__"`
}

type userDetailScope struct {
	UserInfo rawUserInfo `json:"userInfo"`
}

type rawUserInfo struct {
	User  rawUser      `json:"user"`
	Stats rawUserStats `json:"stats"`
}

type rawUser struct {
	ID        string `json:"id"`
	UniqueID  string `json:"uniqueId"`
	Nickname  string `json:"nickname"`
	Signature string `json:"signature"`
	Verified  bool   `json:"verified"`
}

type rawUserStats struct {
	FollowerCount  int `json:"followerCount"`
	FollowingCount int `json:"followingCount"`
	HeartCount     int `json:"heartCount"`
	VideoCount     int `json:"videoCount"`
}

type itemListScope struct {
	ItemList []rawVideo `json:"itemList"`
}

type rawVideo struct {
	ID         string         `json:"id"`
	Desc       string         `json:"desc"`
	CreateTime int64          `json:"createTime"` // unix seconds
	Stats      rawVideoStats  `json:"stats"`
	VideoMeta  rawVideoMeta   `json:"video"`
	TextExtra  []rawTextExtra `json:"textExtra"`
}

type rawVideoStats struct {
	PlayCount    int `json:"playCount"`
	DiggCount    int `json:"diggCount"`
	LikeCount    int `json:"likeCount"`
	CommentCount int `json:"commentCount"`
	ShareCount   int `json:"shareCount"`
}

type rawVideoMeta struct {
	Duration float64 `json:"duration"`
}

type rawTextExtra struct {
	HashtagName string `json:"hashtagName"`
}

// parseVideo converts a raw TikTok item to a Video. Items without an id
// are unusable and map to the zero value; callers must check VideoID.
func parseVideo(raw rawVideo) Video {
	if raw.ID == "" {
		return Video{}
	}
	likes := raw.Stats.DiggCount
	if likes == 0 {
		likes = raw.Stats.LikeCount
	}
	var postedAt int64
	if raw.CreateTime > 0 {
		postedAt = raw.CreateTime * 1000
	}

	var tags []string
	for _, t := range raw.TextExtra {
		if t.HashtagName != "" {
			tags = append(tags, t.HashtagName)
		}
	}

	return Video{
		VideoID:  raw.ID,
		Caption:  raw.Desc,
		Hashtags: strings.Join(tags, ","),
		Views:    raw.Stats.PlayCount,
		Likes:    likes,
		Comments: raw.Stats.CommentCount,
		Shares:   raw.Stats.ShareCount,
		Duration: raw.VideoMeta.Duration,
		PostedAt: postedAt,
	}
}

func parseProfile(info rawUserInfo) Profile {
	return Profile{
		Handle:         info.User.UniqueID,
		Nickname:       info.User.Nickname,
		Bio:            info.User.Signature,
		FollowerCount:  info.Stats.FollowerCount,
		FollowingCount: info.Stats.FollowingCount,
		LikeCount:      info.Stats.HeartCount,
		VideoCount:     info.Stats.VideoCount,
		Verified:       info.User.Verified,
	}
}
