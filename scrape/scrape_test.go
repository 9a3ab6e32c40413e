package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const profileFixture = `<!DOCTYPE html><html><head><title>@cookwithlena</title></head><body>
<script id="__UNIVERSAL_DATA_FOR_REHYDRATION__" type="application/json">{
  "__DEFAULT_SCOPE__": {
    "webapp.user-detail": {
      "userInfo": {
        "user": {"id": "42", "uniqueId": "cookwithlena", "nickname": "Lena", "signature": "recipes daily", "verified": true},
        "stats": {"followerCount": 250000, "followingCount": 12, "heartCount": 4800000, "videoCount": 310}
      }
    },
    "webapp.user-post": {
      "itemList": [
        {"id": "7301", "desc": "pasta night #cooking", "createTime": 1717200000,
         "stats": {"playCount": 90000, "diggCount": 8000, "commentCount": 300, "shareCount": 120},
         "video": {"duration": 34.5},
         "textExtra": [{"hashtagName": "cooking"}, {"hashtagName": "foodtok"}]},
        {"id": "", "desc": "malformed, no id"},
        {"id": "7302", "desc": "5 minute dessert",
         "stats": {"playCount": 40000, "likeCount": 3000, "commentCount": 90, "shareCount": 40}}
      ]
    }
  }
}</script></body></html>`

func TestParseProfilePage(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.parseProfilePage([]byte(profileFixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	p := result.Profile
	if p.Handle != "cookwithlena" || p.FollowerCount != 250000 || !p.Verified {
		t.Errorf("profile: %+v", p)
	}

	if len(result.Videos) != 2 {
		t.Fatalf("videos: got %d, want 2 (malformed item dropped)", len(result.Videos))
	}
	v := result.Videos[0]
	if v.VideoID != "7301" || v.Views != 90000 || v.Likes != 8000 {
		t.Errorf("video: %+v", v)
	}
	if v.Hashtags != "cooking,foodtok" {
		t.Errorf("hashtags: %q", v.Hashtags)
	}
	if v.PostedAt != 1717200000*1000 {
		t.Errorf("posted_at: %d", v.PostedAt)
	}
	// likeCount stands in when diggCount is absent.
	if result.Videos[1].Likes != 3000 {
		t.Errorf("likeCount fallback: %+v", result.Videos[1])
	}
}

func TestParseProfilePageErrors(t *testing.T) {
	s, _ := New()

	_, err := s.parseProfilePage([]byte("<html>no ssr payload</html>"))
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("missing tag: got %v", err)
	}

	shell := `<script id="__UNIVERSAL_DATA_FOR_REHYDRATION__" type="application/json">{"__DEFAULT_SCOPE__":{"webapp.user-detail":{"userInfo":{"user":{"uniqueId":""}}}}}</script>`
	_, err = s.parseProfilePage([]byte(shell))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("shell page: got %v, want ErrNotFound", err)
	}
}

func TestFetchCreator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/@cookwithlena" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(profileFixture))
	}))
	defer srv.Close()

	s, err := New(WithBaseURL(srv.URL), WithProfileDelay(0), WithTimeout(2*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.FetchCreator(context.Background(), "cookwithlena")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if result.Profile.Handle != "cookwithlena" || len(result.Videos) != 2 {
		t.Errorf("result: %+v", result)
	}

	_, err = s.FetchCreator(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("404: got %v, want ErrNotFound", err)
	}
}

func TestFetchCreatorBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s, _ := New(WithBaseURL(srv.URL), WithProfileDelay(0))
	_, err := s.FetchCreator(context.Background(), "anyone")
	if !errors.Is(err, ErrBlocked) {
		t.Errorf("403: got %v, want ErrBlocked", err)
	}
}

func TestDemoVideos(t *testing.T) {
	videos := DemoVideos(25)
	if len(videos) != 25 {
		t.Fatalf("count: got %d", len(videos))
	}
	cutoff := time.Now().AddDate(0, 0, -92).UnixMilli()
	for i, v := range videos {
		if v.VideoID == "" {
			t.Errorf("video %d: empty id", i)
		}
		if v.Views <= 0 {
			t.Errorf("video %d: views %d", i, v.Views)
		}
		if v.Likes < 0 || v.Likes > v.Views {
			t.Errorf("video %d: likes %d out of band for %d views", i, v.Likes, v.Views)
		}
		if v.PostedAt < cutoff || v.PostedAt > time.Now().UnixMilli() {
			t.Errorf("video %d: posted_at %d outside 90-day window", i, v.PostedAt)
		}
	}
}

func TestDemoBounds(t *testing.T) {
	for range 50 {
		if n := DemoVideoCount(); n < 20 || n > 30 {
			t.Fatalf("demo video count %d outside [20,30]", n)
		}
		if f := DemoFollowerCount(); f < 500_000 || f > 20_000_000 {
			t.Fatalf("demo follower count %d outside band", f)
		}
	}
}
