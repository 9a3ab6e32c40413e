package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wrenfold/creatorscope/scrape"
	"github.com/wrenfold/creatorscope/store"
)

type trackRequest struct {
	Username string `json:"username"`
	Niche    string `json:"niche"`
}

// handleTrackCreator starts tracking a creator: validate, create, scrape.
// POST /api/creators
func (s *Service) handleTrackCreator(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	handle := normalizeHandle(req.Username)
	if !store.ValidHandle(handle) {
		writeError(w, http.StatusBadRequest,
			"invalid username: use only letters, numbers, underscores, and dots (max 30 chars)")
		return
	}

	ctx := r.Context()
	creator := &store.Creator{Handle: handle, Niche: strings.TrimSpace(req.Niche)}
	err := s.store.InsertCreator(ctx, creator)
	if errors.Is(err, store.ErrDuplicateHandle) {
		writeError(w, http.StatusConflict, fmt.Sprintf("creator @%s is already being tracked", handle))
		return
	}
	if err != nil {
		s.logger.Error("insert creator", "handle", handle, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	outcome := s.scrapeAndStore(ctx, creator)

	var msg string
	switch {
	case outcome.DemoData:
		msg = fmt.Sprintf("creator added with sample data (%d demo videos); live scraping was blocked", outcome.Upserted)
	case outcome.Upserted > 0:
		msg = fmt.Sprintf("creator added and %d videos scraped", outcome.Upserted)
	default:
		msg = "creator added; no video data available"
	}

	fresh, err := s.store.GetCreator(ctx, creator.ID)
	if err != nil {
		fresh = creator
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":             fresh.ID,
		"username":       fresh.Handle,
		"follower_count": fresh.FollowerCount,
		"total_videos":   outcome.Upserted,
		"demo_data":      outcome.DemoData,
		"message":        msg,
	})
}

// handleListCreators lists all tracked creators.
// GET /api/creators
func (s *Service) handleListCreators(w http.ResponseWriter, r *http.Request) {
	creators, err := s.store.ListCreators(r.Context())
	if err != nil {
		s.logger.Error("list creators", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if creators == nil {
		creators = []*store.Creator{}
	}
	writeJSON(w, http.StatusOK, creators)
}

// handleGetCreator returns a creator with its stored videos.
// GET /api/creators/{id}
func (s *Service) handleGetCreator(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, ok := s.snapshotOr404(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"creator": snap.Creator,
		"videos":  snap.Videos,
	})
}

// handleUpdateCreator updates a creator's niche.
// PATCH /api/creators/{id}
func (s *Service) handleUpdateCreator(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Niche string `json:"niche"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.store.UpdateNiche(r.Context(), id, strings.TrimSpace(req.Niche))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "creator not found")
		return
	}
	if err != nil {
		s.logger.Error("update niche", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": id})
}

// handleDeleteCreator removes a creator and all its videos.
// DELETE /api/creators/{id}
func (s *Service) handleDeleteCreator(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.DeleteCreator(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "creator not found")
		return
	}
	if err != nil {
		s.logger.Error("delete creator", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScrape re-scrapes an already-tracked creator (tracks it first if
// needed) and refreshes stored videos.
// POST /api/scrape/{handle}
func (s *Service) handleScrape(w http.ResponseWriter, r *http.Request) {
	handle := normalizeHandle(chi.URLParam(r, "handle"))
	if !store.ValidHandle(handle) {
		writeError(w, http.StatusBadRequest, "invalid username")
		return
	}

	ctx := r.Context()
	creator, err := s.store.GetCreatorByHandle(ctx, handle)
	if errors.Is(err, store.ErrNotFound) {
		creator = &store.Creator{Handle: handle}
		if err := s.store.InsertCreator(ctx, creator); err != nil {
			s.logger.Error("insert creator", "handle", handle, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	} else if err != nil {
		s.logger.Error("get creator", "handle", handle, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	outcome := s.scrapeAndStore(ctx, creator)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"username":       handle,
		"videos_scraped": outcome.Upserted,
		"demo_data":      outcome.DemoData,
	})
}

// handleScrapeHistory returns recent acquisition attempts for a creator.
// GET /api/creators/{id}/history
func (s *Service) handleScrapeHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetCreator(r.Context(), id); errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "creator not found")
		return
	}
	entries, err := s.store.ScrapeHistory(r.Context(), id, 20)
	if err != nil {
		s.logger.Error("scrape history", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []*store.ScrapeLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// scrapeOutcome summarizes one acquisition pass for response building.
type scrapeOutcome struct {
	Upserted int
	DemoData bool
}

// scrapeAndStore runs one acquisition pass for a creator: scrape, fall
// back to demo data when blocked (if configured), upsert videos, update
// the follower snapshot, and log the attempt. Scrape failures degrade
// the response, they never fail the request.
func (s *Service) scrapeAndStore(ctx context.Context, creator *store.Creator) scrapeOutcome {
	start := time.Now()
	entry := &store.ScrapeLogEntry{CreatorID: creator.ID, Handle: creator.Handle}

	var videos []scrape.Video
	result, err := s.scraper.FetchCreator(ctx, creator.Handle)
	if err != nil {
		s.logger.Warn("scrape failed", "handle", creator.Handle, "error", err)
		entry.Status = "error"
		entry.ErrorMessage = err.Error()
	} else {
		entry.VideosFound = len(result.Videos)
		// Anti-bot walls sometimes serve all-zero dummy stats; treat
		// those like an empty scrape.
		for _, v := range result.Videos {
			if v.Views > 0 || v.Likes > 0 {
				videos = append(videos, v)
			}
		}
		if result.Profile.FollowerCount > 1000 {
			if err := s.store.UpdateFollowerCount(ctx, creator.ID, result.Profile.FollowerCount); err != nil {
				s.logger.Error("update followers", "id", creator.ID, "error", err)
			}
		}
		entry.Status = "ok"
	}

	if len(videos) == 0 && s.cfg.Scrape.DemoFallback {
		s.logger.Info("falling back to demo data", "handle", creator.Handle)
		videos = scrape.DemoVideos(scrape.DemoVideoCount())
		entry.Status = "demo"
		entry.DemoData = true
		if creator.FollowerCount < 1000 {
			if err := s.store.UpdateFollowerCount(ctx, creator.ID, scrape.DemoFollowerCount()); err != nil {
				s.logger.Error("update followers", "id", creator.ID, "error", err)
			}
		}
	}

	if max := s.cfg.Scrape.MaxVideos; len(videos) > max {
		videos = videos[:max]
	}

	var outcome scrapeOutcome
	outcome.DemoData = entry.DemoData
	if len(videos) > 0 {
		batch := make([]store.VideoUpsert, 0, len(videos))
		for _, v := range videos {
			batch = append(batch, store.VideoUpsert{
				VideoID:  v.VideoID,
				Caption:  v.Caption,
				Hashtags: v.Hashtags,
				Views:    v.Views,
				Likes:    v.Likes,
				Comments: v.Comments,
				Shares:   v.Shares,
				Duration: v.Duration,
				PostedAt: v.PostedAt,
			})
		}
		res, err := s.store.UpsertVideos(ctx, creator.ID, batch)
		if err != nil {
			s.logger.Error("upsert videos", "id", creator.ID, "error", err)
			entry.Status = "error"
			entry.ErrorMessage = err.Error()
		} else {
			outcome.Upserted = res.Upserted
			entry.VideosUpsert = res.Upserted
			entry.VideosSkipped = res.Skipped
		}
	}

	entry.DurationMS = time.Since(start).Milliseconds()
	if err := s.store.InsertScrapeLog(ctx, entry); err != nil {
		s.logger.Error("scrape log", "id", creator.ID, "error", err)
	}
	return outcome
}
