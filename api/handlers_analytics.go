package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wrenfold/creatorscope/analytics"
	"github.com/wrenfold/creatorscope/store"
)

// snapshotOr404 loads a creator snapshot, converting an unknown id to a
// 404 so every analytics handler reports missing creators the same way.
func (s *Service) snapshotOr404(w http.ResponseWriter, r *http.Request, id string) (*analytics.Snapshot, bool) {
	snap, err := s.store.CreatorSnapshot(r.Context(), id)
	if errors.Is(err, analytics.ErrUnknownCreator) || errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "creator not found")
		return nil, false
	}
	if err != nil {
		s.logger.Error("load snapshot", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return snap, true
}

// handleStats returns per-creator engagement totals.
// GET /api/creators/{id}/stats, GET /api/analytics/stats/{id}
func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotOr404(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(snap.Creator, snap.Videos))
}

// handlePatterns returns hour-of-day and day-of-week posting patterns.
// GET /api/creators/{id}/patterns, GET /api/analytics/patterns/{id}
func (s *Service) handlePatterns(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotOr404(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Patterns(snap.Videos))
}

// handleTopVideos returns the creator's videos ranked by engagement rate.
// An optional ?limit=N overrides the configured result size.
// GET /api/creators/{id}/top-videos, GET /api/analytics/performance/{id}
func (s *Service) handleTopVideos(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotOr404(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	limit := s.cfg.Analytics.TopVideos
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username":   snap.Creator.Handle,
		"top_videos": analytics.TopVideos(snap.Videos, limit),
	})
}

// handleCompare runs a multi-creator comparison plus derived insights.
// GET /api/analytics/compare?creator_ids=a,b,c
func (s *Service) handleCompare(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("creator_ids")
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "creator_ids is required, e.g. ?creator_ids=cr_a,cr_b")
		return
	}

	result, err := analytics.Compare(r.Context(), s.store, ids)
	if err != nil {
		s.logger.Error("compare", "ids", ids, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"creators": result.Creators,
		"skipped":  result.Skipped,
		"insights": analytics.Insights(result),
	})
}
