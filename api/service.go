// Package api exposes the tracking and analytics endpoints over HTTP
// (chi) and, optionally, as MCP tools. It glues the acquisition layer
// (scrape), the storage layer (store) and the aggregation engine
// (analytics) together; it computes nothing itself.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wrenfold/creatorscope/scrape"
	"github.com/wrenfold/creatorscope/store"
)

// Fetcher is the slice of scrape.Scraper the service needs. Tests stub it.
type Fetcher interface {
	FetchCreator(ctx context.Context, handle string) (*scrape.Result, error)
}

// Service wires the HTTP and MCP surfaces to the store and scraper.
type Service struct {
	store   *store.Store
	scraper Fetcher
	cfg     Config
	logger  *slog.Logger
}

// New creates the API service.
func New(st *store.Store, scraper Fetcher, cfg Config, logger *slog.Logger) *Service {
	cfg.Defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, scraper: scraper, cfg: cfg, logger: logger}
}

// RegisterHTTP mounts all routes on r.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/creators", s.handleListCreators)
		r.Post("/creators", s.handleTrackCreator)
		r.Route("/creators/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetCreator)
			r.Patch("/", s.handleUpdateCreator)
			r.Delete("/", s.handleDeleteCreator)
			r.Get("/stats", s.handleStats)
			r.Get("/patterns", s.handlePatterns)
			r.Get("/top-videos", s.handleTopVideos)
			r.Get("/history", s.handleScrapeHistory)
		})

		r.Post("/scrape/{handle}", s.handleScrape)

		r.Get("/analytics/compare", s.handleCompare)
		r.Get("/analytics/stats/{id}", s.handleStats)
		r.Get("/analytics/patterns/{id}", s.handlePatterns)
		r.Get("/analytics/performance/{id}", s.handleTopVideos)
	})
}

// normalizeHandle strips whitespace and a leading @.
func normalizeHandle(h string) string {
	return strings.TrimPrefix(strings.TrimSpace(h), "@")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
