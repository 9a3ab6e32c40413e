package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/wrenfold/creatorscope/api"
	"github.com/wrenfold/creatorscope/dbopen"
	"github.com/wrenfold/creatorscope/guard"
	"github.com/wrenfold/creatorscope/scrape"
	"github.com/wrenfold/creatorscope/store"
)

const version = "0.3.0"

func main() {
	cfg := loadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := dbopen.Open(cfg.DBPath, dbopen.WithMkdirAll(), dbopen.WithSchema(store.Schema))
	if err != nil {
		slog.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	st := store.New(db)

	scrapeOpts := []scrape.Option{
		scrape.WithTimeout(cfg.Scrape.Timeout),
		scrape.WithProfileDelay(cfg.Scrape.ProfileDelay),
	}
	if cfg.Scrape.BrowserFallback {
		scrapeOpts = append(scrapeOpts, scrape.WithBrowserFallback())
	}
	// Proxy option last: it configures the browser too when one is set.
	if cfg.Scrape.Proxy != "" {
		scrapeOpts = append(scrapeOpts, scrape.WithProxy(cfg.Scrape.Proxy))
	}
	scraper, err := scrape.New(scrapeOpts...)
	if err != nil {
		slog.Error("init scraper", "error", err)
		os.Exit(1)
	}
	defer scraper.Close()

	svc := api.New(st, scraper, *cfg, logger)

	limiter := guard.NewRateLimiter(guard.Limit{Requests: 120, Window: time.Minute}, "/health")
	limiter.StartGC(ctx.Done())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(guard.SecurityHeaders(guard.DefaultHeaders()))
	r.Use(guard.MaxJSONBody(1 << 20))
	r.Use(limiter.Middleware)
	svc.RegisterHTTP(r)

	// MCP_TRANSPORT=stdio turns the process into an MCP server instead
	// of (not alongside) the HTTP API.
	if os.Getenv("MCP_TRANSPORT") == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "creatorscope",
			Version: version,
		}, nil)
		svc.RegisterMCP(mcpSrv)
		slog.Info("mcp server starting", "transport", "stdio")
		if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			slog.Error("mcp server", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr, "db", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// loadConfig reads CONFIG (YAML path) if set, then lets individual
// environment variables override the file.
func loadConfig() *api.Config {
	cfg := &api.Config{}
	// Demo fallback defaults on so a fresh install has data to chart; a
	// config file or DEMO_FALLBACK=0 turns it off.
	cfg.Scrape.DemoFallback = true
	if path := os.Getenv("CONFIG"); path != "" {
		loaded, err := api.LoadConfigFile(path)
		if err != nil {
			slog.Error("load config", "path", path, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SCRAPE_PROXY"); v != "" {
		cfg.Scrape.Proxy = v
	}
	if os.Getenv("BROWSER_FALLBACK") == "1" {
		cfg.Scrape.BrowserFallback = true
	}
	if v, ok := os.LookupEnv("DEMO_FALLBACK"); ok {
		cfg.Scrape.DemoFallback = v != "0"
	}

	cfg.Defaults()
	return cfg
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
