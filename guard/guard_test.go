package guard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(DefaultHeaders())(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/creators", nil))

	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s: got %q, want %q", header, got, want)
		}
	}
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(Limit{Requests: 3, Window: time.Minute})
	h := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/creators", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/creators", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over limit: got %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 should carry Retry-After")
	}

	// A different IP has its own window.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/creators", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other ip: got %d, want 200", rec.Code)
	}
}

func TestRateLimiterConcurrentSameIP(t *testing.T) {
	const limit, requests = 10, 50
	rl := NewRateLimiter(Limit{Requests: limit, Window: time.Minute})
	h := rl.Middleware(okHandler())

	var wg sync.WaitGroup
	var allowed atomic.Int32
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/creators", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			h.ServeHTTP(rec, req)
			if rec.Code == http.StatusOK {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := int(allowed.Load()); got != limit {
		t.Fatalf("allowed: got %d, want exactly %d", got, limit)
	}
}

func TestRateLimiterExcludesPrefixes(t *testing.T) {
	rl := NewRateLimiter(Limit{Requests: 1, Window: time.Minute}, "/health")
	h := rl.Middleware(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("health probe %d: got %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(Limit{Requests: 0})
	h := rl.Middleware(okHandler())
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/creators", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("disabled limiter blocked request %d", i+1)
		}
	}
}

func TestExtractIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.7:5000"
	if got := ExtractIP(req); got != "192.0.2.7" {
		t.Errorf("remote addr: got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 192.0.2.7")
	if got := ExtractIP(req); got != "203.0.113.9" {
		t.Errorf("xff: got %q", got)
	}
}

func TestMaxJSONBody(t *testing.T) {
	h := MaxJSONBody(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		if _, err := r.Body.Read(buf); err != nil && !strings.Contains(err.Error(), "EOF") {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/creators", strings.NewReader(`{"username":"x"}`)))
	if rec.Code != http.StatusOK {
		t.Errorf("small body: got %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/creators", strings.NewReader(strings.Repeat("a", 100))))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body: got %d, want 413", rec.Code)
	}
}
