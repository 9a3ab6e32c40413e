// Package scrape acquires creator profiles and recent videos from
// TikTok's public web pages.
//
// Strategy: plain HTTP first. Profile pages are server-side rendered
// with a __UNIVERSAL_DATA_FOR_REHYDRATION__ JSON blob carrying profile
// stats and, usually, the preloaded video grid. When TikTok serves a
// shell page instead, an optional stealth headless browser renders the
// same URL and the rendered HTML goes through the same parser.
//
// The package produces best-effort snapshots; it is the caller's
// business to decide what a blocked scrape falls back to (see demo.go).
package scrape

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/proxy"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Scraper fetches TikTok profile pages. HTTP for the common case, an
// optional rod browser for pages that only render client-side.
type Scraper struct {
	client    *http.Client
	baseURL   string
	userAgent string

	// Profile fetches are rate limited to roughly one per second so a
	// tracking burst doesn't trip anti-bot heuristics.
	profileDelay time.Duration
	lastProfile  time.Time
	profileMu    sync.Mutex

	browser *browserRenderer
}

// Option configures a Scraper.
type Option func(*Scraper) error

// WithTimeout sets the HTTP client timeout. Default: 15s.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) error {
		s.client.Timeout = d
		return nil
	}
}

// WithUserAgent overrides the browser user agent string.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) error {
		s.userAgent = ua
		return nil
	}
}

// WithBaseURL points the scraper at a different host. Test use.
func WithBaseURL(u string) Option {
	return func(s *Scraper) error {
		s.baseURL = u
		return nil
	}
}

// WithProfileDelay sets the minimum spacing between profile fetches.
func WithProfileDelay(d time.Duration) Option {
	return func(s *Scraper) error {
		s.profileDelay = d
		return nil
	}
}

// WithProxy routes scraping through a proxy. Supports socks5:// (via
// x/net/proxy) and http:// schemes. The browser fallback, if enabled,
// uses the same proxy.
func WithProxy(rawURL string) Option {
	return func(s *Scraper) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("scrape: proxy url: %w", err)
		}
		transport := s.client.Transport.(*http.Transport)
		switch u.Scheme {
		case "socks5":
			var auth *proxy.Auth
			if u.User != nil {
				pw, _ := u.User.Password()
				auth = &proxy.Auth{User: u.User.Username(), Password: pw}
			}
			dialer, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
			if err != nil {
				return fmt.Errorf("scrape: socks5 dialer: %w", err)
			}
			cd, ok := dialer.(proxy.ContextDialer)
			if !ok {
				return fmt.Errorf("scrape: socks5 dialer lacks context support")
			}
			transport.DialContext = cd.DialContext
		case "http", "https":
			transport.Proxy = http.ProxyURL(u)
		default:
			return fmt.Errorf("scrape: unsupported proxy scheme %q", u.Scheme)
		}
		if s.browser != nil {
			s.browser.proxy = rawURL
		}
		return nil
	}
}

// WithBrowserFallback enables the stealth headless browser for pages
// the HTTP path cannot parse. The browser launches lazily on first use.
func WithBrowserFallback() Option {
	return func(s *Scraper) error {
		s.browser = newBrowserRenderer()
		return nil
	}
}

// defaultTransport pools connections and keeps TLS handshakes warm;
// a tracking run hits the same host repeatedly.
func defaultTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
}

// New creates a Scraper. No browser is launched unless WithBrowserFallback
// is given and the HTTP path fails.
func New(opts ...Option) (*Scraper, error) {
	jar, _ := cookiejar.New(nil)
	s := &Scraper{
		client: &http.Client{
			Jar:       jar,
			Timeout:   15 * time.Second,
			Transport: defaultTransport(),
		},
		baseURL:      "https://www.tiktok.com",
		userAgent:    defaultUserAgent,
		profileDelay: time.Second,
	}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close releases the browser if one was launched.
func (s *Scraper) Close() error {
	if s.browser != nil {
		return s.browser.close()
	}
	return nil
}

// FetchCreator scrapes a creator's profile page: profile stats plus
// whatever recent videos the page preloaded. The handle is used without
// a leading @.
func (s *Scraper) FetchCreator(ctx context.Context, handle string) (*Result, error) {
	if handle == "" {
		return nil, fmt.Errorf("scrape: handle is required")
	}
	s.waitForProfileSlot()

	profileURL := s.baseURL + "/@" + handle
	body, err := s.fetchHTML(ctx, profileURL)
	if err != nil {
		return nil, fmt.Errorf("fetch profile @%s: %w", handle, err)
	}

	result, err := s.parseProfilePage(body)
	if err == nil {
		return result, nil
	}
	if s.browser == nil {
		return nil, fmt.Errorf("parse profile @%s: %w", handle, err)
	}

	// Shell page. Render it for real and try again.
	rendered, rerr := s.browser.renderHTML(ctx, profileURL)
	if rerr != nil {
		return nil, fmt.Errorf("browser fallback @%s: %w (http path: %v)", handle, rerr, err)
	}
	result, err = s.parseProfilePage(rendered)
	if err != nil {
		return nil, fmt.Errorf("parse rendered profile @%s: %w", handle, err)
	}
	return result, nil
}

func (s *Scraper) parseProfilePage(body []byte) (*Result, error) {
	data, err := extractUniversalData(body)
	if err != nil {
		return nil, err
	}
	return parseResult(data)
}

func (s *Scraper) fetchHTML(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrBlocked, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *Scraper) waitForProfileSlot() {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()
	if wait := s.profileDelay - time.Since(s.lastProfile); wait > 0 {
		time.Sleep(wait)
	}
	s.lastProfile = time.Now()
}
