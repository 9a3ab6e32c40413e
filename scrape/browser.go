package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// browserRenderer lazily launches a stealth headless Chrome and renders
// profile pages that the plain HTTP path cannot parse. One browser is
// shared across renders; page loads are serialized.
type browserRenderer struct {
	mu      sync.Mutex
	browser *rod.Browser
	proxy   string
}

func newBrowserRenderer() *browserRenderer {
	return &browserRenderer{}
}

// renderHTML loads the URL in a stealth page and returns the rendered
// HTML once the page settles.
func (b *browserRenderer) renderHTML(ctx context.Context, rawURL string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.launchLocked(); err != nil {
		return nil, err
	}

	page, err := stealth.Page(b.browser.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("stealth page: %w", err)
	}
	defer page.Close()

	blockHeavyResources(page)

	if err := page.Navigate(rawURL); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	if err := page.WaitStable(2 * time.Second); err != nil {
		return nil, fmt.Errorf("wait stable: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("page html: %w", err)
	}
	return []byte(html), nil
}

func (b *browserRenderer) launchLocked() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New().Headless(true)
	if b.proxy != "" {
		l = l.Proxy(b.proxy)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}
	b.browser = browser
	return nil
}

// blockHeavyResources drops media and style requests; only the embedded
// JSON matters for extraction.
func blockHeavyResources(page *rod.Page) {
	router := page.HijackRequests()
	blocked := []string{"*.css", "*.png", "*.jpg", "*.jpeg", "*.mp4", "*.woff*", "*.svg"}
	for _, pattern := range blocked {
		router.MustAdd(pattern, func(ctx *rod.Hijack) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		})
	}
	go router.Run()
}

func (b *browserRenderer) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}
