package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// BrowserFetcher renders pages in a headless Chrome instance. A browser is
// launched per call and torn down afterwards.
type BrowserFetcher struct {
	userAgent string
	idle      time.Duration
	bin       string
}

// NewBrowserFetcher returns a fetcher that launches the browser found by
// go-rod's launcher, downloading one if none is installed.
func NewBrowserFetcher() *BrowserFetcher {
	return &BrowserFetcher{
		userAgent: UserAgent,
		idle:      3 * time.Second,
	}
}

// WithBin returns a copy of f that launches the browser binary at path.
func (f *BrowserFetcher) WithBin(path string) *BrowserFetcher {
	c := *f
	c.bin = path
	return &c
}

// Fetch navigates to url, waits for the load event and network idle, and
// returns the rendered HTML.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	l := launcher.New().Headless(true).Context(ctx)
	if f.bin != "" {
		l = l.Bin(f.bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("launching browser: %w", err)}
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("connecting to browser: %w", err)}
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("creating page: %w", err)}
	}
	defer page.Close()

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("setting user agent: %w", err)}
	}

	if err := page.Navigate(url); err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("navigating: %w", err)}
	}
	if err := page.WaitLoad(); err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("waiting for page load: %w", err)}
	}

	// Wait for dynamic content
	page.WaitRequestIdle(f.idle, nil, nil, nil)()

	html, err := page.HTML()
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("reading rendered HTML: %w", err)}
	}
	return html, nil
}
