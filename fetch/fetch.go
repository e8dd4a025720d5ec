package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// UserAgent is the header sent with every request. Wikipedia rejects requests
// that carry the default Go client agent.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// Fetcher retrieves the HTML text of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// FetchError reports a failed retrieval: either a transport error (Err set)
// or a non-2xx response (StatusCode set).
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

// Unwrap returns the underlying transport error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// HTTPFetcher fetches pages with a plain HTTP GET.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher returns a fetcher using http.DefaultClient.
// No timeout is set beyond the transport default; use the context to bound a call.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client:    http.DefaultClient,
		userAgent: UserAgent,
	}
}

// WithClient returns a copy of f that sends requests through client.
func (f *HTTPFetcher) WithClient(client *http.Client) *HTTPFetcher {
	c := *f
	c.client = client
	return &c
}

// WithUserAgent returns a copy of f that sends the given User-Agent.
func (f *HTTPFetcher) WithUserAgent(ua string) *HTTPFetcher {
	c := *f
	c.userAgent = ua
	return &c
}

// Fetch performs a GET request and returns the response body.
// A status outside 200-299 is a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("reading body: %w", err)}
	}

	return string(body), nil
}
