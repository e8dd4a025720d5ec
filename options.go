package regiongdp

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tsawler/regiongdp/fetch"
	"github.com/tsawler/regiongdp/region"
)

// Options holds the Loader configuration.
type Options struct {
	url     string
	fetcher fetch.Fetcher
	lookup  region.Lookup
	topN    int
	ttl     time.Duration // zero means no expiry
	clock   func() time.Time
	logger  zerolog.Logger
}

// Option configures a Loader.
type Option func(*Options)

// defaultOptions returns the default loader options.
func defaultOptions() Options {
	return Options{
		url:     DefaultURL,
		fetcher: fetch.NewHTTPFetcher(),
		lookup:  region.Default(),
		topN:    region.DefaultTopN,
		ttl:     0,
		logger:  zerolog.Nop(),
	}
}

// WithURL sets the page to read.
func WithURL(url string) Option {
	return func(o *Options) { o.url = url }
}

// WithFetcher sets how the page is retrieved.
func WithFetcher(f fetch.Fetcher) Option {
	return func(o *Options) { o.fetcher = f }
}

// WithLookup sets the country to region table.
func WithLookup(l region.Lookup) Option {
	return func(o *Options) { o.lookup = l }
}

// WithTopN sets how many countries per region are kept before the rest is
// collapsed. Values below 1 fall back to region.DefaultTopN.
func WithTopN(n int) Option {
	return func(o *Options) { o.topN = n }
}

// WithTTL bounds how long a loaded table is reused. Zero keeps it for the
// lifetime of the Loader.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) { o.ttl = ttl }
}

// WithClock replaces the time source used for TTL expiry.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.clock = now }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}
