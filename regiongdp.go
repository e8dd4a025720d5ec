// Package regiongdp loads the Wikipedia list of countries by nominal GDP and
// turns it into per-region series for a stacked bar chart.
//
// Basic usage:
//
//	buckets, err := regiongdp.LoadAndSelect(ctx, model.IMF)
//	if err != nil {
//	    // *fetch.FetchError or extract.ErrNoTableFound
//	}
//	for _, b := range buckets {
//	    fmt.Println(b.Region, b.Total())
//	}
//
// With options:
//
//	loader := regiongdp.New(
//	    regiongdp.WithTTL(time.Hour),
//	    regiongdp.WithTopN(5),
//	)
//	buckets, err := loader.LoadAndSelect(ctx, model.UN)
//
// The page is fetched once per Loader and reused for every source selection
// until Invalidate is called or the TTL elapses.
package regiongdp

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsawler/regiongdp/extract"
	"github.com/tsawler/regiongdp/internal/memo"
	"github.com/tsawler/regiongdp/model"
	"github.com/tsawler/regiongdp/normalize"
	"github.com/tsawler/regiongdp/region"
)

// DefaultURL is the article the GDP table is read from.
const DefaultURL = "https://en.wikipedia.org/wiki/List_of_countries_by_GDP_(nominal)"

// Loader fetches, extracts and normalizes the GDP table, caching the result.
// A Loader is safe for concurrent use.
type Loader struct {
	options    Options
	aggregator *region.Aggregator
	cache      *memo.Cache[[]model.CountryRecord]
}

// New returns a Loader configured by opts.
func New(opts ...Option) *Loader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cache := memo.New[[]model.CountryRecord](o.ttl)
	if o.clock != nil {
		cache.SetClock(o.clock)
	}

	return &Loader{
		options:    o,
		aggregator: &region.Aggregator{Lookup: o.lookup, TopN: o.topN},
		cache:      cache,
	}
}

// URL returns the page the loader reads.
func (l *Loader) URL() string {
	return l.options.url
}

// Lookup returns the region table used for aggregation.
func (l *Loader) Lookup() region.Lookup {
	return l.options.lookup
}

// Load returns the normalized country records, fetching the page on the
// first call. Failed loads are not cached.
func (l *Loader) Load(ctx context.Context) ([]model.CountryRecord, error) {
	records, err := l.cache.Get(ctx, l.load)
	if err != nil {
		return nil, err
	}
	// Callers may modify the slice; the cached copy stays intact.
	return append([]model.CountryRecord(nil), records...), nil
}

func (l *Loader) load(ctx context.Context) ([]model.CountryRecord, error) {
	log := l.options.logger
	start := time.Now()

	html, err := l.options.fetcher.Fetch(ctx, l.options.url)
	if err != nil {
		log.Error().Err(err).Str("url", l.options.url).Msg("fetch failed")
		return nil, fmt.Errorf("loading GDP table: %w", err)
	}

	table, err := extract.FromHTML(html)
	if err != nil {
		log.Error().Err(err).Str("url", l.options.url).Msg("table extraction failed")
		return nil, fmt.Errorf("loading GDP table: %w", err)
	}

	rows := table.Rows()
	records := normalize.Rows(rows)

	log.Info().
		Str("url", l.options.url).
		Int("rows", len(rows)).
		Int("records", len(records)).
		Bool("imf", table.IMF.Found).
		Bool("world_bank", table.WorldBank.Found).
		Bool("un", table.UN.Found).
		Dur("elapsed", time.Since(start)).
		Msg("GDP table loaded")

	if log.GetLevel() <= zerolog.DebugLevel {
		for _, rec := range records {
			if r := l.options.lookup.Region(rec.Name); r == region.Unmapped {
				log.Debug().Str("country", rec.Name).Msg("no region mapping")
			}
		}
	}

	return records, nil
}

// LoadAndSelect loads the records (cached) and aggregates them by region
// using the figures reported by src.
func (l *Loader) LoadAndSelect(ctx context.Context, src model.Source) ([]model.RegionBucket, error) {
	if !src.Valid() {
		return nil, fmt.Errorf("%w: %v", model.ErrUnknownSource, src)
	}
	records, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return l.aggregator.Aggregate(records, src), nil
}

// Invalidate drops the cached records so the next call fetches again.
func (l *Loader) Invalidate() {
	l.cache.Invalidate()
}

// LoadedAt reports when the cached records were fetched.
func (l *Loader) LoadedAt() (time.Time, bool) {
	return l.cache.Loaded()
}

var defaultLoader = New()

// Default returns the process-wide loader used by the package-level functions.
func Default() *Loader {
	return defaultLoader
}

// LoadAndSelect calls LoadAndSelect on the process-wide loader.
func LoadAndSelect(ctx context.Context, src model.Source) ([]model.RegionBucket, error) {
	return defaultLoader.LoadAndSelect(ctx, src)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	buckets := regiongdp.Must(regiongdp.LoadAndSelect(ctx, model.IMF))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
