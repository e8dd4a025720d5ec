package regiongdp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tsawler/regiongdp/extract"
	"github.com/tsawler/regiongdp/fetch"
	"github.com/tsawler/regiongdp/model"
	"github.com/tsawler/regiongdp/region"
)

func fixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/gdp.html")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	return string(data)
}

// wikiServer serves the fixture and counts requests.
func wikiServer(t *testing.T, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Header.Get("User-Agent") != fetch.UserAgent {
			http.Error(w, "bots not welcome", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoader_Load(t *testing.T) {
	var hits int32
	srv := wikiServer(t, fixture(t), &hits)

	records, err := New(WithURL(srv.URL)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(records) != 12 {
		t.Fatalf("Load() = %d records, want 12", len(records))
	}

	us := records[0]
	want := model.CountryRecord{
		Name:      "United States",
		IMF:       model.Amount(27360935),
		WorldBank: model.Amount(25462700),
		UN:        model.Amount(26854599),
	}
	if us != want {
		t.Errorf("records[0] = %+v, want %+v", us, want)
	}

	for _, r := range records {
		switch r.Name {
		case "World", "European Union", "Atlantis":
			t.Errorf("record %q should have been dropped", r.Name)
		}
	}
}

func TestLoader_LoadAndSelect(t *testing.T) {
	var hits int32
	srv := wikiServer(t, fixture(t), &hits)
	loader := New(WithURL(srv.URL))

	buckets, err := loader.LoadAndSelect(context.Background(), model.IMF)
	if err != nil {
		t.Fatalf("LoadAndSelect() failed: %v", err)
	}

	wantRegions := []string{"Asia", "Europe", "Europe/Asia", "North America", "Other", "South America"}
	if len(buckets) != len(wantRegions) {
		t.Fatalf("LoadAndSelect() = %d buckets, want %d: %+v", len(buckets), len(wantRegions), buckets)
	}
	for i, b := range buckets {
		if b.Region != wantRegions[i] {
			t.Errorf("bucket %d region = %q, want %q", i, b.Region, wantRegions[i])
		}
	}

	na := buckets[3]
	if na.Entries[0].Label != "United States" || na.Entries[0].Value != 27360935 {
		t.Errorf("North America top = %+v", na.Entries[0])
	}
	other := buckets[4]
	if len(other.Entries) != 1 || other.Entries[0].Label != "Tuvalu" {
		t.Errorf("Other bucket = %+v", other)
	}

	un, err := loader.LoadAndSelect(context.Background(), model.UN)
	if err != nil {
		t.Fatalf("LoadAndSelect(UN) failed: %v", err)
	}
	for _, b := range un {
		if b.Region == "Other" && b.Entries[0].Label != "Monaco" {
			t.Errorf("UN Other bucket = %+v", b)
		}
	}

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("server hit %d times, want 1 (second selection should be cached)", n)
	}
}

func TestLoader_CachingAndInvalidate(t *testing.T) {
	var hits int32
	srv := wikiServer(t, fixture(t), &hits)
	loader := New(WithURL(srv.URL))
	ctx := context.Background()

	for _, src := range model.Sources {
		if _, err := loader.LoadAndSelect(ctx, src); err != nil {
			t.Fatalf("LoadAndSelect(%v) failed: %v", src, err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("hits = %d, want 1", n)
	}
	if _, ok := loader.LoadedAt(); !ok {
		t.Error("LoadedAt() = false after a load")
	}

	loader.Invalidate()
	if _, ok := loader.LoadedAt(); ok {
		t.Error("LoadedAt() = true after Invalidate()")
	}
	if _, err := loader.Load(ctx); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("hits = %d, want 2 after Invalidate()", n)
	}
}

func TestLoader_TTL(t *testing.T) {
	var hits int32
	srv := wikiServer(t, fixture(t), &hits)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	loader := New(WithURL(srv.URL), WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	loader.Load(ctx)
	now = now.Add(30 * time.Minute)
	loader.Load(ctx)
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("hits = %d before expiry, want 1", n)
	}

	now = now.Add(31 * time.Minute)
	loader.Load(ctx)
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("hits = %d after expiry, want 2", n)
	}
}

func TestLoader_LoadReturnsCopy(t *testing.T) {
	var hits int32
	srv := wikiServer(t, fixture(t), &hits)
	loader := New(WithURL(srv.URL))

	first, _ := loader.Load(context.Background())
	first[0].Name = "changed"

	second, _ := loader.Load(context.Background())
	if second[0].Name != "United States" {
		t.Errorf("cached records were modified through a returned slice: %q", second[0].Name)
	}
}

func TestLoader_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	loader := New(WithURL(srv.URL))
	_, err := loader.LoadAndSelect(context.Background(), model.IMF)

	var fe *fetch.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("LoadAndSelect() error = %v, want *fetch.FetchError", err)
	}
	if fe.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", fe.StatusCode)
	}
	if _, ok := loader.LoadedAt(); ok {
		t.Error("failed load was cached")
	}
}

func TestLoader_NoTableFound(t *testing.T) {
	page := `<html><body><table><tr><th>Country</th><th>GDP</th></tr><tr><td>A</td><td>1</td></tr></table></body></html>`
	loader := New(WithFetcher(fetch.FetcherFunc(func(ctx context.Context, url string) (string, error) {
		return page, nil
	})))

	_, err := loader.LoadAndSelect(context.Background(), model.UN)
	if !errors.Is(err, extract.ErrNoTableFound) {
		t.Errorf("LoadAndSelect() error = %v, want ErrNoTableFound", err)
	}
}

func TestLoader_RetriesAfterError(t *testing.T) {
	var calls int32
	page := fixture(t)
	loader := New(WithFetcher(fetch.FetcherFunc(func(ctx context.Context, url string) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", &fetch.FetchError{URL: url, Err: errors.New("connection reset")}
		}
		return page, nil
	})))

	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatal("first Load() should fail")
	}
	if _, err := loader.Load(context.Background()); err != nil {
		t.Fatalf("second Load() failed: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("fetcher called %d times, want 2", n)
	}
}

func TestLoader_Options(t *testing.T) {
	var hits int32
	srv := wikiServer(t, fixture(t), &hits)

	lookup := region.Default().With(map[string]string{"Monaco": "Europe"})
	loader := New(WithURL(srv.URL), WithLookup(lookup), WithTopN(1))

	if loader.URL() != srv.URL {
		t.Errorf("URL() = %q", loader.URL())
	}

	buckets, err := loader.LoadAndSelect(context.Background(), model.UN)
	if err != nil {
		t.Fatalf("LoadAndSelect() failed: %v", err)
	}
	for _, b := range buckets {
		if b.Countries() > 1 {
			t.Errorf("%s has %d named entries with TopN 1", b.Region, b.Countries())
		}
		if b.Region == "Europe" {
			rest, ok := b.Rest()
			// Germany tops Europe; UK, France and Monaco are collapsed.
			want := 3088840.0 + 2775316 + 8468
			if !ok || rest.Value != want {
				t.Errorf("Europe rest = %+v, want %v", rest, want)
			}
		}
	}
}

func TestLoader_InvalidSource(t *testing.T) {
	loader := New(WithFetcher(fetch.FetcherFunc(func(ctx context.Context, url string) (string, error) {
		t.Error("fetcher should not be called for an invalid source")
		return "", nil
	})))

	_, err := loader.LoadAndSelect(context.Background(), model.Source(9))
	if !errors.Is(err, model.ErrUnknownSource) {
		t.Errorf("LoadAndSelect() error = %v, want ErrUnknownSource", err)
	}
}

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.url != DefaultURL {
		t.Errorf("url = %q", o.url)
	}
	if o.topN != region.DefaultTopN {
		t.Errorf("topN = %d", o.topN)
	}
	if o.ttl != 0 {
		t.Errorf("ttl = %v, want 0", o.ttl)
	}
	if Default() == nil {
		t.Error("Default() = nil")
	}
}

func TestMust(t *testing.T) {
	if got := Must(3, nil); got != 3 {
		t.Errorf("Must() = %d", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Must() did not panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}

func TestLoaderLookup(t *testing.T) {
	custom := region.NewLookup(map[string]string{"Atlantis": "Ocean"})
	l := New(WithLookup(custom))
	if got := l.Lookup().Region("Atlantis"); got != "Ocean" {
		t.Errorf("Lookup().Region(Atlantis) = %q, want Ocean", got)
	}
	if got := New().Lookup().Region("Japan"); got != "Asia" {
		t.Errorf("default Lookup().Region(Japan) = %q, want Asia", got)
	}
}
