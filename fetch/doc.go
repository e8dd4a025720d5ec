// Package fetch retrieves the HTML of a web page.
//
// Two implementations of [Fetcher] are provided:
//
//   - [HTTPFetcher] - a single GET with a browser-like User-Agent
//   - [BrowserFetcher] - loads the page in headless Chrome via go-rod and
//     returns the rendered document
//
// Neither retries. Every failure is reported as a [*FetchError]:
//
//	html, err := fetch.NewHTTPFetcher().Fetch(ctx, url)
//	var fe *fetch.FetchError
//	if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
//	    // page moved
//	}
package fetch
