// Package http provides an HTTP client configured for Wayback Machine requests.
//
// The Client in this package handles:
//   - User-Agent headers (the archive may reject unidentified clients)
//   - Timeout handling
//   - Mapping of non-2xx responses and transport errors to FetchError
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Download one archived page
//	body, err := client.Get(ctx, snapshotURL)
//	var fetchErr *http.FetchError
//	if errors.As(err, &fetchErr) {
//	    fmt.Println(fetchErr.StatusCode)
//	}
//
// # Custom Requests
//
// Request returns a builder that already carries the client's transport,
// timeout and User-Agent. The CDX lister uses it for its JSON query:
//
//	err := client.Request(endpoint).Param("output", "json").ToBytesBuffer(&buf).Fetch(ctx)
package http
