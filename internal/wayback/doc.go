// Package wayback lists archived snapshots of a URL from the Wayback Machine.
//
// # Index
//
// Index queries the CDX search API and turns each capture into a fully
// qualified snapshot URL:
//
//	index := wayback.NewIndex(client)
//	urls, err := index.ListSnapshots(ctx, "example.com", wayback.MatchPrefix)
//
// # Match Types
//
// The index supports four matching strategies:
//   - MatchExact: only the given URL
//   - MatchPrefix: every URL under the given path
//   - MatchHost: every URL on the given host
//   - MatchDomain: every URL on the host and its subdomains
//
// Match types are passed through unvalidated so the index stays the single
// authority on what it accepts.
//
// # Errors
//
// All failures are wrapped in *ListingError. Use errors.Is with
// ErrMissingColumn or ErrShortRow to tell malformed responses apart.
package wayback
