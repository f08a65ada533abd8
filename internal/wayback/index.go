package wayback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	httpclient "github.com/handiism/noway/internal/http"
	"github.com/handiism/noway/internal/model"
)

const (
	// DefaultEndpoint is the CDX index search API.
	DefaultEndpoint = "https://web.archive.org/cdx/search/cdx"

	// DefaultArchiveBase prefixes every snapshot URL built from the index.
	DefaultArchiveBase = "https://web.archive.org"

	statusFilter = "statuscode:200"
	outputFormat = "json"

	timestampColumn = "timestamp"
	originalColumn  = "original"
)

// MatchType selects how the index matches the query URL against archived URLs.
type MatchType string

const (
	MatchExact  MatchType = "exact"
	MatchPrefix MatchType = "prefix"
	MatchHost   MatchType = "host"
	MatchDomain MatchType = "domain"
)

// MatchTypes lists the match types understood by the index, in the order
// interactive front ends cycle through them.
var MatchTypes = []MatchType{MatchExact, MatchPrefix, MatchHost, MatchDomain}

// Index lists archived snapshots through the Wayback Machine CDX API.
//
// Each call to ListSnapshots issues exactly one GET request:
//
//	https://web.archive.org/cdx/search/cdx?url=<target>&matchType=<mode>&filter=statuscode:200&output=json
//
// The response is a JSON array of arrays. The first row names the columns;
// Index locates "timestamp" and "original" by name because the column order
// is not part of the API contract.
//
// Example usage:
//
//	index := NewIndex(httpclient.NewClient(httpclient.WithTimeout(30 * time.Second)))
//
//	urls, err := index.ListSnapshots(ctx, "example.com", MatchPrefix)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, u := range urls {
//	    fmt.Println(u) // https://web.archive.org/web/20200101000000/http://example.com/a
//	}
type Index struct {
	client      *httpclient.Client
	endpoint    string
	archiveBase string
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithEndpoint overrides the CDX search endpoint.
func WithEndpoint(endpoint string) IndexOption {
	return func(ix *Index) {
		if endpoint != "" {
			ix.endpoint = endpoint
		}
	}
}

// WithArchiveBase overrides the base URL snapshot URLs are built on.
func WithArchiveBase(base string) IndexOption {
	return func(ix *Index) {
		if base != "" {
			ix.archiveBase = base
		}
	}
}

// NewIndex creates an Index that queries through client.
func NewIndex(client *httpclient.Client, opts ...IndexOption) *Index {
	ix := &Index{
		client:      client,
		endpoint:    DefaultEndpoint,
		archiveBase: DefaultArchiveBase,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// ListSnapshots returns the snapshot URLs archived for target, in the order
// the index reports them.
//
// match is forwarded to the index untouched: an unsupported value surfaces
// as an index error, not a local validation error.
//
// A response with no data rows (an empty body, "[]", or a header row alone)
// yields an empty slice and a nil error.
//
// Every failure is reported as a *ListingError:
//   - empty target
//   - network failure or non-2xx response
//   - malformed JSON
//   - missing "timestamp" or "original" header column
//   - a data row shorter than the header
func (ix *Index) ListSnapshots(ctx context.Context, target string, match MatchType) ([]string, error) {
	if strings.TrimSpace(target) == "" {
		return nil, &ListingError{Target: target, Err: ErrEmptyTarget}
	}

	var buf bytes.Buffer
	err := ix.client.Request(ix.endpoint).
		Param("url", target).
		Param("matchType", string(match)).
		Param("filter", statusFilter).
		Param("output", outputFormat).
		ToBytesBuffer(&buf).
		Fetch(ctx)
	if err != nil {
		return nil, &ListingError{Target: target, Err: fmt.Errorf("query CDX API: %w", err)}
	}

	rows, err := decodeRows(buf.Bytes())
	if err != nil {
		return nil, &ListingError{Target: target, Err: err}
	}

	urls, err := snapshotURLs(rows, ix.archiveBase)
	if err != nil {
		return nil, &ListingError{Target: target, Err: err}
	}
	return urls, nil
}

// decodeRows parses a CDX JSON body. An empty body means no captures.
func decodeRows(body []byte) ([][]string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parse CDX JSON: %w", err)
	}
	return rows, nil
}

// snapshotURLs turns CDX rows into snapshot URLs. rows[0] is the header.
func snapshotURLs(rows [][]string, archiveBase string) ([]string, error) {
	if len(rows) <= 1 {
		return []string{}, nil
	}

	header := rows[0]
	tsIdx := slices.Index(header, timestampColumn)
	if tsIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, timestampColumn)
	}
	origIdx := slices.Index(header, originalColumn)
	if origIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, originalColumn)
	}

	urls := make([]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if tsIdx >= len(row) || origIdx >= len(row) {
			return nil, fmt.Errorf("row %d: %w", i+1, ErrShortRow)
		}
		urls = append(urls, model.SnapshotURL(archiveBase, row[tsIdx], row[origIdx]))
	}
	return urls, nil
}
