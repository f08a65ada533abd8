package wayback

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTarget is returned when ListSnapshots is called without a URL.
	ErrEmptyTarget = errors.New("target URL is empty")

	// ErrMissingColumn is returned when the CDX header row lacks a required
	// column. This typically means the endpoint is not a CDX server or its
	// field list was customised.
	ErrMissingColumn = errors.New("field not found in CDX header")

	// ErrShortRow is returned when a data row has fewer fields than needed.
	ErrShortRow = errors.New("CDX row has too few fields")
)

// ListingError reports that the snapshot list for Target could not be
// obtained. It aborts the run before any download starts.
type ListingError struct {
	Target string
	Err    error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("list snapshots for %q: %v", e.Target, e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}
