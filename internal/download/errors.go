package download

import (
	"errors"
	"fmt"

	"github.com/handiism/noway/internal/http"
	ioutils "github.com/handiism/noway/internal/io"
)

const (
	stageFetch   = "fetch"
	stagePersist = "persist"
	stagePanic   = "panic"
	stageOther   = "other"
)

// PanicError reports a panic recovered while downloading one snapshot.
type PanicError struct {
	URL   string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic while downloading %s: %v", e.URL, e.Value)
}

// ReportError reports a failure report that could not be written.
type ReportError struct {
	Path string
	Err  error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("write failure report %s: %v", e.Path, e.Err)
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// ErrorStage labels err with the download step it came from: "fetch",
// "persist", "panic" or "other".
func ErrorStage(err error) string {
	var fetchErr *http.FetchError
	if errors.As(err, &fetchErr) {
		return stageFetch
	}
	var persistErr *ioutils.PersistError
	if errors.As(err, &persistErr) {
		return stagePersist
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return stagePanic
	}
	return stageOther
}

// stageOf is ErrorStage with a fallback for errors from custom collaborators.
func stageOf(err error, fallback string) string {
	if stage := ErrorStage(err); stage != stageOther {
		return stage
	}
	return fallback
}
