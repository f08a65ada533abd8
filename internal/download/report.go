package download

import (
	"context"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/noway/internal/io"
)

// ReportFileName is the name of the failure report inside the output directory.
const ReportFileName = "failed_urls.txt"

// ReportPath returns where WriteFailureReport puts the report for dir.
func ReportPath(dir string) string {
	return filepath.Join(dir, ReportFileName)
}

// WriteFailureReport writes failed, one URL per line, to ReportPath(dir).
//
// Lines are joined with "\n" and the file has no trailing newline. An
// existing report is overwritten. When failed is empty nothing is written
// and WriteFailureReport returns false.
//
// Example:
//
//	written, err := WriteFailureReport("brave-otter", result.Failed)
//	if written {
//	    fmt.Printf("Some URLs failed to download. Check %s for details.\n", ReportPath("brave-otter"))
//	}
func WriteFailureReport(dir string, failed []string) (bool, error) {
	if len(failed) == 0 {
		return false, nil
	}

	path := ReportPath(dir)
	data := []byte(strings.Join(failed, "\n"))
	if err := ioutils.WriteFile(context.Background(), path, data); err != nil {
		return false, &ReportError{Path: path, Err: err}
	}
	return true, nil
}
