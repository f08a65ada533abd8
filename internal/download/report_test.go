package download

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestWriteFailureReport(t *testing.T) {
	dir := t.TempDir()
	failed := []string{
		"https://web.archive.org/web/20200101000000/http://example.com/a",
		"https://web.archive.org/web/20200202000000/http://example.com/b",
	}

	written, err := WriteFailureReport(dir, failed)
	if err != nil {
		t.Fatalf("WriteFailureReport() error = %v", err)
	}
	if !written {
		t.Fatal("WriteFailureReport() = false, want true")
	}

	data, err := os.ReadFile(filepath.Join(dir, "failed_urls.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := failed[0] + "\n" + failed[1]
	if string(data) != want {
		t.Errorf("report = %q, want %q", data, want)
	}
}

func TestWriteFailureReport_Empty(t *testing.T) {
	dir := t.TempDir()

	written, err := WriteFailureReport(dir, nil)
	if err != nil || written {
		t.Fatalf("WriteFailureReport(nil) = %v, %v; want false, nil", written, err)
	}
	if _, err := os.Stat(ReportPath(dir)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("report should not exist, stat error = %v", err)
	}
}

func TestWriteFailureReport_Overwrites(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(ReportPath(dir), []byte("stale\nlines\nfrom before"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := WriteFailureReport(dir, []string{"https://web.archive.org/web/1/x"}); err != nil {
		t.Fatalf("WriteFailureReport() error = %v", err)
	}
	data, _ := os.ReadFile(ReportPath(dir))
	if string(data) != "https://web.archive.org/web/1/x" {
		t.Errorf("report = %q", data)
	}
}

func TestWriteFailureReport_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")

	written, err := WriteFailureReport(dir, []string{"u"})

	var reportErr *ReportError
	if !errors.As(err, &reportErr) {
		t.Fatalf("error = %v, want *ReportError", err)
	}
	if written {
		t.Error("written should be false on failure")
	}
	if reportErr.Path != ReportPath(dir) {
		t.Errorf("Path = %q, want %q", reportErr.Path, ReportPath(dir))
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReportError should wrap os.ErrNotExist, got %v", err)
	}
}

func TestFailureLog_ConcurrentAdd(t *testing.T) {
	var log FailureLog
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Add("u")
		}()
	}
	wg.Wait()

	if log.Len() != 50 || len(log.URLs()) != 50 {
		t.Errorf("Len() = %d, want 50", log.Len())
	}
}
