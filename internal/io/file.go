package ioutils

import (
	"context"
	"os"
	"path/filepath"

	"github.com/handiism/noway/internal/model"
)

// Store persists downloaded snapshots into a single output directory.
//
// Store never creates directories: Dir must already exist (see EnsureDir).
// Filenames are derived from the snapshot URL with model.FileName, so the
// same URL always lands in the same file and a re-run overwrites it.
//
// Example:
//
//	store := NewStore("brave-otter")
//	name, err := store.Persist(ctx, snapshotURL, body)
//	// name = "20200101000000_a.html"
type Store struct {
	Dir string
}

// NewStore creates a Store writing into dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Persist writes body to Dir under the filename derived from url and returns
// that filename.
//
// Returns a *PersistError if the directory is missing, permission is denied,
// the disk is full, or ctx is already done.
func (s *Store) Persist(ctx context.Context, url string, body []byte) (string, error) {
	name := model.FileName(url)
	path := filepath.Join(s.Dir, name)

	if err := WriteFile(ctx, path, body); err != nil {
		return "", &PersistError{URL: url, Path: path, Err: err}
	}
	return name, nil
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing. Parent directories are not created.
//
// Example:
//
//	err := WriteFile(ctx, "out/failed_urls.txt", []byte("https://..."))
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
// Failures are reported as *SetupError.
//
// Example:
//
//	err := EnsureDir("downloads/example")
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return &SetupError{Path: path, Err: err}
	}
	return nil
}
