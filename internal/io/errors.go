package ioutils

import "fmt"

// PersistError reports a snapshot body that could not be written to disk.
type PersistError struct {
	URL  string
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s to %s: %v", e.URL, e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// SetupError reports an output directory that could not be created.
// It is fatal: no network activity happens after it.
type SetupError struct {
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("failed to create output directory %s: %v", e.Path, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
