// Package ioutils provides file system utilities for noway.
//
// # Output Directory
//
//	// Create the run's output directory (fatal on failure)
//	err := ioutils.EnsureDir("brave-otter")
//	var setupErr *ioutils.SetupError
//	errors.As(err, &setupErr)
//
// # Persisting Snapshots
//
// Store writes downloaded bodies under names derived from their URLs:
//
//	store := ioutils.NewStore("brave-otter")
//	name, err := store.Persist(ctx, snapshotURL, body)
//
// Persist never creates directories; a missing directory surfaces as a
// *PersistError for that snapshot only.
package ioutils
