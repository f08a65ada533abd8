// Package model defines the snapshot value type shared by the lister, the
// persister and the download manager.
//
// # Snapshot
//
// Snapshot splits an archive URL into its capture timestamp and original URL:
//
//	s := model.ParseSnapshot("https://web.archive.org/web/20200101000000/http://example.com/a")
//	fmt.Println(s.Timestamp) // 20200101000000
//	fmt.Println(s.Original)  // http://example.com/a
//
// # Filenames
//
// FileName derives a deterministic, filesystem-safe name for a snapshot:
//
//	model.FileName("https://web.archive.org/web/20200101000000/http://example.com/a")
//	// 20200101000000_a.html
package model
