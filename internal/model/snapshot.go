package model

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	// ArchiveMarker precedes the timestamp segment in a snapshot URL.
	ArchiveMarker = "/web/"

	// UnknownTimestamp replaces the timestamp when a URL has no ArchiveMarker.
	UnknownTimestamp = "unknown"

	// FileExtension is appended to every derived filename.
	FileExtension = ".html"

	// maxFileNameLen is NAME_MAX on common filesystems.
	maxFileNameLen = 255
)

// Snapshot is one archived capture of a page.
//
// A Snapshot is addressed by its fully-qualified archive URL, which embeds
// the capture timestamp and the original URL:
//
//	https://web.archive.org/web/20200101000000/http://example.com/a
//	                            ^timestamp     ^original
//
// Snapshots are immutable values; build them with ParseSnapshot.
type Snapshot struct {
	// URL is the full archive URL the snapshot is downloaded from.
	URL string

	// Timestamp is the 14-digit capture time, or UnknownTimestamp.
	Timestamp string

	// Original is the archived page's own URL. Empty when URL carries no
	// ArchiveMarker.
	Original string
}

// SnapshotURL joins an archive base, a capture timestamp and an original URL
// into a snapshot URL.
//
// Example:
//
//	SnapshotURL("https://web.archive.org", "20200101000000", "http://example.com/a")
//	// "https://web.archive.org/web/20200101000000/http://example.com/a"
func SnapshotURL(archiveBase, timestamp, original string) string {
	return strings.TrimRight(archiveBase, "/") + ArchiveMarker + timestamp + "/" + original
}

// ParseSnapshot splits a snapshot URL into its timestamp and original URL.
//
// The timestamp is the path segment immediately after ArchiveMarker. When
// the marker is missing the timestamp is UnknownTimestamp rather than an
// error, so every URL still maps to a filename.
func ParseSnapshot(rawURL string) Snapshot {
	s := Snapshot{URL: rawURL, Timestamp: UnknownTimestamp}

	_, rest, ok := strings.Cut(rawURL, ArchiveMarker)
	if !ok {
		return s
	}

	timestamp, original, _ := strings.Cut(rest, "/")
	if timestamp != "" {
		s.Timestamp = timestamp
	}
	s.Original = original
	return s
}

// FileName derives the local filename for the snapshot.
//
// The name is "<timestamp>_<path>.html" where path is the original URL's
// path with the leading slash dropped and every "/" and ":" replaced by "_".
// A root path becomes "index". Names longer than the filesystem limit are
// truncated before the extension, never inside a UTF-8 sequence.
//
// Example:
//
//	ParseSnapshot("https://web.archive.org/web/20200101000000/http://example.com/a/b").FileName()
//	// "20200101000000_a_b.html"
func (s Snapshot) FileName() string {
	name := s.Timestamp + "_" + sanitizePath(s.path())
	if limit := maxFileNameLen - len(FileExtension); len(name) > limit {
		for limit > 0 && !utf8.RuneStart(name[limit]) {
			limit--
		}
		name = name[:limit]
	}
	return name + FileExtension
}

// FileName is shorthand for ParseSnapshot(rawURL).FileName().
func FileName(rawURL string) string {
	return ParseSnapshot(rawURL).FileName()
}

// path returns the escaped path of the original URL, or of the snapshot URL
// itself when no original could be located.
func (s Snapshot) path() string {
	target := s.Original
	if target == "" {
		target = s.URL
	}

	u, err := url.Parse(target)
	if err != nil {
		path, _, _ := strings.Cut(target, "?")
		return path
	}
	// "example.com/a" parses as a bare path; treat the first segment as a host.
	if u.Scheme == "" && u.Host == "" && s.Original != "" {
		if withScheme, err := url.Parse("http://" + target); err == nil {
			u = withScheme
		}
	}
	return u.EscapedPath()
}

var pathReplacer = strings.NewReplacer("/", "_", ":", "_")

// sanitizePath makes a URL path safe to use as a single filename component.
func sanitizePath(path string) string {
	path = pathReplacer.Replace(strings.TrimPrefix(path, "/"))
	if path == "" {
		return "index"
	}
	return path
}
