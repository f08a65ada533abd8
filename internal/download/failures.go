package download

import "sync"

// FailureLog collects the URLs of failed downloads. It is safe for
// concurrent use; URLs are kept in the order Add was called.
type FailureLog struct {
	mu   sync.Mutex
	urls []string
}

// Add records url as failed.
func (l *FailureLog) Add(url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.urls = append(l.urls, url)
}

// Len returns the number of recorded failures.
func (l *FailureLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.urls)
}

// URLs returns a snapshot of the recorded failures.
func (l *FailureLog) URLs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.urls))
	copy(out, l.urls)
	return out
}
