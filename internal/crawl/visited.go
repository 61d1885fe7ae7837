package crawl

import (
	"net/url"
	"strings"
	"sync"
)

// NormalizeURL strips the fragment and trailing slash and defaults the
// scheme to https, so the same page never counts twice.
func NormalizeURL(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parsed.Fragment = ""
	return strings.TrimSuffix(parsed.String(), "/")
}

// visitSet enforces visit-once discipline across the fallback engine's
// concurrent fetches.
type visitSet struct {
	mu   sync.Mutex
	urls map[string]bool
}

func newVisitSet() *visitSet {
	return &visitSet{urls: make(map[string]bool)}
}

// Add records the normalized URL and reports whether it was new.
func (v *visitSet) Add(raw string) bool {
	normalized := NormalizeURL(raw)
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.urls[normalized] {
		return false
	}
	v.urls[normalized] = true
	return true
}
