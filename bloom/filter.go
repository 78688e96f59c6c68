// Package bloom de-duplicates batch sources using Bloom filters.
package bloom

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter remembers the sources seen in a batch. It is safe for
// concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected sources
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a source in the filter.
func (f *Filter) Add(source string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(NormalizeSource(source))
}

// Test returns true if the source might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) Test(source string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(NormalizeSource(source))
}

// Seen records source and reports whether it was probably added before.
func (f *Filter) Seen(source string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestOrAddString(NormalizeSource(source))
}

// EstimatedCount returns the approximate number of sources in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}

// NormalizeSource maps equivalent spellings of a source to one key.
// URLs lose their fragment and a trailing slash and get a lower-case
// scheme and host; file paths are cleaned.
func NormalizeSource(source string) string {
	source = strings.TrimSpace(source)
	u, err := url.Parse(source)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		if source == "-" {
			return source
		}
		return filepath.Clean(source)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}
	return u.String()
}
