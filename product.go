package prodfind

import (
	"slices"
	"sync"
)

// ProductSet is the deduplicated set of discovered product URLs.
// It is safe for concurrent use by multiple goroutines.
type ProductSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewProductSet returns an empty ProductSet.
func NewProductSet() *ProductSet {
	return &ProductSet{urls: make(map[string]struct{})}
}

// Add inserts url and reports whether it was not already present.
// Empty strings are never added.
func (s *ProductSet) Add(url string) bool {
	if url == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}

// AddAll inserts every url and returns how many were new.
func (s *ProductSet) AddAll(urls []string) int {
	n := 0
	for _, u := range urls {
		if s.Add(u) {
			n++
		}
	}
	return n
}

// Len returns the number of URLs in the set.
func (s *ProductSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

// Sorted returns the set's URLs in ascending lexical order.
// The result is never nil.
func (s *ProductSet) Sorted() []string {
	s.mu.Lock()
	urls := make([]string, 0, len(s.urls))
	for u := range s.urls {
		urls = append(urls, u)
	}
	s.mu.Unlock()
	slices.Sort(urls)
	return urls
}
