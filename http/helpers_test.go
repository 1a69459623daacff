package http_test

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/prodfind"
)

// testServer serves fixed content per path and records request counts.
type testServer struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

// Hits returns how many times path was requested.
func (s *testServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Host returns the server's host:port.
func (s *testServer) Host() string {
	return strings.TrimPrefix(s.URL, "http://")
}

// newTestServer creates a test HTTP server with the given path->content mapping.
// Content strings may contain {{BASE}} which is replaced with the server URL.
// Paths ending in .gz are gzip-compressed before serving.
func newTestServer(t *testing.T, content map[string]string) *testServer {
	t.Helper()

	ts := &testServer{hits: make(map[string]int)}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.hits[r.URL.Path]++
		ts.mu.Unlock()

		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body = replaceBaseURL(body, ts.URL)

		switch {
		case r.URL.Path == "/robots.txt":
			w.Header().Set("Content-Type", "text/plain")
		case strings.HasSuffix(r.URL.Path, ".gz"):
			w.Header().Set("Content-Type", "application/x-gzip")
			body = gzipString(t, body)
		case strings.HasSuffix(r.URL.Path, ".xml"):
			w.Header().Set("Content-Type", "application/xml")
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	return ts
}

func replaceBaseURL(content, baseURL string) string {
	return regexp.MustCompile(`\{\{BASE\}\}`).ReplaceAllString(content, baseURL)
}

func gzipString(t *testing.T, s string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.String()
}

// testSite is the SiteID of httptest servers, which listen on 127.0.0.1.
const testSite prodfind.SiteID = "127.0.0.1"

// newTestRegistry classifies /p/<digits> as a product page on testSite.
func newTestRegistry(extra ...*prodfind.SiteRules) *prodfind.Registry {
	rules := append([]*prodfind.SiteRules{{
		Site:     testSite,
		Patterns: []*regexp.Regexp{regexp.MustCompile(`^/p/[0-9]+$`)},
	}}, extra...)
	return prodfind.NewRegistry(rules...)
}

// newTarget returns a CrawlTarget rooted at srv.
func newTarget(srv *testServer) *prodfind.CrawlTarget {
	return &prodfind.CrawlTarget{
		StartURL: srv.URL + "/",
		Scheme:   "http",
		Host:     srv.Host(),
		Site:     testSite,
	}
}
