package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/prodfind/cmd/prodfind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newShop starts a server without sitemaps whose home page links to one
// product page and one other page.
func newShop(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><a href="/p/101">Shirt</a><a href="/about">About</a></body></html>`)
		case "/p/101", "/about":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><a href="/">Home</a></body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// writeSites writes a registry file that treats /p/<digits> on the
// loopback address as product pages.
func writeSites(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sites.yaml")
	doc := "sites:\n  - site: 127.0.0.1\n    patterns: ['^/p/[0-9]+$']\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestMain_Run_NoArgsShowsHelpAndFails(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), nil, stdout, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, stdout.String(), "discover")
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	for _, cmd := range []string{"discover", "jobs", "serve", "sites"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_SitesListsBuiltInTable(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"sites"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	for _, site := range []string{"tatacliq.com", "westside.com", "nykaafashion.com", "virgio.com"} {
		assert.Contains(t, stdout.String(), site)
	}
	assert.Nil(t, m.DB, "sites must not open the database")
}

func TestMain_Run_RejectsMissingSitesFile(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	err := m.Run(context.Background(), []string{"--sites", missing, "sites"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestMain_Run_DiscoverCrawlsWhenNoSitemap(t *testing.T) {
	t.Parallel()

	srv := newShop(t)
	m := main.NewMain()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"--sites", writeSites(t),
		"discover", srv.URL + "/",
	}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/p/101\n", stdout.String())
}

func TestMain_Run_DiscoverZeroThresholdSkipsCrawl(t *testing.T) {
	t.Parallel()

	srv := newShop(t)
	m := main.NewMain()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"--sites", writeSites(t),
		"--threshold", "0",
		"discover", srv.URL + "/",
	}, stdout, stderr)
	require.NoError(t, err)

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "No product URLs found")
}

func TestMain_Run_DiscoverInvalidURL(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"discover", "ftp://example.com/"}, &bytes.Buffer{}, stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "error:")
}

func TestMain_Run_JobsSubmitThenShow(t *testing.T) {
	t.Parallel()

	srv := newShop(t)
	sites := writeSites(t)
	dbPath := filepath.Join(t.TempDir(), "jobs.db")

	m := main.NewMain()
	m.DBPath = dbPath
	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"--sites", sites, "jobs", "submit", srv.URL + "/"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	require.Contains(t, stdout.String(), "DONE: 1 product URLs")

	// "Job <id> DONE: ..."
	id := strings.Fields(stdout.String())[1]

	m = main.NewMain()
	m.DBPath = dbPath
	stdout.Reset()
	err = m.Run(context.Background(), []string{"jobs", "show", id}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Status:   DONE")
	assert.Contains(t, stdout.String(), srv.URL+"/p/101\n")

	m = main.NewMain()
	m.DBPath = dbPath
	stdout.Reset()
	err = m.Run(context.Background(), []string{"jobs", "list"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), id)
}
