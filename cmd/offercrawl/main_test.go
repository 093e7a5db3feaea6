package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/offercrawl"
	main "github.com/fwojciec/offercrawl/cmd/offercrawl"
	"github.com/fwojciec/offercrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homepageHTML = `<html><head><title>Acme Roofing</title></head><body>
<nav><ul>
  <li><a href="/">Home</a></li>
  <li><a href="/services/roof-repair">Roof Repair</a></li>
  <li><a href="/about">About</a></li>
</ul></nav>
<main><p>Family owned since 1982.</p></main>
</body></html>`

const roofRepairHTML = `<html><head><title>Roof Repair | Acme Roofing</title></head><body>
<main><h1>Roof Repair</h1><p>Fast repairs for leaks and storm damage.</p></main>
</body></html>`

// siteFetcher serves a small static site for example.com.
func siteFetcher() *mock.Fetcher {
	pages := map[string]string{
		"https://example.com":                      homepageHTML,
		"https://example.com/services/roof-repair": roofRepairHTML,
	}
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*offercrawl.FetchResult, error) {
			html, ok := pages[url]
			if !ok {
				return nil, offercrawl.Errorf(offercrawl.EINVALID, "unexpected status 404")
			}
			return &offercrawl.FetchResult{HTML: html, FinalURL: url}, nil
		},
		CloseFn: func() error { return nil },
	}
}

func runMain(t *testing.T, dbPath string, args ...string) (string, string, error) {
	t.Helper()

	m := main.NewMain()
	m.DBPath = dbPath
	m.Fetcher = siteFetcher()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_AddThenStatus(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	out, _, err := runMain(t, dbPath, "add", "example.com", "https://www.other.org/")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2 companies (0 existing, 0 invalid)")

	out, _, err = runMain(t, dbPath, "add", "EXAMPLE.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 0 companies (1 existing, 0 invalid)")

	out, _, err = runMain(t, dbPath, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Companies: 2")
	assert.Contains(t, out, "pending      2")
}

func TestMain_Run_CrawlStoresKeywords(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	out, stderr, err := runMain(t, dbPath, "--no-robots", "--rate-limit=0", "--log-level=error", "crawl", "example.com", "--add")
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "Crawling example.com")
	assert.Contains(t, out, "Found 1 offering links")

	out, _, err = runMain(t, dbPath, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "completed    1")
	assert.Contains(t, strings.ToLower(out), "roof repair")
}

func TestMain_Run_CrawlUnknownCompany(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	_, stderr, err := runMain(t, dbPath, "--no-robots", "crawl", "example.com")

	require.Error(t, err)
	assert.Equal(t, offercrawl.ENOTFOUND, offercrawl.ErrorCode(err))
	assert.Contains(t, stderr, "offercrawl add")
}

func TestMain_Run_Extract(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	out, stderr, err := runMain(t, dbPath, "--no-robots", "--log-level=error", "extract", "example.com/services/roof-repair")

	require.NoError(t, err, stderr)
	assert.Contains(t, out, "https://example.com/services/roof-repair (detail)")
	assert.Contains(t, out, "Roof Repair")
}

func TestMain_Run_Links(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	out, stderr, err := runMain(t, dbPath, "--no-robots", "--log-level=error", "links", "https://example.com")

	require.NoError(t, err, stderr)
	assert.Contains(t, out, "detail")
	assert.Contains(t, out, "https://example.com/services/roof-repair")
	assert.NotContains(t, out, "/about")
}

func TestMain_Run_TagThenCompanyStatus(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	_, _, err := runMain(t, dbPath, "add", "example.com")
	require.NoError(t, err)

	out, _, err := runMain(t, dbPath, "tag", "example.com", "Gutter Cleaning", "--url=https://example.com/gutters")
	require.NoError(t, err)
	assert.Contains(t, out, `Tagged example.com with "Gutter Cleaning" (service_detail)`)

	out, _, err = runMain(t, dbPath, "tag", "www.example.com", "gutter cleaning")
	require.NoError(t, err)
	assert.Contains(t, out, "already has")

	out, _, err = runMain(t, dbPath, "status", "example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "example.com (pending)")
	assert.Contains(t, out, "service_detail:")
	assert.Contains(t, out, "1.00  manual           Gutter Cleaning")
}
