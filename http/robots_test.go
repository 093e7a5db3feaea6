package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/offercrawl"
	ochttp "github.com/fwojciec/offercrawl/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func robotsServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRobotsChecker_Allowed(t *testing.T) {
	t.Parallel()

	t.Run("applies rules for the crawler's agent", func(t *testing.T) {
		t.Parallel()

		server := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /private\n\nUser-agent: OfferCrawl\nDisallow: /services/internal\n", nil)
		checker := ochttp.NewRobotsChecker("Mozilla/5.0 (compatible; OfferCrawl/1.0)")
		ctx := context.Background()

		ok, err := checker.Allowed(ctx, server.URL+"/services/roofing")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = checker.Allowed(ctx, server.URL+"/services/internal/pricing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("falls back to the wildcard group", func(t *testing.T) {
		t.Parallel()

		server := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /private\n", nil)
		checker := ochttp.NewRobotsChecker("OtherBot/1.0")

		ok, err := checker.Allowed(context.Background(), server.URL+"/private/page")
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = checker.Allowed(context.Background(), server.URL)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing robots.txt allows everything", func(t *testing.T) {
		t.Parallel()

		server := robotsServer(t, http.StatusNotFound, "", nil)
		checker := ochttp.NewRobotsChecker("")

		ok, err := checker.Allowed(context.Background(), server.URL+"/anything")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("fetches robots.txt once per site", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /private\n", &hits)
		checker := ochttp.NewRobotsChecker("")

		for _, path := range []string{"/", "/a", "/private"} {
			_, err := checker.Allowed(context.Background(), server.URL+path)
			require.NoError(t, err)
		}

		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("rejects invalid URL", func(t *testing.T) {
		t.Parallel()

		_, err := ochttp.NewRobotsChecker("").Allowed(context.Background(), "not a url")

		assert.Equal(t, offercrawl.EINVALID, offercrawl.ErrorCode(err))
	})
}
