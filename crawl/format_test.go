package crawl_test

import (
	"testing"

	"github.com/fwojciec/offercrawl/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when shorter than max", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://x.com", crawl.TruncateURL("https://x.com", 50))
	})

	t.Run("truncates with ellipsis when longer than max", func(t *testing.T) {
		t.Parallel()
		url := "https://example.com/services/commercial/roof-repair"
		result := crawl.TruncateURL(url, 20)
		assert.Equal(t, "...rcial/roof-repair", result)
		assert.Len(t, result, 20)
	})

	t.Run("returns URL unchanged when exactly max length", func(t *testing.T) {
		t.Parallel()
		url := "https://example.com"
		assert.Equal(t, url, crawl.TruncateURL(url, len(url)))
	})

	t.Run("returns empty string when maxLen is zero", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://example.com", 0))
	})

	t.Run("returns empty string when maxLen is negative", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://example.com", -1))
	})

	t.Run("returns prefix of URL when maxLen is very small", func(t *testing.T) {
		t.Parallel()
		// When maxLen < 4, we can't fit "..." prefix, so return URL prefix
		assert.Equal(t, "htt", crawl.TruncateURL("https://example.com", 3))
		assert.Equal(t, "ht", crawl.TruncateURL("https://example.com", 2))
		assert.Equal(t, "h", crawl.TruncateURL("https://example.com", 1))
	})

	t.Run("handles short URL with small maxLen", func(t *testing.T) {
		t.Parallel()
		// URL shorter than maxLen should return unchanged
		assert.Equal(t, "ab", crawl.TruncateURL("ab", 3))
		assert.Equal(t, "a", crawl.TruncateURL("a", 2))
	})
}

func TestFormatResult(t *testing.T) {
	t.Parallel()

	t.Run("formats counts", func(t *testing.T) {
		t.Parallel()
		r := &crawl.Result{PagesCrawled: 3, KeywordsFound: 12, NewKeywords: 4, MenuKeywords: 5, OfferingKeywords: 7}
		assert.Equal(t, "3 pages, 12 keywords (4 new; menu 5, offerings 7)", crawl.FormatResult(r))
	})

	t.Run("singular page and failures", func(t *testing.T) {
		t.Parallel()
		r := &crawl.Result{PagesCrawled: 1, PagesFailed: 2, PagesSkipped: 1}
		assert.Equal(t, "1 page, 0 keywords (0 new; menu 0, offerings 0), 2 failed, 1 duplicate", crawl.FormatResult(r))
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "no result", crawl.FormatResult(nil))
	})
}
