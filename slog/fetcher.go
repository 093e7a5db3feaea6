package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/offercrawl"
)

// Ensure LoggingFetcher implements offercrawl.Fetcher.
var _ offercrawl.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   offercrawl.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next offercrawl.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *offercrawl.FetchResult, err error) {
	defer func(begin time.Time) {
		var size int
		var final string
		if res != nil {
			size = len(res.HTML)
			final = res.FinalURL
		}
		f.logger.Info("fetch",
			"url", url,
			"final_url", final,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
