package offercrawl

import "context"

// FetchResult is a fetched HTML page.
type FetchResult struct {
	HTML string
	// FinalURL is the URL of the page after redirects.
	FinalURL string
}

// Fetcher retrieves HTML pages.
type Fetcher interface {
	// Fetch retrieves the page at url. Responses that are not successful
	// HTML pages return an error.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// RobotsPolicy decides whether a URL may be crawled.
type RobotsPolicy interface {
	// Allowed reports whether url may be fetched.
	Allowed(ctx context.Context, url string) (bool, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
