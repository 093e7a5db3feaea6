package mock

import (
	"context"

	"github.com/fwojciec/offercrawl"
)

var (
	_ offercrawl.Fetcher       = (*Fetcher)(nil)
	_ offercrawl.RobotsPolicy  = (*RobotsPolicy)(nil)
	_ offercrawl.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of offercrawl.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*offercrawl.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*offercrawl.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// RobotsPolicy is a mock implementation of offercrawl.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) (bool, error)
}

func (p *RobotsPolicy) Allowed(ctx context.Context, url string) (bool, error) {
	return p.AllowedFn(ctx, url)
}

// DomainLimiter is a mock implementation of offercrawl.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
