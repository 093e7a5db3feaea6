package mock

import (
	"context"

	"github.com/fwojciec/offercrawl"
)

var _ offercrawl.CrawlJobService = (*CrawlJobService)(nil)

// CrawlJobService is a mock implementation of offercrawl.CrawlJobService.
type CrawlJobService struct {
	CreateCrawlJobFn func(ctx context.Context, companyID string) (*offercrawl.CrawlJob, error)
	UpdateCrawlJobFn func(ctx context.Context, id string, upd offercrawl.CrawlJobUpdate) (*offercrawl.CrawlJob, error)
	FindCrawlJobsFn  func(ctx context.Context, filter offercrawl.CrawlJobFilter) ([]*offercrawl.CrawlJob, error)
}

func (s *CrawlJobService) CreateCrawlJob(ctx context.Context, companyID string) (*offercrawl.CrawlJob, error) {
	return s.CreateCrawlJobFn(ctx, companyID)
}

func (s *CrawlJobService) UpdateCrawlJob(ctx context.Context, id string, upd offercrawl.CrawlJobUpdate) (*offercrawl.CrawlJob, error) {
	return s.UpdateCrawlJobFn(ctx, id, upd)
}

func (s *CrawlJobService) FindCrawlJobs(ctx context.Context, filter offercrawl.CrawlJobFilter) ([]*offercrawl.CrawlJob, error) {
	return s.FindCrawlJobsFn(ctx, filter)
}
