package mock

import (
	"context"
	"time"

	"github.com/fwojciec/offercrawl"
)

var _ offercrawl.CompanyService = (*CompanyService)(nil)

// CompanyService is a mock implementation of offercrawl.CompanyService.
type CompanyService struct {
	CreateCompanyFn       func(ctx context.Context, company *offercrawl.Company) error
	FindCompanyByIDFn     func(ctx context.Context, id string) (*offercrawl.Company, error)
	FindCompanyByDomainFn func(ctx context.Context, domain string) (*offercrawl.Company, error)
	FindCompaniesFn       func(ctx context.Context, filter offercrawl.CompanyFilter) ([]*offercrawl.Company, error)
	UpdateCompanyStatusFn func(ctx context.Context, id string, status offercrawl.CompanyStatus, errMsg string) error
	ClaimNextPendingFn    func(ctx context.Context) (*offercrawl.Company, error)
	ResetStuckCompaniesFn func(ctx context.Context, olderThan time.Duration) (int, error)
	StatsFn               func(ctx context.Context) (*offercrawl.CrawlStats, error)
}

func (s *CompanyService) CreateCompany(ctx context.Context, company *offercrawl.Company) error {
	return s.CreateCompanyFn(ctx, company)
}

func (s *CompanyService) FindCompanyByID(ctx context.Context, id string) (*offercrawl.Company, error) {
	return s.FindCompanyByIDFn(ctx, id)
}

func (s *CompanyService) FindCompanyByDomain(ctx context.Context, domain string) (*offercrawl.Company, error) {
	return s.FindCompanyByDomainFn(ctx, domain)
}

func (s *CompanyService) FindCompanies(ctx context.Context, filter offercrawl.CompanyFilter) ([]*offercrawl.Company, error) {
	return s.FindCompaniesFn(ctx, filter)
}

func (s *CompanyService) UpdateCompanyStatus(ctx context.Context, id string, status offercrawl.CompanyStatus, errMsg string) error {
	return s.UpdateCompanyStatusFn(ctx, id, status, errMsg)
}

func (s *CompanyService) ClaimNextPending(ctx context.Context) (*offercrawl.Company, error) {
	return s.ClaimNextPendingFn(ctx)
}

func (s *CompanyService) ResetStuckCompanies(ctx context.Context, olderThan time.Duration) (int, error) {
	return s.ResetStuckCompaniesFn(ctx, olderThan)
}

func (s *CompanyService) Stats(ctx context.Context) (*offercrawl.CrawlStats, error) {
	return s.StatsFn(ctx)
}
