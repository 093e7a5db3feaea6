package mock

import (
	"context"

	"github.com/fwojciec/offercrawl"
)

var _ offercrawl.KeywordService = (*KeywordService)(nil)

// KeywordService is a mock implementation of offercrawl.KeywordService.
type KeywordService struct {
	StoreKeywordFn        func(ctx context.Context, rec *offercrawl.KeywordRecord) (bool, error)
	StoreKeywordsFn       func(ctx context.Context, companyID string, section offercrawl.SectionCode, kws offercrawl.Keywords) (*offercrawl.StoreResult, error)
	FindTopKeywordsFn     func(ctx context.Context, limit int) ([]*offercrawl.KeywordStat, error)
	FindCompanyKeywordsFn func(ctx context.Context, companyID string) ([]*offercrawl.KeywordRecord, error)
}

func (s *KeywordService) StoreKeyword(ctx context.Context, rec *offercrawl.KeywordRecord) (bool, error) {
	return s.StoreKeywordFn(ctx, rec)
}

func (s *KeywordService) StoreKeywords(ctx context.Context, companyID string, section offercrawl.SectionCode, kws offercrawl.Keywords) (*offercrawl.StoreResult, error) {
	return s.StoreKeywordsFn(ctx, companyID, section, kws)
}

func (s *KeywordService) FindTopKeywords(ctx context.Context, limit int) ([]*offercrawl.KeywordStat, error) {
	return s.FindTopKeywordsFn(ctx, limit)
}

func (s *KeywordService) FindCompanyKeywords(ctx context.Context, companyID string) ([]*offercrawl.KeywordRecord, error) {
	return s.FindCompanyKeywordsFn(ctx, companyID)
}
