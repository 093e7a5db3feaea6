package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/offercrawl"
)

var _ offercrawl.KeywordService = (*LoggingKeywordService)(nil)

// LoggingKeywordService wraps a KeywordService with logging of writes.
// Reads are delegated without logging.
type LoggingKeywordService struct {
	next   offercrawl.KeywordService
	logger *slog.Logger
}

// NewLoggingKeywordService creates a new LoggingKeywordService.
func NewLoggingKeywordService(next offercrawl.KeywordService, logger *slog.Logger) *LoggingKeywordService {
	return &LoggingKeywordService{next: next, logger: logger}
}

// StoreKeyword delegates to the wrapped service and logs the keyword.
func (s *LoggingKeywordService) StoreKeyword(ctx context.Context, rec *offercrawl.KeywordRecord) (isNew bool, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("store keyword",
			"company_id", rec.CompanyID,
			"section", rec.Section,
			"keyword", rec.Keyword,
			"new", isNew,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.StoreKeyword(ctx, rec)
}

// StoreKeywords delegates to the wrapped service and logs the totals.
func (s *LoggingKeywordService) StoreKeywords(ctx context.Context, companyID string, section offercrawl.SectionCode, kws offercrawl.Keywords) (res *offercrawl.StoreResult, err error) {
	defer func(begin time.Time) {
		var total, created int
		if res != nil {
			total, created = res.Total, res.New
		}
		s.logger.Info("store keywords",
			"company_id", companyID,
			"section", section,
			"count", len(kws),
			"stored", total,
			"new", created,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.StoreKeywords(ctx, companyID, section, kws)
}

// FindTopKeywords delegates to the wrapped service.
func (s *LoggingKeywordService) FindTopKeywords(ctx context.Context, limit int) ([]*offercrawl.KeywordStat, error) {
	return s.next.FindTopKeywords(ctx, limit)
}

// FindCompanyKeywords delegates to the wrapped service.
func (s *LoggingKeywordService) FindCompanyKeywords(ctx context.Context, companyID string) ([]*offercrawl.KeywordRecord, error) {
	return s.next.FindCompanyKeywords(ctx, companyID)
}
