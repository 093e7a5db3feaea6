package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/offercrawl"
)

var (
	_ offercrawl.KeywordExtractor = (*LoggingKeywordExtractor)(nil)
	_ offercrawl.LinkClassifier   = (*LoggingLinkClassifier)(nil)
)

// LoggingKeywordExtractor wraps a KeywordExtractor with logging.
type LoggingKeywordExtractor struct {
	next   offercrawl.KeywordExtractor
	logger *slog.Logger
}

// NewLoggingKeywordExtractor creates a new LoggingKeywordExtractor.
func NewLoggingKeywordExtractor(next offercrawl.KeywordExtractor, logger *slog.Logger) *LoggingKeywordExtractor {
	return &LoggingKeywordExtractor{next: next, logger: logger}
}

// ExtractKeywords delegates to the wrapped extractor and logs the result size.
func (e *LoggingKeywordExtractor) ExtractKeywords(html, pageURL string, role offercrawl.PageRole) (kws offercrawl.Keywords, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract keywords",
			"url", pageURL,
			"role", role,
			"count", len(kws),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractKeywords(html, pageURL, role)
}

// LoggingLinkClassifier wraps a LinkClassifier with logging.
type LoggingLinkClassifier struct {
	next   offercrawl.LinkClassifier
	logger *slog.Logger
}

// NewLoggingLinkClassifier creates a new LoggingLinkClassifier.
func NewLoggingLinkClassifier(next offercrawl.LinkClassifier, logger *slog.Logger) *LoggingLinkClassifier {
	return &LoggingLinkClassifier{next: next, logger: logger}
}

// ClassifyLinks delegates to the wrapped classifier and logs how many links
// of each type were found.
func (c *LoggingLinkClassifier) ClassifyLinks(html, baseURL string, maxLinks int) (links []offercrawl.OfferingLink, err error) {
	defer func(begin time.Time) {
		var listing, detail int
		for _, l := range links {
			if l.Type == offercrawl.LinkListing {
				listing++
			} else {
				detail++
			}
		}
		c.logger.Info("classify links",
			"url", baseURL,
			"count", len(links),
			"listing", listing,
			"detail", detail,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.ClassifyLinks(html, baseURL, maxLinks)
}
