package mock

import "github.com/fwojciec/offercrawl"

var (
	_ offercrawl.KeywordExtractor = (*KeywordExtractor)(nil)
	_ offercrawl.LinkClassifier   = (*LinkClassifier)(nil)
)

// KeywordExtractor is a mock implementation of offercrawl.KeywordExtractor.
type KeywordExtractor struct {
	ExtractKeywordsFn func(html, pageURL string, role offercrawl.PageRole) (offercrawl.Keywords, error)
}

func (e *KeywordExtractor) ExtractKeywords(html, pageURL string, role offercrawl.PageRole) (offercrawl.Keywords, error) {
	return e.ExtractKeywordsFn(html, pageURL, role)
}

// LinkClassifier is a mock implementation of offercrawl.LinkClassifier.
type LinkClassifier struct {
	ClassifyLinksFn func(html, baseURL string, maxLinks int) ([]offercrawl.OfferingLink, error)
}

func (c *LinkClassifier) ClassifyLinks(html, baseURL string, maxLinks int) ([]offercrawl.OfferingLink, error) {
	return c.ClassifyLinksFn(html, baseURL, maxLinks)
}
