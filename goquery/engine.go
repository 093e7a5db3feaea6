// Package goquery implements offering link classification and keyword
// extraction on HTML documents parsed with goquery.
package goquery

import (
	"io"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offercrawl"
)

// Compile-time interface verification.
var (
	_ offercrawl.KeywordExtractor = (*Engine)(nil)
	_ offercrawl.LinkClassifier   = (*Engine)(nil)
)

// minPrimaryKeywords is the number of keywords below which the fallback
// extractors run.
const minPrimaryKeywords = 3

// Engine classifies homepage links and extracts offering keywords. It holds
// only immutable configuration and is safe for concurrent use; every call
// works on its own document.
type Engine struct {
	vocab     *offercrawl.Vocabulary
	validator *offercrawl.Validator
	urls      *offercrawl.URLRules
	logger    *slog.Logger

	primary  []Extractor
	fallback []Extractor
	listing  []Extractor
	menu     *MenuExtractor
}

// Option configures an Engine.
type Option func(*Engine)

// WithVocabulary replaces the default vocabulary.
func WithVocabulary(vocab *offercrawl.Vocabulary) Option {
	return func(e *Engine) {
		e.vocab = vocab
	}
}

// WithLogger logs rejected candidates at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine with the extractors registered in cascade
// order.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.vocab == nil {
		e.vocab = offercrawl.DefaultVocabulary()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e.validator = offercrawl.NewValidator(e.vocab)
	e.urls = offercrawl.NewURLRules(e.vocab)
	e.primary = []Extractor{
		H1Extractor{},
		NewTitleExtractor(e.vocab),
		SubheadingExtractor{},
		MetaKeywordsExtractor{},
		JSONLDExtractor{},
		NewListExtractor(e.vocab),
		EmphasisExtractor{},
	}
	e.fallback = []Extractor{
		NewServiceSectionExtractor(e.vocab),
		NewProseExtractor(e.urls),
	}
	e.listing = []Extractor{CardExtractor{}}
	e.menu = NewMenuExtractor(e.vocab)
	return e
}

// ExtractKeywords parses html and extracts keywords for the page role:
// menu labels for the homepage, card titles for listing pages and the
// full extractor cascade for detail pages. A listing page without card
// titles falls back to the cascade.
func (e *Engine) ExtractKeywords(html, pageURL string, role offercrawl.PageRole) (offercrawl.Keywords, error) {
	if !role.Valid() {
		return nil, offercrawl.Errorf(offercrawl.EINVALID, "unknown page role %q", role)
	}
	doc, err := Parse(html)
	if err != nil {
		return nil, err
	}

	switch role {
	case offercrawl.RoleHome:
		return e.ExtractMenuKeywords(doc, pageURL), nil
	case offercrawl.RoleListing:
		if kws := e.ExtractListingKeywords(doc, pageURL); len(kws) > 0 {
			return kws, nil
		}
	}
	return e.ExtractOfferingKeywords(doc, pageURL), nil
}

// ExtractOfferingKeywords runs the primary extractors over doc and, when
// they yield fewer than three keywords, the fallback extractors as well.
func (e *Engine) ExtractOfferingKeywords(doc *goquery.Document, pageURL string) offercrawl.Keywords {
	primary := e.collect(doc, pageURL, e.primary)
	kws := offercrawl.Aggregate(primary)
	if len(kws) >= minPrimaryKeywords {
		return kws
	}
	return offercrawl.Aggregate(append(primary, e.collect(doc, pageURL, e.fallback)...))
}

// ExtractListingKeywords extracts offering names from the cards of a
// listing page.
func (e *Engine) ExtractListingKeywords(doc *goquery.Document, pageURL string) offercrawl.Keywords {
	return offercrawl.Aggregate(e.collect(doc, pageURL, e.listing))
}

// ExtractMenuKeywords extracts the normalized navigation labels of a
// homepage.
func (e *Engine) ExtractMenuKeywords(doc *goquery.Document, pageURL string) offercrawl.Keywords {
	kws := make(offercrawl.Keywords)
	for _, c := range e.menu.Extract(doc, pageURL) {
		kws[c.Text] = offercrawl.KeywordInfo{Confidence: c.Confidence, Method: c.Method, URL: c.SourceURL}
	}
	return kws
}

// collect runs extractors in order and returns the candidates the
// validator accepts.
func (e *Engine) collect(doc *goquery.Document, pageURL string, extractors []Extractor) []offercrawl.Candidate {
	var accepted []offercrawl.Candidate
	for _, ex := range extractors {
		for _, c := range ex.Extract(doc, pageURL) {
			if ok, reason := e.validator.Validate(c.Text, c.Method); !ok {
				e.logger.Debug("candidate rejected",
					"extractor", ex.Name(),
					"text", c.Text,
					"reason", reason,
					"url", pageURL,
				)
				continue
			}
			accepted = append(accepted, c)
		}
	}
	return accepted
}
