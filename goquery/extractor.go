package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offercrawl"
)

// Extractor proposes keyword candidates from one aspect of a page.
// Extractors are stateless and never modify the document.
type Extractor interface {
	// Name identifies the extractor in logs.
	Name() string

	// Extract returns raw, unvalidated candidates found in doc.
	Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate
}

// Confidence scores per extraction method.
const (
	ConfidenceJSONLD         = 1.00
	ConfidenceH1             = 0.95
	ConfidenceTitle          = 0.90
	ConfidenceMeta           = 0.85
	ConfidenceIntroList      = 0.85
	ConfidenceCard           = 0.80
	ConfidenceEmphasis       = 0.78
	ConfidenceList           = 0.75
	ConfidenceCardHeading    = 0.75
	ConfidenceServiceSection = 0.75
	ConfidenceProse          = 0.70
	ConfidenceMenu           = 0.50
)

// subheadingConfidence maps heading tags to their method and confidence.
var subheadingConfidence = map[string]struct {
	method     offercrawl.Method
	confidence float64
}{
	"h2": {offercrawl.MethodH2, 0.88},
	"h3": {offercrawl.MethodH3, 0.85},
	"h4": {offercrawl.MethodH4, 0.82},
	"h5": {offercrawl.MethodH5, 0.80},
	"h6": {offercrawl.MethodH6, 0.78},
}

// candidates accumulates non-empty candidate texts for one extractor.
type candidates struct {
	pageURL string
	list    []offercrawl.Candidate
}

func (c *candidates) add(text string, confidence float64, method offercrawl.Method) {
	if text == "" {
		return
	}
	c.list = append(c.list, offercrawl.Candidate{
		Text:       text,
		Confidence: confidence,
		Method:     method,
		SourceURL:  c.pageURL,
	})
}
