package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offercrawl"
)

// H1Extractor proposes every H1 of the page.
type H1Extractor struct{}

// Name returns the extractor's identifier.
func (H1Extractor) Name() string { return "h1" }

// Extract returns the text of all H1 elements.
func (H1Extractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	out := candidates{pageURL: pageURL}
	doc.Find("h1").Each(func(_ int, sel *goquery.Selection) {
		out.add(cleanText(sel), ConfidenceH1, offercrawl.MethodH1)
	})
	return out.list
}

// SubheadingExtractor proposes H2 to H6 headings of the main content that
// are not part of site chrome. Deeper headings score lower.
type SubheadingExtractor struct{}

// Name returns the extractor's identifier.
func (SubheadingExtractor) Name() string { return "subheading" }

// Extract returns the text of sub-headings in the main content region.
func (SubheadingExtractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	out := candidates{pageURL: pageURL}
	mainContent(doc).Find("h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		if inChrome(sel) {
			return
		}
		level := subheadingConfidence[goquery.NodeName(sel)]
		out.add(cleanText(sel), level.confidence, level.method)
	})
	return out.list
}
