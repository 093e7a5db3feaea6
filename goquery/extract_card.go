package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/offercrawl"
)

// cardSelectors locate offering names on listing pages built from cards,
// tiles, panels and accordions.
var cardSelectors = []string{
	".service-card h3",
	".service-card h4",
	".service-card .title",
	".product-card h3",
	".product-card h4",
	".solution-card h3",
	".offering-card h3",
	".services-list li a",
	".services-list li h3",
	".service-item h3",
	".service-item .title",
	".solution-item .title",
	".solution-item h3",
	"article.service h2",
	"article.service h3",
	".offerings-grid .offering-name",
	".card-title",
	".tile-title",
	".panel-title",
	".accordion-header",
	".accordion-title",
	".accordion-button",
	".elementor-icon-box-title",
	".et_pb_module_header",
}

var (
	cardMatcher        = cascadia.MustCompile(strings.Join(cardSelectors, ", "))
	cardHeadingMatcher = cascadia.MustCompile("h2, h3")
)

// CardExtractor proposes offering names on listing pages. Its candidates
// carry the offering_card method, which the validator trusts for single
// words.
type CardExtractor struct{}

// Name returns the extractor's identifier.
func (CardExtractor) Name() string { return "offering_card" }

// Extract returns card titles followed by every H2 and H3 of the page.
func (CardExtractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	out := candidates{pageURL: pageURL}
	doc.FindMatcher(cardMatcher).Each(func(_ int, sel *goquery.Selection) {
		out.add(cleanText(sel), ConfidenceCard, offercrawl.MethodOfferingCard)
	})
	doc.FindMatcher(cardHeadingMatcher).Each(func(_ int, sel *goquery.Selection) {
		out.add(cleanText(sel), ConfidenceCardHeading, offercrawl.MethodOfferingCard)
	})
	return out.list
}
