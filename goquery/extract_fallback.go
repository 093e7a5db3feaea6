package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offercrawl"
)

// ServiceSectionExtractor proposes the headings of content sections whose
// class or id marks them as offering sections.
type ServiceSectionExtractor struct {
	markers []string
}

// NewServiceSectionExtractor returns a ServiceSectionExtractor using the
// section markers of vocab.
func NewServiceSectionExtractor(vocab *offercrawl.Vocabulary) *ServiceSectionExtractor {
	return &ServiceSectionExtractor{markers: lowerTerms(vocab.SectionMarkers)}
}

// Name returns the extractor's identifier.
func (e *ServiceSectionExtractor) Name() string { return "service_section" }

// Extract returns the direct-child headings of offering sections in the
// main content.
func (e *ServiceSectionExtractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	out := candidates{pageURL: pageURL}
	mainContent(doc).Find("div, section, article").Each(func(_ int, sec *goquery.Selection) {
		if !attrContainsAny(sec, e.markers) {
			return
		}
		sec.ChildrenFiltered("h1, h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
			out.add(cleanText(h), ConfidenceServiceSection, offercrawl.MethodServiceSection)
		})
	})
	return out.list
}

var (
	proseIntroRe = regexp.MustCompile(`(?i)\b(?:we provide|we offer|we also offer|we specialize in|we specialise in|we deliver|services include|solutions include|products include|offerings include|expertise includes)\s+(.+)`)
	proseSplitRe = regexp.MustCompile(`(?i)\s*,\s*(?:and\s+|or\s+)?|\s+(?:and|or)\s+`)
	proseLeadRe  = regexp.MustCompile(`(?i)^(?:and|or)\s+`)
)

// ProseExtractor proposes the items of offering lists written as prose,
// as in "We offer consulting, training and support." It only runs on
// offering URLs.
type ProseExtractor struct {
	urls *offercrawl.URLRules
}

// NewProseExtractor returns a ProseExtractor restricted to URLs that rules
// consider offering pages.
func NewProseExtractor(rules *offercrawl.URLRules) *ProseExtractor {
	return &ProseExtractor{urls: rules}
}

// Name returns the extractor's identifier.
func (e *ProseExtractor) Name() string { return "prose" }

// Extract returns the list items of service-intent sentences in main
// content paragraphs.
func (e *ProseExtractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	if !e.urls.IsOffering(pageURL) {
		return nil
	}
	out := candidates{pageURL: pageURL}
	mainContent(doc).Find("p").Each(func(_ int, p *goquery.Selection) {
		m := proseIntroRe.FindStringSubmatch(collapse(p.Text()))
		if m == nil {
			return
		}
		list := m[1]
		if i := strings.IndexAny(list, ".;:!?"); i >= 0 {
			list = list[:i]
		}
		items := proseSplitRe.Split(list, -1)
		if len(items) < 2 {
			return
		}
		for _, item := range items {
			item = proseLeadRe.ReplaceAllString(strings.TrimSpace(item), "")
			out.add(offercrawl.SanitizeText(item), ConfidenceProse, offercrawl.MethodProse)
		}
	})
	return out.list
}
