package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offercrawl"
)

// ListExtractor proposes the items of lists in the main content. Lists
// introduced by a heading that announces offerings score higher.
type ListExtractor struct {
	intent []string
}

// NewListExtractor returns a ListExtractor that recognizes the
// service-intent phrases of vocab.
func NewListExtractor(vocab *offercrawl.Vocabulary) *ListExtractor {
	return &ListExtractor{intent: lowerTerms(vocab.ServiceIntentPhrases)}
}

// Name returns the extractor's identifier.
func (e *ListExtractor) Name() string { return "list" }

// Extract returns the items of non-chrome lists in the main content.
func (e *ListExtractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	out := candidates{pageURL: pageURL}
	mainContent(doc).Find("ul, ol").Each(func(_ int, list *goquery.Selection) {
		if inChrome(list) {
			return
		}
		confidence := ConfidenceList
		if e.hasIntentLeadIn(list) {
			confidence = ConfidenceIntroList
		}
		list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			out.add(ownItemText(li), confidence, offercrawl.MethodList)
		})
	})
	return out.list
}

// hasIntentLeadIn reports whether the element preceding list is a heading
// or bold text containing a service-intent phrase.
func (e *ListExtractor) hasIntentLeadIn(list *goquery.Selection) bool {
	prev := list.Prev()
	if prev.Length() == 0 {
		return false
	}
	var lead string
	switch goquery.NodeName(prev) {
	case "h1", "h2", "h3", "h4", "h5", "h6", "strong", "b":
		lead = prev.Text()
	default:
		lead = prev.ChildrenFiltered("strong, b").Text()
	}
	lead = strings.ToLower(lead)
	for _, phrase := range e.intent {
		if strings.Contains(lead, phrase) {
			return true
		}
	}
	return false
}

// ownItemText returns the text of a list item without its nested lists.
func ownItemText(li *goquery.Selection) string {
	clone := li.Clone()
	clone.Find("ul, ol").Remove()
	return offercrawl.SanitizeText(clone.Text())
}

// EmphasisExtractor proposes bold text anywhere in the document.
type EmphasisExtractor struct{}

// Name returns the extractor's identifier.
func (EmphasisExtractor) Name() string { return "emphasis" }

// Extract returns the text of all strong and b elements.
func (EmphasisExtractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	out := candidates{pageURL: pageURL}
	doc.Find("strong, b").Each(func(_ int, sel *goquery.Selection) {
		out.add(cleanText(sel), ConfidenceEmphasis, offercrawl.MethodEmphasis)
	})
	return out.list
}

func lowerTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
