package goquery

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/offercrawl"
)

// titleSeparatorRe matches the separators between the segments of a page
// title: pipes, spaced dashes, em-dashes, colons and spaced slashes.
var titleSeparatorRe = regexp.MustCompile(`\s*[|»·]\s*|\s+-\s+|\s*[–—]\s*|:+\s+|\s+/\s+`)

// TitleExtractor proposes the offering segment of the page title.
type TitleExtractor struct {
	legal map[string]bool
}

// NewTitleExtractor returns a TitleExtractor that skips title segments
// containing one of the company legal tokens of vocab.
func NewTitleExtractor(vocab *offercrawl.Vocabulary) *TitleExtractor {
	e := &TitleExtractor{legal: make(map[string]bool)}
	for _, tok := range vocab.LegalTokens {
		e.legal[strings.ToLower(tok)] = true
	}
	return e
}

// Name returns the extractor's identifier.
func (e *TitleExtractor) Name() string { return "title" }

// Extract returns the first title segment that does not name the company,
// or the whole title when every segment does.
func (e *TitleExtractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	raw := cleanText(doc.Find("title").First())
	if raw == "" {
		return nil
	}

	chosen := ""
	for _, part := range titleSeparatorRe.Split(raw, -1) {
		part = offercrawl.SanitizeText(part)
		if part == "" || e.hasLegalToken(part) {
			continue
		}
		chosen = part
		break
	}
	if chosen == "" {
		chosen = raw
	}

	out := candidates{pageURL: pageURL}
	out.add(chosen, ConfidenceTitle, offercrawl.MethodTitle)
	return out.list
}

func (e *TitleExtractor) hasLegalToken(s string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if e.legal[tok] {
			return true
		}
	}
	return false
}

// MetaKeywordsExtractor proposes the entries of the keywords meta tag.
type MetaKeywordsExtractor struct{}

// Name returns the extractor's identifier.
func (MetaKeywordsExtractor) Name() string { return "meta" }

// Extract returns the comma-separated entries of <meta name="keywords">.
func (MetaKeywordsExtractor) Extract(doc *goquery.Document, pageURL string) []offercrawl.Candidate {
	out := candidates{pageURL: pageURL}
	doc.Find("meta[name]").Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "keywords") {
			return
		}
		content, _ := sel.Attr("content")
		for _, kw := range strings.Split(content, ",") {
			out.add(offercrawl.SanitizeText(kw), ConfidenceMeta, offercrawl.MethodMeta)
		}
	})
	return out.list
}
