package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/offercrawl"
)

// Parse parses html into a document. Malformed markup is repaired by the
// HTML5 parser, so only read failures return an error.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, offercrawl.Errorf(offercrawl.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// mainContentMatchers are tried in order; the first match is the main
// content region.
var mainContentMatchers = compileAll(
	"main",
	"article",
	"[role=main]",
	"#content",
	".content",
	"#main-content",
	".main-content",
	".page-content",
	".entry-content",
	".post-content",
	"#main",
	".main",
)

// mainContent returns the region holding the page's primary content,
// falling back to the body.
func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, m := range mainContentMatchers {
		if sel := doc.FindMatcher(m); sel.Length() > 0 {
			return sel.First()
		}
	}
	return doc.Find("body").First()
}

// maxAncestorDepth is how many ancestors are inspected for chrome regions.
const maxAncestorDepth = 5

var (
	chromeTags     = map[string]bool{"nav": true, "aside": true, "footer": true, "header": true}
	chromeKeywords = []string{"nav", "sidebar", "footer", "header", "menu", "breadcrumb", "widget"}
)

// inChrome reports whether sel or one of its nearest ancestors is site
// chrome: navigation, sidebar, header or footer.
func inChrome(sel *goquery.Selection) bool {
	cur := sel
	for i := 0; i <= maxAncestorDepth && cur.Length() > 0; i++ {
		if chromeTags[goquery.NodeName(cur)] || attrContainsAny(cur, chromeKeywords) {
			return true
		}
		cur = cur.Parent()
	}
	return false
}

// attrContainsAny reports whether the class or id of the first element in
// sel contains one of keywords, case-insensitively.
func attrContainsAny(sel *goquery.Selection, keywords []string) bool {
	class, _ := sel.Attr("class")
	id, _ := sel.Attr("id")
	if class == "" && id == "" {
		return false
	}
	attrs := strings.ToLower(class + " " + id)
	for _, kw := range keywords {
		if strings.Contains(attrs, kw) {
			return true
		}
	}
	return false
}

// cleanText returns the sanitized text content of sel.
func cleanText(sel *goquery.Selection) string {
	return offercrawl.SanitizeText(sel.Text())
}

// collapse joins the whitespace-separated fields of s with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func compileAll(selectors ...string) []cascadia.Selector {
	out := make([]cascadia.Selector, len(selectors))
	for i, s := range selectors {
		out[i] = cascadia.MustCompile(s)
	}
	return out
}
